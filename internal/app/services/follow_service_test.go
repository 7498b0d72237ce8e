package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/app/models/dto"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
)

func TestToggleFollow(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		seed       []string
		req        dto.FollowRequest
		wantStatus models.FollowStatus
		wantErr    error
		wantFollow bool
	}{
		{
			name:       "follow",
			req:        dto.FollowRequest{CollegeName: "Loyola", Action: "follow"},
			wantStatus: models.StatusFollowed,
			wantFollow: true,
		},
		{
			name:       "duplicate follow is normalized",
			seed:       []string{"Loyola"},
			req:        dto.FollowRequest{CollegeName: "Loyola", Action: "follow"},
			wantStatus: models.StatusFollowed,
			wantFollow: true,
		},
		{
			name:       "unfollow",
			seed:       []string{"Loyola"},
			req:        dto.FollowRequest{CollegeName: "Loyola", Action: "unfollow"},
			wantStatus: models.StatusUnfollowed,
		},
		{
			name:       "unfollow without a follow is a no-op",
			req:        dto.FollowRequest{CollegeName: "Loyola", Action: "unfollow"},
			wantStatus: models.StatusUnfollowed,
		},
		{
			name:    "unknown action",
			req:     dto.FollowRequest{CollegeName: "Loyola", Action: "block"},
			wantErr: apperrors.ErrInvalidFollowAction,
		},
		{
			name:    "upper case action",
			req:     dto.FollowRequest{CollegeName: "Loyola", Action: "FOLLOW"},
			wantErr: apperrors.ErrInvalidFollowAction,
		},
		{
			name:    "padded action",
			req:     dto.FollowRequest{CollegeName: "Loyola", Action: " follow"},
			wantErr: apperrors.ErrInvalidFollowAction,
		},
		{
			name:    "mixed case unfollow",
			seed:    []string{"Loyola"},
			req:     dto.FollowRequest{CollegeName: "Loyola", Action: "UnFollow"},
			wantErr: apperrors.ErrInvalidFollowAction,
		},
		{
			name:    "unknown college",
			req:     dto.FollowRequest{CollegeName: "Nowhere", Action: "follow"},
			wantErr: apperrors.ErrCollegeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			follows := newFakeFollowStore()
			for _, c := range tt.seed {
				require.NoError(t, follows.Insert(ctx, 1, c))
			}
			svc := NewFollowService(follows, newFakeCollegeStore("Loyola", "Xavier"), nil, testLogger)

			resp, err := svc.ToggleFollow(ctx, 1, &tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.Status)

			following, err := follows.IsFollowing(ctx, 1, tt.req.CollegeName)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFollow, following)

			names, err := follows.ListCollegeNames(ctx, 1)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(names), 1, "never more than one row per (user, college)")
		})
	}
}

func TestToggleFollowIsIdempotent(t *testing.T) {
	ctx := context.Background()
	follows := newFakeFollowStore()
	svc := NewFollowService(follows, newFakeCollegeStore("Loyola"), nil, testLogger)

	for i := 0; i < 3; i++ {
		resp, err := svc.ToggleFollow(ctx, 1, &dto.FollowRequest{CollegeName: "Loyola", Action: "follow"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusFollowed, resp.Status)
	}
	got, err := svc.Following(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Loyola"}, got.Colleges)

	for i := 0; i < 2; i++ {
		resp, err := svc.ToggleFollow(ctx, 1, &dto.FollowRequest{CollegeName: "Loyola", Action: "unfollow"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnfollowed, resp.Status)
	}
	got, err = svc.Following(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got.Colleges)
	assert.NotNil(t, got.Colleges)
}

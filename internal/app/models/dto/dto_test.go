package dto

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusnet/internal/app/models"
)

func TestHandleValidationError(t *testing.T) {
	v := validator.New()
	v.SetTagName("binding")
	err := v.Struct(FollowRequest{})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
	fields, ok := detail.Details.([]ErrorDetail)
	require.True(t, ok)
	require.Len(t, fields, 2)
	assert.Equal(t, "college_name", fields[0].Field)
	assert.Equal(t, "college_name is required", fields[0].Message)
	assert.Equal(t, "action", fields[1].Field)
}

func TestHandleValidationErrorNonValidator(t *testing.T) {
	detail := HandleValidationError(assert.AnError)
	assert.Equal(t, "Invalid request format", detail.Message)
}

func TestCalendarEntryUsesUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	key := uuid.MustParse("7f0c7a52-4f0e-4d7a-9b43-2f8a4f6f2a11")
	e := &models.Event{
		Name:     "Hack Night",
		LinkKey:  key,
		Location: "Mumbai",
		DateTime: time.Date(2025, 3, 15, 2, 0, 0, 0, ist),
	}

	entry := NewCalendarEntry(e)
	assert.Equal(t, "2025-03-14 20:30", entry.DateTime)
	assert.Equal(t, key.String(), entry.LinkKey)

	item := NewEventListItem(e)
	assert.Equal(t, time.UTC, item.DateTime.Location())
}

func TestNewPostResponseMedia(t *testing.T) {
	body := "hello"
	p := &models.Post{ID: 3, AuthorID: 1, AuthorUsername: "asha", Body: &body,
		Media: []*models.MediaFile{{FileURL: "/uploads/posts/a.mp4", FileType: models.MediaVideo}}}

	resp := NewPostResponse(p)
	assert.Equal(t, "asha", resp.Author.Username)
	require.Len(t, resp.Media, 1)
	assert.Equal(t, models.MediaVideo, resp.Media[0].Type)

	assert.NotNil(t, NewPostListResponse(nil))
	assert.Empty(t, NewPostResponse(&models.Post{}).Media)
}

package repositories

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusnet/internal/app/models"
)

func ptr[T any](v T) *T { return &v }

func TestPostsByAffiliationsQuery(t *testing.T) {
	sql, args, err := postsByAffiliationsQuery([]string{"Xavier", "St. Mary"}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "LEFT JOIN user_profiles up ON up.user_id = p.author_id")
	assert.Contains(t, sql, "WHERE up.college_name IN ($1,$2)")
	assert.True(t, strings.HasSuffix(sql, "ORDER BY p.created_at DESC, p.id ASC"))
	assert.Equal(t, []interface{}{"Xavier", "St. Mary"}, args)
}

func TestPostsOutsideAffiliationsQuery(t *testing.T) {
	t.Run("excludes followed set and keeps unaffiliated authors", func(t *testing.T) {
		sql, args, err := postsOutsideAffiliationsQuery([]string{"Xavier"}, 10).ToSql()
		require.NoError(t, err)

		assert.Contains(t, sql, "WHERE (up.college_name IS NULL OR up.college_name NOT IN ($1))")
		assert.True(t, strings.HasSuffix(sql, "ORDER BY p.created_at DESC, p.id ASC LIMIT 10"))
		assert.Equal(t, []interface{}{"Xavier"}, args)
	})

	t.Run("empty followed set is unconstrained", func(t *testing.T) {
		sql, args, err := postsOutsideAffiliationsQuery(nil, 10).ToSql()
		require.NoError(t, err)

		assert.NotContains(t, sql, "WHERE")
		assert.Contains(t, sql, "LIMIT 10")
		assert.Empty(t, args)
	})
}

func TestMediaByPostsQuery(t *testing.T) {
	sql, args, err := mediaByPostsQuery([]int64{4, 9}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, post_id, file_url, file_type FROM media_files WHERE post_id IN ($1,$2) ORDER BY id ASC", sql)
	assert.Equal(t, []interface{}{int64(4), int64(9)}, args)
}

func TestFilterEventsQuery(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		query       EventQuery
		contains    []string
		notContains []string
		args        []interface{}
	}{
		{
			name:        "no criteria only bounds time",
			query:       EventQuery{From: now},
			contains:    []string{"WHERE e.date_time >= $1 ORDER BY e.date_time ASC, e.id ASC"},
			notContains: []string{"registration_fee IS", "ILIKE", "EXISTS", "FALSE"},
			args:        []interface{}{now},
		},
		{
			name:     "type and free fee",
			query:    EventQuery{From: now, Filter: models.EventFilter{EventTypeID: ptr(int64(3)), Fee: models.FeeFree}},
			contains: []string{"e.event_type_id = $2", "e.registration_fee IS NULL"},
			args:     []interface{}{now, int64(3)},
		},
		{
			name:     "paid fee",
			query:    EventQuery{From: now, Filter: models.EventFilter{Fee: models.FeePaid}},
			contains: []string{"e.registration_fee IS NOT NULL"},
			args:     []interface{}{now},
		},
		{
			name:     "my college with affiliation",
			query:    EventQuery{From: now, RequesterCollege: "Xavier", Filter: models.EventFilter{MyCollegeOnly: true}},
			contains: []string{"op.college_name = $2"},
			args:     []interface{}{now, "Xavier"},
		},
		{
			name:     "my college without affiliation matches nothing",
			query:    EventQuery{From: now, Filter: models.EventFilter{MyCollegeOnly: true, State: ptr("goa")}},
			contains: []string{"AND FALSE", "e.location ILIKE $2"},
			args:     []interface{}{now, "%goa%"},
		},
		{
			name:     "applied only",
			query:    EventQuery{From: now, RequesterID: 42, Filter: models.EventFilter{AppliedOnly: true}},
			contains: []string{"EXISTS (SELECT 1 FROM event_applications ea WHERE ea.event_id = e.id AND ea.user_id = $2)"},
			args:     []interface{}{now, int64(42)},
		},
		{
			name:     "college substring is escaped",
			query:    EventQuery{From: now, Filter: models.EventFilter{College: ptr("100%_real")}},
			contains: []string{"op.college_name ILIKE $2"},
			args:     []interface{}{now, `%100\%\_real%`},
		},
		{
			name: "all criteria conjoined in order",
			query: EventQuery{From: now, RequesterID: 7, RequesterCollege: "Xavier", Filter: models.EventFilter{
				EventTypeID: ptr(int64(1)), Fee: models.FeePaid, MyCollegeOnly: true, AppliedOnly: true,
				College: ptr("xav"), State: ptr("Mumbai"),
			}},
			contains: []string{
				"WHERE e.date_time >= $1 AND e.event_type_id = $2 AND e.registration_fee IS NOT NULL AND op.college_name = $3 AND EXISTS",
				"ea.user_id = $4) AND op.college_name ILIKE $5 AND e.location ILIKE $6",
			},
			args: []interface{}{now, int64(1), "Xavier", int64(7), "%xav%", "%Mumbai%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := filterEventsQuery(tt.query).ToSql()
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, sql, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, sql, s)
			}
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestEventsBetweenQuery(t *testing.T) {
	from := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	sql, args, err := eventsBetweenQuery(from, from.AddDate(0, 0, 1)).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE e.date_time >= $1 AND e.date_time < $2")
	assert.Equal(t, []interface{}{from, from.AddDate(0, 0, 1)}, args)
}

func TestCollegeQueries(t *testing.T) {
	sql, args, err := searchCollegesQuery("xav", 10).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name, state FROM colleges WHERE name ILIKE $1 ORDER BY name ASC LIMIT 10", sql)
	assert.Equal(t, []interface{}{"%xav%"}, args)

	sql, args, err = searchStatesQuery("ma", 10).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT DISTINCT TRIM(state) AS state_name FROM colleges")
	assert.Contains(t, sql, "TRIM(state) ILIKE $1 AND TRIM(state) !~ '[0-9]' AND LENGTH(TRIM(state)) > 3")
	assert.Equal(t, []interface{}{"ma%"}, args)

	sql, args, err = randomCollegesQuery([]string{"Xavier"}, 3).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name, state FROM colleges WHERE name NOT IN ($1) ORDER BY RANDOM() LIMIT 3", sql)
	assert.Equal(t, []interface{}{"Xavier"}, args)

	sql, _, err = randomCollegesQuery(nil, 3).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "WHERE")
}

func TestUserQueries(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, changed := updateUserQuery(1, nil, nil, now)
	assert.False(t, changed)

	sql, args, err := func() (string, []interface{}, error) {
		q, changed := updateUserQuery(1, ptr("asha"), nil, now)
		require.True(t, changed)
		return q.ToSql()
	}()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET username = $1, updated_at = $2 WHERE id = $3", sql)
	assert.Equal(t, []interface{}{"asha", now, int64(1)}, args)

	college := "Xavier"
	sql, args, err = saveProfileQuery(&models.Profile{UserID: 5, CollegeName: &college, SetupComplete: true}).ToSql()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sql, "INSERT INTO user_profiles (user_id,college_name,phone_number,profile_icon_url,setup_complete) VALUES ($1,$2,$3,$4,$5) ON CONFLICT (user_id) DO UPDATE"))
	assert.Len(t, args, 5)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

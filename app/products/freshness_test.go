package products

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mytheresa/catalog-web/models"
)

func TestIsRecentlyCreated(t *testing.T) {
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name      string
		createdAt time.Time
		expected  bool
	}{
		{name: "Just now", createdAt: now, expected: true},
		{name: "One hour ago", createdAt: now.Add(-time.Hour), expected: true},
		{name: "One nanosecond inside the window", createdAt: now.Add(-RecentWindow + time.Nanosecond), expected: true},
		{name: "Exactly 24h ago is excluded", createdAt: now.Add(-RecentWindow), expected: false},
		{name: "Two days ago", createdAt: now.Add(-48 * time.Hour), expected: false},
		{name: "In the future", createdAt: now.Add(3 * time.Hour), expected: true},
		{name: "Zero time", createdAt: time.Time{}, expected: false},
		{name: "Other time zone", createdAt: now.In(time.FixedZone("UTC+5", 5*3600)).Add(-23 * time.Hour), expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsRecentlyCreated(tc.createdAt, now))
		})
	}
}

func TestFilterRecent(t *testing.T) {
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	all := []models.Product{
		{ID: 1, Name: "Old", CreatedAt: now.Add(-30 * time.Hour)},
		{ID: 2, Name: "Morning", CreatedAt: now.Add(-6 * time.Hour)},
		{ID: 3, Name: "Boundary", CreatedAt: now.Add(-RecentWindow)},
		{ID: 4, Name: "Latest", CreatedAt: now.Add(-time.Minute)},
		{ID: 5, Name: "Yesterday evening", CreatedAt: now.Add(-20 * time.Hour)},
	}

	recent := FilterRecent(all, now)

	ids := make([]uint, len(recent))
	for i, p := range recent {
		ids[i] = p.ID
	}
	assert.Equal(t, []uint{4, 2, 5}, ids, "recent products newest first")
	assert.Len(t, all, 5, "input must not be modified")
	assert.Equal(t, uint(1), all[0].ID)
}

func TestFilterRecent_Empty(t *testing.T) {
	recent := FilterRecent(nil, time.Now())
	assert.NotNil(t, recent)
	assert.Empty(t, recent)
}

package week

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOf(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{name: "monday stays", in: time.Date(2025, 6, 2, 15, 4, 5, 0, time.UTC), want: "2025-06-02"},
		{name: "wednesday rolls back", in: time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), want: "2025-06-02"},
		{name: "sunday belongs to previous monday", in: time.Date(2025, 6, 8, 23, 59, 0, 0, time.UTC), want: "2025-06-02"},
		{name: "crosses month boundary", in: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC), want: "2025-06-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartOf(tt.in)
			assert.Equal(t, tt.want, Key(got))
			assert.Equal(t, time.Monday, got.Weekday())
		})
	}
}

func TestParse(t *testing.T) {
	got, ok := Parse("2025-06-02")
	assert.True(t, ok)
	assert.Equal(t, "2025-06-02", Key(got))

	_, ok = Parse("")
	assert.False(t, ok)

	_, ok = Parse("06/02/2025")
	assert.False(t, ok)
}

func TestLabel(t *testing.T) {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "6/2/25–6/8/25", Label(start))

	// single week spanning a year boundary
	start = time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "12/29/25–1/4/26", Label(start))
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end time.Time) DateRange {
	t.Helper()
	rng, err := NewDateRange(start, end)
	require.NoError(t, err)
	return rng
}

func TestNormalizeDate_StripsTimeAndZone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	in := time.Date(2026, time.June, 10, 23, 45, 12, 999, loc)
	got := NormalizeDate(in)

	assert.Equal(t, date(2026, time.June, 10), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-06-10")
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.June, 10), got)

	_, err = ParseDate("10/06/2026")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestNewDateRange_RejectsInvertedRange(t *testing.T) {
	_, err := NewDateRange(date(2026, time.June, 10), date(2026, time.June, 9))
	assert.Error(t, err)
}

func TestNewDateRange_SingleDay(t *testing.T) {
	rng, err := NewDateRange(date(2026, time.June, 10), date(2026, time.June, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, rng.Days())
}

func TestOverlaps(t *testing.T) {
	base := mustRange(t, date(2026, time.June, 10), date(2026, time.June, 15))

	tests := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{
			name:  "disjoint before",
			other: mustRange(t, date(2026, time.June, 1), date(2026, time.June, 9)),
			want:  false,
		},
		{
			name:  "disjoint after",
			other: mustRange(t, date(2026, time.June, 16), date(2026, time.June, 20)),
			want:  false,
		},
		{
			name:  "shared boundary day at start",
			other: mustRange(t, date(2026, time.June, 5), date(2026, time.June, 10)),
			want:  true,
		},
		{
			name:  "shared boundary day at end",
			other: mustRange(t, date(2026, time.June, 15), date(2026, time.June, 20)),
			want:  true,
		},
		{
			name:  "fully contained",
			other: mustRange(t, date(2026, time.June, 11), date(2026, time.June, 14)),
			want:  true,
		},
		{
			name:  "containing",
			other: mustRange(t, date(2026, time.June, 1), date(2026, time.June, 30)),
			want:  true,
		},
		{
			name:  "identical",
			other: base,
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestDays_CountsBothEnds(t *testing.T) {
	assert.Equal(t, 6, mustRange(t, date(2026, time.June, 10), date(2026, time.June, 15)).Days())
	assert.Equal(t, 1, mustRange(t, date(2026, time.June, 10), date(2026, time.June, 10)).Days())
	// Across a month boundary.
	assert.Equal(t, 3, mustRange(t, date(2026, time.June, 30), date(2026, time.July, 2)).Days())
}

func TestContains(t *testing.T) {
	rng := mustRange(t, date(2026, time.June, 10), date(2026, time.June, 15))

	assert.True(t, rng.Contains(date(2026, time.June, 10)))
	assert.True(t, rng.Contains(date(2026, time.June, 15)))
	assert.True(t, rng.Contains(date(2026, time.June, 12)))
	assert.False(t, rng.Contains(date(2026, time.June, 9)))
	assert.False(t, rng.Contains(date(2026, time.June, 16)))
}

func TestClip(t *testing.T) {
	window := mustRange(t, date(2026, time.June, 1), date(2026, time.June, 30))

	clipped, ok := mustRange(t, date(2026, time.May, 25), date(2026, time.June, 5)).Clip(window)
	require.True(t, ok)
	assert.Equal(t, date(2026, time.June, 1), clipped.Start)
	assert.Equal(t, date(2026, time.June, 5), clipped.End)

	clipped, ok = mustRange(t, date(2026, time.June, 25), date(2026, time.July, 10)).Clip(window)
	require.True(t, ok)
	assert.Equal(t, date(2026, time.June, 25), clipped.Start)
	assert.Equal(t, date(2026, time.June, 30), clipped.End)

	// Entirely inside the window is returned unchanged.
	inner := mustRange(t, date(2026, time.June, 10), date(2026, time.June, 12))
	clipped, ok = inner.Clip(window)
	require.True(t, ok)
	assert.Equal(t, inner, clipped)

	// Entirely outside.
	_, ok = mustRange(t, date(2026, time.July, 1), date(2026, time.July, 5)).Clip(window)
	assert.False(t, ok)
}

func TestDates_AscendingAndComplete(t *testing.T) {
	rng := mustRange(t, date(2026, time.June, 28), date(2026, time.July, 2))

	dates := rng.Dates()
	require.Len(t, dates, rng.Days())
	assert.Equal(t, rng.Start, dates[0])
	assert.Equal(t, rng.End, dates[len(dates)-1])
	for i := 1; i < len(dates); i++ {
		assert.Equal(t, dates[i-1].AddDate(0, 0, 1), dates[i])
	}
}

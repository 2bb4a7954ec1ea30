package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        int
		expectError bool
	}{
		{"midnight", "00:00", 0, false},
		{"morning", "09:00", 540, false},
		{"end of day", "24:00", 1440, false},
		{"single digit minutes", "10:05", 605, false},
		{"empty", "", 0, true},
		{"missing colon", "0900", 0, true},
		{"minutes out of range", "09:75", 0, true},
		{"hours out of range", "25:00", 0, true},
		{"negative", "-1:00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "09:05", FormatClock(545))
	assert.Equal(t, "23:59", FormatClock(1439))
	assert.Equal(t, "24:00", FormatClock(1440))
}

func TestOverlaps(t *testing.T) {
	entry := TimeEntry{StartMinutes: 9 * 60, EndMinutes: 10*60 + 30}

	tests := []struct {
		name  string
		start int
		end   int
		want  bool
	}{
		{"identical interval", 9 * 60, 10*60 + 30, true},
		{"contained interval", 9*60 + 15, 10 * 60, true},
		{"containing interval", 8 * 60, 11 * 60, true},
		{"overlapping start", 8 * 60, 9*60 + 30, true},
		{"overlapping end", 10 * 60, 11 * 60, true},
		{"touching end is allowed", 10*60 + 30, 12 * 60, false},
		{"touching start is allowed", 8 * 60, 9 * 60, false},
		{"disjoint before", 7 * 60, 8 * 60, false},
		{"disjoint after", 11 * 60, 12 * 60, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entry.Overlaps(tt.start, tt.end))
		})
	}
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2026-08-15", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), date)

	_, err = ParseDate("15/08/2026", time.UTC)
	assert.Error(t, err)
}

func TestEntrySourceIsValid(t *testing.T) {
	assert.True(t, SourceManual.IsValid())
	assert.True(t, SourceTimer.IsValid())
	assert.False(t, EntrySource("IMPORTED").IsValid())
	assert.False(t, EntrySource("").IsValid())
}

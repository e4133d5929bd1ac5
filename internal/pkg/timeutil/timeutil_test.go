package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

func TestParseISO(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{
			name:     "No offset is read as IST",
			input:    "2025-04-22T09:00:00",
			expected: time.Date(2025, 4, 22, 9, 0, 0, 0, ist),
		},
		{
			name:     "Explicit UTC offset",
			input:    "2025-04-22T03:30:00Z",
			expected: time.Date(2025, 4, 22, 9, 0, 0, 0, ist),
		},
		{
			name:     "Explicit IST offset with millis",
			input:    "2025-04-22T09:00:00.250+05:30",
			expected: time.Date(2025, 4, 22, 9, 0, 0, 250_000_000, ist),
		},
		{
			name:     "Minutes precision",
			input:    "2025-04-22T09:00",
			expected: time.Date(2025, 4, 22, 9, 0, 0, 0, ist),
		},
		{
			name:     "Space separated database text",
			input:    "2025-04-22 03:30:00+00",
			expected: time.Date(2025, 4, 22, 9, 0, 0, 0, ist),
		},
		{
			name:     "Date only",
			input:    "2025-04-22",
			expected: time.Date(2025, 4, 22, 0, 0, 0, 0, ist),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseISO(tt.input, ist)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestParseISORejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "   ", "yesterday", "2025-13-40T09:00:00", "09:00"} {
		_, err := ParseISO(input, ist)
		assert.Error(t, err, input)
	}
}

func TestParseDate(t *testing.T) {
	_, err := ParseDate("2025-04-22")
	assert.NoError(t, err)

	for _, input := range []string{"2025-4-22", "22-04-2025", "2025-02-30", "2025-04-22T00:00:00", ""} {
		_, err := ParseDate(input)
		assert.Error(t, err, input)
	}
}

func TestToday(t *testing.T) {
	// 20:00 UTC is already the next day in IST
	now := time.Date(2025, 4, 21, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-04-22", Today(now, ist))
}

func TestWholeSeconds(t *testing.T) {
	assert.Equal(t, int64(28800), WholeSeconds(8*time.Hour))
	assert.Equal(t, int64(1), WholeSeconds(1999*time.Millisecond))
	assert.Equal(t, int64(0), WholeSeconds(0))
}

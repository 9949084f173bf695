package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDateTimeForDB(t *testing.T) {
	ts := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-15 09:30:00", FormatDateTimeForDB(ts))

	// Non-UTC inputs are converted, not reinterpreted.
	kst := time.FixedZone("KST", 9*3600)
	assert.Equal(t, "2026-03-15 00:30:00", FormatDateTimeForDB(ts.In(kst)))

	assert.Equal(t, "", FormatDateTimeForDB(time.Time{}))
}

func TestParseDBDateRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

	parsed, err := ParseDBDate(FormatDateTimeForDB(ts))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
}

func TestParseUserDate(t *testing.T) {
	cases := []struct {
		input string
		want  time.Time
	}{
		{"2026-03-15T09:30:00Z", time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)},
		{"2026-03-15 09:30:00", time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)},
		{"2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		parsed, err := ParseUserDate(tc.input)
		require.NoError(t, err, tc.input)
		assert.True(t, parsed.Equal(tc.want), tc.input)
	}

	_, err := ParseUserDate("")
	assert.Error(t, err)
	_, err = ParseUserDate("15/03/2026")
	assert.Error(t, err)
}

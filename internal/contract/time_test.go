package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestParseRelativeTime(t *testing.T) {
	cases := []struct {
		input string
		want  time.Time
	}{
		{"1 hour ago", now.Add(-time.Hour)},
		{"30 minutes ago", now.Add(-30 * time.Minute)},
		{"2 days ago", now.Add(-48 * time.Hour)},
		{"1 week ago", now.Add(-7 * 24 * time.Hour)},
		{"3 months ago", now.AddDate(0, -3, 0)},
		{"2 years ago", now.AddDate(-2, 0, 0)},
		{"  2 Years Ago  ", now.AddDate(-2, 0, 0)},
	}

	for _, tc := range cases {
		got, err := ParseRelativeTime(tc.input, now)
		assert.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}
}

func TestParseRelativeTimeInvalid(t *testing.T) {
	for _, input := range []string{"", "yesterday", "2 fortnights ago", "ago", "-1 days ago"} {
		_, err := ParseRelativeTime(input, now)
		assert.Error(t, err, input)
	}
}

func TestParseDurationString(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
	}{
		{"90m", 90 * time.Minute},
		{"2h", 2 * time.Hour},
		{"120", 120 * time.Minute},
		{"2 hours", 2 * time.Hour},
		{"1 day", 24 * time.Hour},
		{"45 minutes", 45 * time.Minute},
	}

	for _, tc := range cases {
		got, err := ParseDurationString(tc.input)
		assert.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}
}

func TestParseDurationStringInvalid(t *testing.T) {
	for _, input := range []string{"", "soon", "-90m", "0", "0m", "2 lightyears"} {
		_, err := ParseDurationString(input)
		assert.Error(t, err, input)
	}
}

package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// DayLayout is the calendar date format used in query parameters and bucket keys.
const DayLayout = "2006-01-02"

// DateTimeLayout is the minute-precision timestamp used in calendar payloads.
const DateTimeLayout = "2006-01-02 15:04"

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseDay parses a YYYY-MM-DD string into the UTC midnight that starts that day.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, s, time.UTC)
}

// DayKey truncates t to its UTC calendar day.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

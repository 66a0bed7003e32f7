package helpers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrNonPositiveDuration is returned for zero or negative durations
var ErrNonPositiveDuration = errors.New("duration must be positive")

// ParseConfigDuration parses a configured duration such as "15m".
// Surrounding whitespace is ignored; zero and negative values are rejected.
func ParseConfigDuration(value string) (time.Duration, error) {
	duration, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	if duration <= 0 {
		return 0, fmt.Errorf("%q: %w", value, ErrNonPositiveDuration)
	}
	return duration, nil
}

// ParseDuration parses a configured duration, returning defaultDuration for
// any value ParseConfigDuration rejects. Values that passed config validation
// never fall back.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := ParseConfigDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

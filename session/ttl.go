package session

import (
	"context"
	"errors"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/andrebq/authbox/internal/logutil"
)

const (
	// DurationEnvVar holds the session time-to-live in seconds
	DurationEnvVar = "SESSION_DURATION"

	maxSeconds = math.MaxInt64 / int64(time.Second)
)

// ParseTTL converts a number of seconds into a duration.
//
// Empty or malformed values are logged and treated as 0 (sessions never
// expire), they are never reported as errors. Values too large for a
// time.Duration are clamped to the longest one.
func ParseTTL(ctx context.Context, seconds string) time.Duration {
	seconds = strings.TrimSpace(seconds)
	if len(seconds) == 0 {
		return 0
	}
	n, err := strconv.ParseInt(seconds, 10, 64)
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		n = maxSeconds
	} else if err != nil {
		log := logutil.GetOrDefault(ctx)
		log.Warn().Str("value", seconds).Msg("Invalid session duration, sessions will not expire")
		return 0
	}
	if n > maxSeconds {
		n = maxSeconds
	} else if n < -maxSeconds {
		n = -maxSeconds
	}
	return time.Duration(n) * time.Second
}

// TTLFromEnv reads the session duration from varname using getenv
// (os.Getenv when nil).
func TTLFromEnv(ctx context.Context, varname string, getenv func(string) string) time.Duration {
	if getenv == nil {
		getenv = os.Getenv
	}
	return ParseTTL(ctx, getenv(varname))
}

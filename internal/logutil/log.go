package logutil

import (
	"context"
	"io"

	"github.com/andrebq/authbox/redact"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type (
	key byte
)

var (
	loggerKey = key(1)
)

func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func GetOrDefault(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return log.Logger
	}
	v := ctx.Value(loggerKey)
	if v == nil {
		return log.Logger
	}
	return v.(zerolog.Logger)
}

// New returns a logger writing to out, the value of any field listed
// in piiFields is redacted before it reaches out.
func New(out io.Writer, level zerolog.Level, piiFields []string) zerolog.Logger {
	return zerolog.New(redact.NewWriter(out, piiFields)).
		Level(level).
		With().Timestamp().Logger()
}

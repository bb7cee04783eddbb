package cmdflags

import (
	"strings"

	"github.com/andrebq/authbox/auth"
	"github.com/andrebq/authbox/redact"
	"github.com/andrebq/authbox/session"
	"github.com/urfave/cli/v2"
)

const (
	DatabaseEnvVar    = "AUTHBOX_DB"
	SessionFileEnvVar = "AUTHBOX_SESSION_FILE"
	PIIFieldsEnvVar   = "AUTHBOX_PII_FIELDS"
	LogLevelEnvVar    = "AUTHBOX_LOG_LEVEL"

	DefaultSessionName = "session_id"
)

func Database(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = "authbox.db"
	}
	return &cli.StringFlag{
		Name:        "db",
		Usage:       "Path to the sqlite database that holds users (and session records when no session file is given)",
		EnvVars:     []string{DatabaseEnvVar},
		Value:       *out,
		Destination: out,
	}
}

func AuthType(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = string(auth.KindBasic)
	}
	kinds := make([]string, 0, len(auth.Kinds()))
	for _, k := range auth.Kinds() {
		kinds = append(kinds, string(k))
	}
	return &cli.StringFlag{
		Name:        "auth-type",
		Usage:       "Authentication strategy, one of: " + strings.Join(kinds, ", "),
		EnvVars:     []string{auth.TypeEnvVar},
		Value:       *out,
		Destination: out,
	}
}

func SessionName(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = DefaultSessionName
	}
	return &cli.StringFlag{
		Name:        "session-name",
		Usage:       "Name of the cookie that carries the session id",
		EnvVars:     []string{auth.SessionNameEnvVar},
		Value:       *out,
		Destination: out,
	}
}

// SessionDuration is kept as a string so malformed values can be
// reported and ignored instead of aborting the command
func SessionDuration(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "session-duration",
		Usage:       "Session time-to-live in seconds (0 or invalid means sessions never expire)",
		EnvVars:     []string{session.DurationEnvVar},
		Value:       *out,
		Destination: out,
	}
}

func SessionFile(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "session-file",
		Usage:       "JSON file used to keep session records (session_db_auth only)",
		EnvVars:     []string{SessionFileEnvVar},
		Value:       *out,
		Destination: out,
	}
}

const PIIFieldsName = "pii-fields"

// PIIFields values should be read with cli.Context.StringSlice(PIIFieldsName)
func PIIFields() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    PIIFieldsName,
		Usage:   "Fields whose values are redacted from logs",
		EnvVars: []string{PIIFieldsEnvVar},
		Value:   cli.NewStringSlice(redact.DefaultPIIFields...),
	}
}

func LogLevel(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = "info"
	}
	return &cli.StringFlag{
		Name:        "log-level",
		Usage:       "Minimum level of log messages (trace, debug, info, warn, error)",
		EnvVars:     []string{LogLevelEnvVar},
		Value:       *out,
		Destination: out,
	}
}

func Bind(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "bind",
		Usage:       "Address to bind for incoming requests",
		Value:       *out,
		Destination: out,
	}
}

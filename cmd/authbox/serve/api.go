package serve

import (
	"context"
	"time"

	"github.com/andrebq/authbox/api"
	"github.com/andrebq/authbox/auth"
	"github.com/andrebq/authbox/internal/cmdflags"
	"github.com/andrebq/authbox/internal/httpserver"
	"github.com/andrebq/authbox/internal/logutil"
	"github.com/andrebq/authbox/session"
	"github.com/andrebq/authbox/session/sessionstore"
	"github.com/andrebq/authbox/users"
	"github.com/urfave/cli/v2"
)

func apiCmd() *cli.Command {
	bindAddr := "localhost:5000"
	var db string
	var authType string
	var sessionName string
	var sessionDuration string
	var sessionFile string
	return &cli.Command{
		Name:  "api",
		Usage: "Start the /api/v1 user API protected by the selected authentication strategy",
		Flags: []cli.Flag{
			cmdflags.Bind(&bindAddr),
			cmdflags.Database(&db),
			cmdflags.AuthType(&authType),
			cmdflags.SessionName(&sessionName),
			cmdflags.SessionDuration(&sessionDuration),
			cmdflags.SessionFile(&sessionFile),
		},
		Action: func(ctx *cli.Context) error {
			dir, err := users.OpenDirectory(ctx.Context, db)
			if err != nil {
				return err
			}
			defer dir.Close()
			cached, err := users.NewCached(dir, 10*time.Minute)
			if err != nil {
				return err
			}
			defer cached.Close()

			kind := auth.Kind(authType)
			deps := auth.Deps{
				Excluded:   api.ExcludedPaths(),
				Users:      cached,
				CookieName: sessionName,
				TTL:        session.ParseTTL(ctx.Context, sessionDuration),
			}
			if kind == auth.KindSessionDB {
				deps.Records, err = openRecords(ctx.Context, dir, sessionFile)
				if err != nil {
					return err
				}
			}
			strategy, err := auth.New(ctx.Context, kind, deps)
			if err != nil {
				return err
			}
			log := logutil.GetOrDefault(ctx.Context)
			log.Info().
				Str("auth_type", authType).
				Str("session_name", sessionName).
				Dur("session_ttl", deps.TTL).
				Msg("Authentication strategy selected")

			handler, err := api.AsHandler(ctx.Context, api.Deps{
				Strategy:   strategy,
				Users:      cached,
				CookieName: sessionName,
			})
			if err != nil {
				return err
			}
			return httpserver.Serve(ctx.Context, bindAddr, handler)
		},
	}
}

func openRecords(ctx context.Context, dir *users.Directory, file string) (session.RecordStore, error) {
	if file != "" {
		return sessionstore.NewFile(file), nil
	}
	return sessionstore.NewSQLite(ctx, dir.DB())
}

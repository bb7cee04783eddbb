package serve

import (
	"github.com/andrebq/authbox/account"
	"github.com/andrebq/authbox/api"
	"github.com/andrebq/authbox/internal/cmdflags"
	"github.com/andrebq/authbox/internal/httpserver"
	"github.com/andrebq/authbox/session"
	"github.com/andrebq/authbox/users"
	"github.com/urfave/cli/v2"
)

func accountCmd() *cli.Command {
	bindAddr := "localhost:5001"
	var db string
	var sessionName string
	var sessionDuration string
	return &cli.Command{
		Name:  "account",
		Usage: "Start the registration, login and password reset service",
		Flags: []cli.Flag{
			cmdflags.Bind(&bindAddr),
			cmdflags.Database(&db),
			cmdflags.SessionName(&sessionName),
			cmdflags.SessionDuration(&sessionDuration),
		},
		Action: func(ctx *cli.Context) error {
			dir, err := users.OpenDirectory(ctx.Context, db)
			if err != nil {
				return err
			}
			defer dir.Close()
			sessions := session.NewExpiring(session.NewTable(), session.ParseTTL(ctx.Context, sessionDuration))
			handler, err := api.AsAccountHandler(ctx.Context, account.NewService(dir, sessions), sessionName)
			if err != nil {
				return err
			}
			return httpserver.Serve(ctx.Context, bindAddr, handler)
		},
	}
}

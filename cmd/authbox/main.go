package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/andrebq/authbox/cmd/authbox/serve"
	"github.com/andrebq/authbox/cmd/authbox/users"
	"github.com/andrebq/authbox/internal/cmdflags"
	"github.com/andrebq/authbox/internal/logutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	var logLevel string
	app := &cli.App{
		Name:  "authbox",
		Usage: "Register users and authenticate their requests",
		Flags: []cli.Flag{
			cmdflags.LogLevel(&logLevel),
			cmdflags.PIIFields(),
		},
		Before: func(ctx *cli.Context) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.Logger = logutil.New(os.Stderr, level, ctx.StringSlice(cmdflags.PIIFieldsName))
			ctx.Context = logutil.WithLogger(ctx.Context, log.Logger)
			return nil
		},
		Commands: []*cli.Command{
			serve.Cmd(),
			users.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}

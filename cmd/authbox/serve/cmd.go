package serve

import (
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Root command to start the authbox services",
		Subcommands: []*cli.Command{
			apiCmd(),
			accountCmd(),
			gatewayCmd(),
		},
	}
}

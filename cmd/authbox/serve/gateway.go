package serve

import (
	"net/url"

	"github.com/andrebq/authbox/internal/cmdflags"
	"github.com/andrebq/authbox/internal/gateway"
	"github.com/andrebq/authbox/internal/httpserver"
	"github.com/urfave/cli/v2"
)

func gatewayCmd() *cli.Command {
	bindAddr := "localhost:5002"
	apiEndpoint := "http://localhost:5000/"
	accountEndpoint := "http://localhost:5001/"
	return &cli.Command{
		Name:  "gateway",
		Usage: "Expose the api and account services behind a single address",
		Flags: []cli.Flag{
			cmdflags.Bind(&bindAddr),
			&cli.StringFlag{
				Name:        "api-endpoint",
				Usage:       "Base endpoint of the api service",
				Destination: &apiEndpoint,
				Value:       apiEndpoint,
			},
			&cli.StringFlag{
				Name:        "account-endpoint",
				Usage:       "Base endpoint of the account service",
				Destination: &accountEndpoint,
				Value:       accountEndpoint,
			},
		},
		Action: func(ctx *cli.Context) error {
			apiURL, err := url.Parse(apiEndpoint)
			if err != nil {
				return err
			}
			accountURL, err := url.Parse(accountEndpoint)
			if err != nil {
				return err
			}
			handler, err := gateway.AsHandler(ctx.Context, apiURL, accountURL)
			if err != nil {
				return err
			}
			return httpserver.Serve(ctx.Context, bindAddr, handler)
		},
	}
}

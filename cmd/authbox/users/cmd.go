package users

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/andrebq/authbox/account"
	"github.com/andrebq/authbox/internal/cmdflags"
	"github.com/andrebq/authbox/internal/logutil"
	"github.com/andrebq/authbox/session"
	"github.com/andrebq/authbox/users"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	var db string
	return &cli.Command{
		Name:    "users",
		Aliases: []string{"u"},
		Usage:   "Manage the user directory",
		Flags: []cli.Flag{
			cmdflags.Database(&db),
		},
		Subcommands: []*cli.Command{
			registerCmd(&db),
			listCmd(&db),
		},
	}
}

func registerCmd(db *string) *cli.Command {
	var email string
	return &cli.Command{
		Name:  "register",
		Usage: "Register a new user (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "Email of the user to register",
				Destination: &email,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			sc := bufio.NewScanner(os.Stdin)
			if !sc.Scan() {
				if sc.Err() != nil {
					return sc.Err()
				}
				return errors.New("missing password from stdin")
			}
			password := strings.TrimSpace(sc.Text())
			if len(password) == 0 {
				return errors.New("missing password from stdin")
			}
			dir, err := users.OpenDirectory(ctx.Context, *db)
			if err != nil {
				return err
			}
			defer dir.Close()
			u, err := account.NewService(dir, session.NewTable()).Register(ctx.Context, email, password)
			if err != nil {
				return err
			}
			log := logutil.GetOrDefault(ctx.Context)
			log.Info().Str("id", u.ID).Str("email", u.Email).Msg("User created")
			return nil
		},
	}
}

func listCmd(db *string) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Log every registered user, personal data is redacted",
		Action: func(ctx *cli.Context) error {
			dir, err := users.OpenDirectory(ctx.Context, *db)
			if err != nil {
				return err
			}
			defer dir.Close()
			all, err := dir.Search(ctx.Context, users.Filter{})
			if err != nil {
				return err
			}
			log := logutil.GetOrDefault(ctx.Context)
			for _, u := range all {
				log.Info().
					Str("id", u.ID).
					Str("email", u.Email).
					Str("name", u.DisplayName()).
					Str("password", u.HashedPassword).
					Time("created_at", u.CreatedAt).
					Msg("User")
			}
			log.Info().Int("count", len(all)).Msg("Users listed")
			return nil
		},
	}
}

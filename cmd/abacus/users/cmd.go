package users

import (
	"fmt"
	"os"

	"github.com/andrebq/abacus/internal/cmdflags"
	"github.com/andrebq/abacus/ledger"
	"github.com/andrebq/abacus/password"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	var db cmdflags.Database
	return &cli.Command{
		Name:        "users",
		Aliases:     []string{"u"},
		Usage:       "Manage accounts directly in the database",
		Flags:       db.Flags(),
		Subcommands: []*cli.Command{registerCmd(&db)},
	}
}

func registerCmd(db *cmdflags.Database) *cli.Command {
	var email string
	var name string
	return &cli.Command{
		Name:  "register",
		Usage: "Register a new account (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "Email of the account",
				Destination: &email,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n"},
				Usage:       "Display name",
				Destination: &name,
			},
		},
		Action: func(ctx *cli.Context) error {
			plain, err := passwordFrom(os.Stdin, ctx.App.ErrWriter)
			if err != nil {
				return err
			}
			hash, err := password.NewHasher().Hash(plain)
			if err != nil {
				return err
			}
			dialect, dsn, err := db.Resolve(os.Getenv)
			if err != nil {
				return err
			}
			l, err := ledger.Open(ctx.Context, dialect, dsn)
			if err != nil {
				return err
			}
			defer l.Close()
			user, err := l.CreateUser(ctx.Context, ledger.NewUser{
				Email:        email,
				PasswordHash: hash,
				DisplayName:  name,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, user.ID)
			return nil
		},
	}
}

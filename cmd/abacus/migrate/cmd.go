package migrate

import (
	"os"

	"github.com/andrebq/abacus/internal/cmdflags"
	"github.com/andrebq/abacus/internal/logutil"
	"github.com/andrebq/abacus/ledger"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	var db cmdflags.Database
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending schema migrations and exit",
		Flags: db.Flags(),
		Action: func(ctx *cli.Context) error {
			dialect, dsn, err := db.Resolve(os.Getenv)
			if err != nil {
				return err
			}
			l, err := ledger.Open(ctx.Context, dialect, dsn)
			if err != nil {
				return err
			}
			log := logutil.GetOrDefault(ctx.Context)
			log.Info().Str("driver", string(dialect)).Msg("Schema is up to date")
			return l.Close()
		},
	}
}

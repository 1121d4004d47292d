package serve

import (
	"os"

	"github.com/andrebq/abacus/internal/cmdflags"
	"github.com/andrebq/abacus/internal/httpserver"
	"github.com/andrebq/abacus/internal/logutil"
	"github.com/andrebq/abacus/ledger"
	"github.com/andrebq/abacus/ledger/api"
	"github.com/andrebq/abacus/password"
	"github.com/andrebq/abacus/session"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	var bindAddr string
	var db cmdflags.Database
	var secretEnvVar string
	var production bool
	var redisURL string
	flags := []cli.Flag{
		cmdflags.Bind(&bindAddr),
		cmdflags.RedisURL(&redisURL),
		cmdflags.SecretEnvVar(&secretEnvVar),
		cmdflags.Production(&production),
	}
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP service (pending migrations are applied first)",
		Flags: append(flags, db.Flags()...),
		Action: func(ctx *cli.Context) error {
			log := logutil.GetOrDefault(ctx.Context)
			production = cmdflags.IsProduction(production, os.Getenv)
			secret, ephemeral, err := session.SecretFromEnv(secretEnvVar, os.Getenv, os.Setenv, production)
			if err != nil {
				return err
			}
			if ephemeral {
				log.Warn().Str("envvar", secretEnvVar).Msg("No signing secret configured, using a random one. Sessions will not survive a restart")
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

			denylist, closeDenylist, err := cmdflags.OpenDenylist(ctx.Context, redisURL)
			if err != nil {
				return err
			}
			defer closeDenylist()
			sessions := session.NewExtractor(session.NewCodec(secret), denylist, production)
			handler, err := api.AsHandler(ctx.Context, l, password.NewHasher(), sessions)
			if err != nil {
				return err
			}
			log.Info().Str("driver", string(dialect)).Bool("production", production).Bool("shared-denylist", redisURL != "").Msg("Ledger ready")
			return httpserver.Serve(ctx.Context, bindAddr, httpserver.AccessLog(handler))
		},
	}
}

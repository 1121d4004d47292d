package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"

	"github.com/andrebq/abacus/cmd/abacus/eval"
	"github.com/andrebq/abacus/cmd/abacus/migrate"
	"github.com/andrebq/abacus/cmd/abacus/serve"
	"github.com/andrebq/abacus/cmd/abacus/users"
	"github.com/andrebq/abacus/internal/cmdflags"
	"github.com/andrebq/abacus/internal/logutil"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := run(ctx, os.Args, ".env.local", ".env")
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}

// run loads envFiles before any flag is parsed so every flag that reads
// from the environment, including the global logging ones, sees them.
func run(ctx context.Context, args []string, envFiles ...string) error {
	if err := loadDotEnv(envFiles...); err != nil {
		return err
	}
	var logLevel string
	var prettyLog bool
	app := &cli.App{
		Name:  "abacus",
		Usage: "Calculator with accounts and a per-user history",
		Flags: []cli.Flag{
			cmdflags.LogLevel(&logLevel),
			cmdflags.PrettyLog(&prettyLog),
		},
		Before: func(ctx *cli.Context) error {
			return logutil.Setup(logLevel, prettyLog)
		},
		Commands: []*cli.Command{
			serve.Cmd(),
			migrate.Cmd(),
			users.Cmd(),
			eval.Cmd(),
		},
	}
	return app.RunContext(ctx, args)
}

// loadDotEnv loads each file that exists, earlier files win and variables
// already in the environment are never overwritten.
func loadDotEnv(files ...string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return err
		}
	}
	return nil
}

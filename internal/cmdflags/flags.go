package cmdflags

import (
	"github.com/andrebq/abacus/session"
	"github.com/urfave/cli/v2"
)

func Bind(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = "localhost:7020"
	}
	return &cli.StringFlag{
		Name:        "bind",
		Usage:       "Address to bind the HTTP server",
		EnvVars:     []string{"ABACUS_BIND"},
		Value:       *out,
		Destination: out,
	}
}

func SecretEnvVar(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = session.SecretEnvVar
	}
	return &cli.StringFlag{
		Name:        "secret-envvar-name",
		Usage:       "Name of the environment variable that holds the session signing secret. The secret itself should not be passed as an argument",
		Value:       *out,
		Destination: out,
	}
}

func Production(out *bool) cli.Flag {
	return &cli.BoolFlag{
		Name:        "production",
		Usage:       "Require a strong signing secret and mark cookies as Secure",
		EnvVars:     []string{"ABACUS_PRODUCTION"},
		Value:       *out,
		Destination: out,
	}
}

// IsProduction reports whether the flag is set or the conventional
// NODE_ENV=production is present in the environment.
func IsProduction(flag bool, getenv func(string) string) bool {
	return flag || getenv("NODE_ENV") == "production"
}

func LogLevel(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = "info"
	}
	return &cli.StringFlag{
		Name:        "log-level",
		Usage:       "Minimum level to log (trace, debug, info, warn, error)",
		EnvVars:     []string{"ABACUS_LOG_LEVEL"},
		Value:       *out,
		Destination: out,
	}
}

func PrettyLog(out *bool) cli.Flag {
	return &cli.BoolFlag{
		Name:        "pretty-log",
		Usage:       "Write human friendly logs instead of JSON",
		EnvVars:     []string{"ABACUS_PRETTY_LOG"},
		Value:       *out,
		Destination: out,
	}
}

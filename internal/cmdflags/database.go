package cmdflags

import (
	"net"
	"net/url"

	"github.com/andrebq/abacus/ledger"
	"github.com/urfave/cli/v2"
)

type (
	// Database collects the flags needed to open a ledger.
	Database struct {
		Driver string
		DSN    string
		Path   string
	}
)

func (d *Database) Flags() []cli.Flag {
	if len(d.Driver) == 0 {
		d.Driver = string(ledger.SQLite)
	}
	if len(d.Path) == 0 {
		d.Path = "./abacus-data"
	}
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "driver",
			Usage:       "Database backend (sqlite3 or pgx)",
			EnvVars:     []string{"ABACUS_DB_DRIVER"},
			Value:       d.Driver,
			Destination: &d.Driver,
		},
		&cli.StringFlag{
			Name:        "dsn",
			Usage:       "Connection string, when empty it is derived from --db-path (sqlite3) or DB_* variables (pgx)",
			EnvVars:     []string{"DATABASE_URL"},
			Destination: &d.DSN,
		},
		&cli.StringFlag{
			Name:        "db-path",
			Usage:       "Directory holding the sqlite3 database",
			EnvVars:     []string{"ABACUS_DB_PATH"},
			Value:       d.Path,
			Destination: &d.Path,
		},
	}
}

// Resolve returns the dialect and the connection string to use.
func (d *Database) Resolve(getenv func(string) string) (ledger.Dialect, string, error) {
	dialect, err := ledger.ParseDialect(d.Driver)
	if err != nil {
		return "", "", err
	}
	if len(d.DSN) > 0 {
		return dialect, d.DSN, nil
	}
	switch dialect {
	case ledger.Postgres:
		return dialect, postgresDSN(getenv), nil
	default:
		dsn, err := ledger.SQLiteDSN(d.Path)
		return dialect, dsn, err
	}
}

func postgresDSN(getenv func(string) string) string {
	get := func(name, fallback string) string {
		if v := getenv(name); len(v) > 0 {
			return v
		}
		return fallback
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(get("DB_HOST", "localhost"), get("DB_PORT", "5432")),
		Path:   "/" + get("DB_NAME", "calculator_db"),
	}
	user := get("DB_USER", "root")
	if pwd := getenv("DB_PASSWORD"); len(pwd) > 0 {
		u.User = url.UserPassword(user, pwd)
	} else {
		u.User = url.User(user)
	}
	return u.String()
}

// Package ledger persists accounts and their calculation history.
//
// Two backends are supported: sqlite (the default, a single file on disk)
// and postgres through pgx. The schema lives under migrations/ and is
// applied with goose every time a ledger is opened.
package ledger

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/andrebq/abacus/internal/logutil"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

const (
	maxOpenConns = 10
)

type (
	Ledger struct {
		db      *sql.DB
		dialect Dialect
		now     func() time.Time
	}
)

//go:embed migrations/*/*.sql
var migrations embed.FS

// SQLiteDSN returns the connection string for a ledger kept under dir.
// The directory is created if needed.
func SQLiteDSN(dir string) (string, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return "", fmt.Errorf("unable to create directory %v to store the ledger, cause %w", dir, err)
	}
	file := filepath.Join(dir, "abacus.db")
	return fmt.Sprintf("file:%v?_journal=wal&_busy_timeout=5000&mode=rwc", file), nil
}

// Open connects to the database, checks it is reachable and applies
// pending migrations. The returned ledger owns the connection pool
// and is safe for concurrent use.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Ledger, error) {
	conn, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v database, cause %w", dialect, err)
	}
	conn.SetMaxOpenConns(maxOpenConns)
	err = conn.PingContext(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping %v database, cause %w", dialect, err)
	}
	l := FromDB(conn, dialect)
	err = l.Migrate(ctx)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return l, nil
}

// FromDB wraps an existing connection, no migration is performed.
func FromDB(db *sql.DB, dialect Dialect) *Ledger {
	return &Ledger{db: db, dialect: dialect, now: time.Now}
}

func (l *Ledger) Migrate(ctx context.Context) error {
	log := logutil.GetOrDefault(ctx)
	fsys, err := fs.Sub(migrations, path.Join("migrations", string(l.dialect)))
	if err != nil {
		return fmt.Errorf("unable to load %v migrations, cause %w", l.dialect, err)
	}
	provider, err := goose.NewProvider(l.dialect.goose(), l.db, fsys)
	if err != nil {
		return fmt.Errorf("unable to prepare migrations, cause %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("unable to apply migrations, cause %w", err)
	}
	for _, r := range results {
		log.Info().Int64("version", r.Source.Version).Dur("took", r.Duration).Msg("Migration applied")
	}
	return nil
}

func (l *Ledger) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}

func (l *Ledger) Dialect() Dialect {
	return l.dialect
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) timestamp() time.Time {
	return l.now().UTC().Truncate(time.Microsecond)
}

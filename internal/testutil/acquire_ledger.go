package testutil

import (
	"context"
	"os"
	"path/filepath"

	"github.com/andrebq/abacus/ledger"
	"github.com/andrebq/abacus/password"
	"golang.org/x/crypto/bcrypt"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// AcquireLedger opens a migrated sqlite ledger inside a temporary directory,
// cleanup closes it and removes the directory.
func AcquireLedger(ctx context.Context, t TestLog, name string) (*ledger.Ledger, func()) {
	dir, err := os.MkdirTemp("", "abacus-tests")
	if err != nil {
		t.Fatal(err)
	}
	dsn, err := ledger.SQLiteDSN(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	l, err := ledger.Open(ctx, ledger.SQLite, dsn)
	if err != nil {
		t.Fatal(err)
	}
	return l, func() {
		err := l.Close()
		if err != nil {
			t.Log("unable to close ledger", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}

// FastHasher keeps bcrypt at its minimum cost so tests stay quick.
func FastHasher() *password.Hasher {
	return password.WithCost(bcrypt.MinCost)
}

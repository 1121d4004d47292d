package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestDotEnvConfiguresGlobalFlags(t *testing.T) {
	defer func(lvl zerolog.Level, logger zerolog.Logger) {
		zerolog.SetGlobalLevel(lvl)
		log.Logger = logger
	}(zerolog.GlobalLevel(), log.Logger)

	for _, name := range []string{"ABACUS_LOG_LEVEL", "ABACUS_TEST_ONLY_LOCAL"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	shared := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(local, []byte("ABACUS_TEST_ONLY_LOCAL=local\n"), 0600))
	require.NoError(t, os.WriteFile(shared, []byte("ABACUS_LOG_LEVEL=warn\nABACUS_TEST_ONLY_LOCAL=shared\n"), 0600))

	err := run(context.Background(), []string{"abacus", "eval", "1+1"}, local, shared, filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	require.Equal(t, "local", os.Getenv("ABACUS_TEST_ONLY_LOCAL"))
}

func TestEnvironmentWinsOverDotEnv(t *testing.T) {
	t.Setenv("ABACUS_LOG_LEVEL", "error")
	shared := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(shared, []byte("ABACUS_LOG_LEVEL=debug\n"), 0600))
	require.NoError(t, loadDotEnv(shared))
	require.Equal(t, "error", os.Getenv("ABACUS_LOG_LEVEL"))
}

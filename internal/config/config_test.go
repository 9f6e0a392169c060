package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"binheap/internal/config"
)

func write(t *testing.T, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

func TestLoadFromFile(t *testing.T) {
	cfg, err := config.LoadFromFile(write(t, `
[application]
address = "0.0.0.0:9000"
token = "secret"
log_level = "debug"
max_body_size = "64k"
max_heaps = 3
debug = true
`))
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9000", cfg.App.Address)
	require.Equal(t, "secret", cfg.App.Token)
	require.Equal(t, 3, cfg.App.MaxHeaps)
	require.Equal(t, 4, cfg.App.Parallel)
	require.True(t, cfg.App.Debug)

	l, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, zerolog.DebugLevel, l)

	n, err := cfg.BodyLimit()
	require.NoError(t, err)
	require.EqualValues(t, 64*1024, n)
}

func TestLoadFromFile_Missing(t *testing.T) {
	cfg, err := config.LoadFromFile(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)

	n, err := cfg.BodyLimit()
	require.NoError(t, err)
	require.EqualValues(t, 1024*1024, n)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	_, err := config.LoadFromFile(write(t, "[application\n"))
	require.Error(t, err)

	_, err = config.LoadFromFile(write(t, "[application]\nlog_level = \"loud\"\n"))
	require.Error(t, err)

	_, err = config.LoadFromFile(write(t, "[application]\nmax_body_size = \"lots\"\n"))
	require.Error(t, err)

	_, err = config.LoadFromFile(write(t, "[application]\naddress = \"\"\n"))
	require.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7789", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "02/01/2006", cfg.Display.DateLayout)
	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, ":memory:", cfg.Journal.DSN)
	assert.Empty(t, cfg.SeedFile)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasklist.yaml")
	content := `
server:
  addr: ":9000"
  shutdown_timeout: 3s
display:
  timezone: UTC
journal:
  enabled: false
seed_file: seed.yaml
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "UTC", cfg.Display.Timezone)
	assert.Equal(t, "02/01/2006", cfg.Display.DateLayout)
	assert.False(t, cfg.Journal.Enabled)
	assert.Equal(t, "seed.yaml", cfg.SeedFile)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("TASKLIST_SERVER_ADDR", ":8088")
	t.Setenv("TASKLIST_DISPLAY_DATE_LAYOUT", "2006-01-02")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8088", cfg.Server.Addr)
	assert.Equal(t, "2006-01-02", cfg.Display.DateLayout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Display.Timezone = "Mars/Olympus_Mons"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Server.Addr = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Server.ShutdownTimeout = 0
	assert.Error(t, cfg.Validate())
}

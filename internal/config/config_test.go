package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todocal/internal/storage"
	"todocal/internal/task"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	assert.Equal(t, storage.KindSQLite, cfg.Storage)
	assert.Equal(t, filepath.Join(dir, "nested", DefaultDBName), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "nested", DefaultLogName), cfg.LogPath)
	assert.Equal(t, task.ViewAll, cfg.View())
	assert.Equal(t, " ", cfg.Keys.Toggle)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreateReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	content := `
storage = "file"
data_dir = "/var/lib/todocal"
default_view = "this_week"
log_level = "debug"

[keys]
quit = "Q"
toggle = ""
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, storage.KindFile, cfg.Storage)
	assert.Equal(t, "/var/lib/todocal", cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, DefaultDBName), cfg.DBPath)
	assert.Equal(t, task.ViewThisWeek, cfg.View())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "Q", cfg.Keys.Quit)
	assert.Equal(t, " ", cfg.Keys.Toggle)
	assert.Equal(t, "a", cfg.Keys.Add)

	opts := cfg.StorageOptions()
	assert.Equal(t, storage.KindFile, opts.Kind)
	assert.Equal(t, "/var/lib/todocal", opts.DataDir)
}

func TestLoadOrCreateRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"view":    `default_view = "someday"`,
		"storage": `storage = "postgres"`,
		"syntax":  `storage = `,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".toml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := LoadOrCreate(path)
			assert.Error(t, err)
		})
	}
}

func TestResolveConfigPathFromEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/todocal-test.toml")
	assert.Equal(t, "/tmp/todocal-test.toml", ResolveConfigPath())

	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, DefaultConfigFileName, filepath.Base(ResolveConfigPath()))
}

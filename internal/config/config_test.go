package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv removes key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://localhost/cineops")
	t.Setenv("DB_MAX_CONNS", "7")
	unsetenv(t, "SEED_DATA_DIR")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/cineops", cfg.DB.URL)
	assert.Equal(t, 7, cfg.DB.MaxConns)
	assert.Equal(t, 10*time.Minute, cfg.DB.MaxConnIdleTime)
	assert.Equal(t, 5*time.Second, cfg.DB.ConnectTimeout)
	assert.Equal(t, "db/seeds/processed", cfg.Seed.DataDir)
	assert.Equal(t, "tmdb_genres_clean.csv", cfg.Seed.GenresFile)
	assert.Equal(t, "tmdb_movies_clean.csv", cfg.Seed.MoviesFile)
}

func TestLoadWithoutDatabaseURL(t *testing.T) {
	t.Chdir(t.TempDir())
	unsetenv(t, "DATABASE_URL")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrDatabaseURLUnset)
	assert.Panics(t, func() { MustLoad("") })
}

func TestLoadDotEnvFromParent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("DATABASE_URL=postgres://dotenv/cineops\n"), 0o644))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)
	unsetenv(t, "DATABASE_URL")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://dotenv/cineops", cfg.DB.URL)
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("DATABASE_URL=postgres://dotenv/cineops\n"), 0o644))
	t.Chdir(root)
	t.Setenv("DATABASE_URL", "postgres://env/cineops")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/cineops", cfg.DB.URL)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	unsetenv(t, "DATABASE_URL")
	unsetenv(t, "DEBUG")
	t.Setenv("SEED_DATA_DIR", "/data")
	path := filepath.Join(dir, "local.yml")
	require.NoError(t, os.WriteFile(path, []byte(`debug: true
db:
  url: postgres://yaml/cineops
  max_conns: 3
seed:
  data_dir: ./seeds
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "postgres://yaml/cineops", cfg.DB.URL)
	assert.Equal(t, 3, cfg.DB.MaxConns)
	assert.Equal(t, "/data", cfg.Seed.DataDir, "environment overrides the file")

	_, err = Load(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		ConfigPathEnv, "OPENAI_API_KEY", "OCENA_PROVIDER", "OCENA_MODEL", "DATABASE_DSN",
		"DATABASE_DRIVER", "OCENA_ADDR", "OCENA_WORKERS", "MINIO_USE_SSL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxFileSize)
	assert.Equal(t, []string{"doc", "docx", "pdf", "txt"}, cfg.Storage.AllowedExtensions)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 0.3, cfg.OpenAI.Temperature)
	assert.Equal(t, 800, cfg.OpenAI.MaxTokens)
	assert.Equal(t, 240, cfg.Grader.WordsPerQuestion)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadYAMLAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "ocena.yaml")
	raw := []byte(`
server:
  addr: ":9100"
grader:
  provider: Gemini
  timeout: 12s
storage:
  allowedExtensions: [".TXT", "pdf", ""]
openai:
  model: gpt-4o-mini
`)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	t.Setenv("OCENA_ADDR", ":9200")
	t.Setenv("OCENA_WORKERS", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9200", cfg.Server.Addr, "env wins over file")
	assert.Equal(t, "gemini", cfg.Grader.Provider)
	assert.Equal(t, 12*time.Second, cfg.Grader.Timeout)
	assert.Equal(t, 3, cfg.Grader.Workers)
	assert.Equal(t, []string{"txt", "pdf"}, cfg.Storage.AllowedExtensions)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 800, cfg.OpenAI.MaxTokens, "unset fields keep defaults")
}

func TestLoadDotEnvAndPlaceholderKey(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OPENAI_API_KEY=your_api_key_here\nOCENA_MODEL=gpt-4.1\n"), 0o644))
	// godotenv only fills variables that are unset.
	require.NoError(t, os.Unsetenv("OPENAI_API_KEY"))
	require.NoError(t, os.Unsetenv("OCENA_MODEL"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4.1", cfg.OpenAI.Model)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

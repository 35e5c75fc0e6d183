package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("portal:\n  base_url: http://api.local\n"))
	require.NoError(t, err)

	assert.Equal(t, "http://api.local", cfg.Portal.BaseURL)
	assert.Equal(t, 60, cfg.Portal.RateLimit)
	assert.Equal(t, 3, cfg.Portal.RetryAttempts)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, "none", cfg.Documents.Upload)
	assert.Equal(t, 2*time.Second, cfg.Flow.RedirectDelay)
	assert.Equal(t, int64(10<<20), cfg.Documents.MaxFileSize)
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("PRODUTOR_S3_SECRET", "s3cr3t")

	raw := `
s3:
  endpoint: minio:9000
  bucket: documentos
  secret_key: ${PRODUTOR_S3_SECRET}
documents:
  upload: s3
`
	cfg, err := Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", cfg.S3.SecretKey)
	assert.True(t, cfg.S3.Enabled())
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"sqlite without path", "session:\n  backend: sqlite\n"},
		{"redis without addr", "session:\n  backend: redis\n"},
		{"unknown backend", "session:\n  backend: etcd\n"},
		{"s3 upload without bucket", "documents:\n  upload: s3\n"},
		{"bad timeout", "portal:\n  timeout: soon\n"},
		{"assistant without model", "assistant:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "config file not found")
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flow:\n  redirect_delay: 500ms\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Flow.RedirectDelay)
}

func TestDefaultConfigPathFinder_FlagWins(t *testing.T) {
	f := &DefaultConfigPathFinder{ConfigFlag: "custom.yaml"}
	assert.True(t, filepath.IsAbs(f.FindConfigPath()))
	assert.Equal(t, "custom.yaml", filepath.Base(f.FindConfigPath()))
}

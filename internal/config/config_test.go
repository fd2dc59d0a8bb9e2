package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	err := os.WriteFile(path, []byte(`
app_secret: "secret"
db:
  dsn: "postgres://localhost/yamdb"
auth:
  access_token_ttl: 1h
`), 0o600)
	require.NoError(t, err)

	cfg := MustLoad(path)
	assert.Equal(t, "secret", cfg.AppSecret)
	assert.Equal(t, "postgres://localhost/yamdb", cfg.DB.Dsn)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 72*time.Hour, cfg.Auth.ConfirmationCodeTTL)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Tasks.Workers)
}

func TestMustLoadMissingFile(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
	})
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(`
Env = "prod"

[Database]
Driver = "mysql"
Host = "db"
Port = "3306"
Database = "ywitter"
User = "root"
Password = "pass"

[Auth]
TokenSecret = "from-file"

[Poll]
DefaultDuration = "12h"
`), 0o600)
	require.NoError(t, err)

	t.Setenv("YWITTER_DB_PASSWORD", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "from-file", cfg.Auth.TokenSecret)
	require.Equal(t, 12*time.Hour, cfg.Poll.DefaultDuration)
	require.Equal(t, 2, cfg.Poll.MinOptions)
	require.Equal(t, 280, cfg.Post.MaxContentLength)
	require.Equal(t, "root:from-env@tcp(db:3306)/ywitter?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.ConnectionString())
}

func TestLoad_MissingSecret(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

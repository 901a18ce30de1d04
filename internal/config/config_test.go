package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3101, cfg.Port)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, "lorafactory", cfg.FilePrefix)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logserver.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9000\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, "lorafactory", cfg.FilePrefix)
}

func TestLoad_AllFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logserver.yml")
	body := "port: 4000\nlog_dir: /tmp/lf-logs\nfile_prefix: factory\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{Port: 4000, LogDir: "/tmp/lf-logs", FilePrefix: "factory"}, cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logserver.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: [oops\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

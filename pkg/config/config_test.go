package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("NOVA_TEST_REGION", "eu-west-1")

	dir := t.TempDir()
	path := filepath.Join(dir, "nova.yaml")
	content := []byte("fileio:\n  s3_region: ${NOVA_TEST_REGION}\ntable:\n  backend: snowflake\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.FileIO.S3Region)
	assert.Equal(t, "snowflake", cfg.Table.Backend)
}

func TestFromFileDefaults(t *testing.T) {
	cfg, err := FromFile("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "bigquery", cfg.Table.Backend)
}

func TestEnvOverlayWins(t *testing.T) {
	t.Setenv("NOVA_TABLE_PROJECT_ID", "analytics-prod")

	cfg, err := FromFile("")
	require.NoError(t, err)
	assert.Equal(t, "analytics-prod", cfg.Table.ProjectID)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	in := Default()
	in.FileIO.S3Endpoint = "http://localhost:9000"
	require.NoError(t, Save(path, in))

	out, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, in.FileIO.S3Endpoint, out.FileIO.S3Endpoint)
}

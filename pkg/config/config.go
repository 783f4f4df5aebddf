// Package config provides configuration loading for Nova
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level Nova configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	FileIO  FileIOConfig  `yaml:"fileio" mapstructure:"fileio"`
	Table   TableConfig   `yaml:"table" mapstructure:"table"`
}

// LoggingConfig configures the global logger
type LoggingConfig struct {
	Level    string `yaml:"level" mapstructure:"level"`
	Encoding string `yaml:"encoding" mapstructure:"encoding"`
}

// FileIOConfig configures the file access layer
type FileIOConfig struct {
	// S3Region is the AWS region for s3:// dataset paths
	S3Region string `yaml:"s3_region" mapstructure:"s3_region"`
	// S3Endpoint overrides the S3 endpoint (MinIO, localstack)
	S3Endpoint string `yaml:"s3_endpoint" mapstructure:"s3_endpoint"`
	// GCSCredentialsFile is a service account key for gs:// dataset paths
	GCSCredentialsFile string `yaml:"gcs_credentials_file" mapstructure:"gcs_credentials_file"`
}

// TableConfig configures the remote analytical table client
type TableConfig struct {
	// Backend selects the table service: "bigquery" or "snowflake"
	Backend string `yaml:"backend" mapstructure:"backend"`
	// ProjectID is the BigQuery billing project
	ProjectID string `yaml:"project_id" mapstructure:"project_id"`
	// CredentialsFile is a BigQuery service account key
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
	// AccessToken is an OAuth2 access token used instead of a key file
	AccessToken string `yaml:"access_token" mapstructure:"access_token"`
	// SnowflakeDSN is the Snowflake connection string
	SnowflakeDSN string `yaml:"snowflake_dsn" mapstructure:"snowflake_dsn"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
		Table: TableConfig{
			Backend: "bigquery",
		},
	}
}

// FromFile loads configuration from a YAML file, applying ${ENV} substitution
// and a NOVA_-prefixed environment variable overlay
func FromFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := Load(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnvOverlay(cfg)
	return cfg, nil
}

// applyEnvOverlay lets NOVA_* environment variables override file values,
// e.g. NOVA_TABLE_PROJECT_ID or NOVA_FILEIO_S3_REGION
func applyEnvOverlay(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix("NOVA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if s := v.GetString("logging.level"); s != "" {
		cfg.Logging.Level = s
	}
	if s := v.GetString("logging.encoding"); s != "" {
		cfg.Logging.Encoding = s
	}
	if s := v.GetString("fileio.s3_region"); s != "" {
		cfg.FileIO.S3Region = s
	}
	if s := v.GetString("fileio.s3_endpoint"); s != "" {
		cfg.FileIO.S3Endpoint = s
	}
	if s := v.GetString("fileio.gcs_credentials_file"); s != "" {
		cfg.FileIO.GCSCredentialsFile = s
	}
	if s := v.GetString("table.backend"); s != "" {
		cfg.Table.Backend = s
	}
	if s := v.GetString("table.project_id"); s != "" {
		cfg.Table.ProjectID = s
	}
	if s := v.GetString("table.credentials_file"); s != "" {
		cfg.Table.CredentialsFile = s
	}
	if s := v.GetString("table.access_token"); s != "" {
		cfg.Table.AccessToken = s
	}
	if s := v.GetString("table.snowflake_dsn"); s != "" {
		cfg.Table.SnowflakeDSN = s
	}
}

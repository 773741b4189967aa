package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "sqlite", config.Database.Driver)
	assert.Equal(t, "agri-potential.db", config.Database.DSN)
	assert.Equal(t, ";", config.CSV.Delimiter)
	assert.Equal(t, "utf-8", config.CSV.Encoding)
	assert.Equal(t, "agrarzahlungen", config.Source.TagPrefix)
	assert.Equal(t, 270.0, config.Potential.EurPerHa)
	assert.Equal(t, 50.0, config.Potential.Rates.Seed)
	assert.Equal(t, 150.0, config.Potential.Rates.Fertilizer)
	assert.Equal(t, 80.0, config.Potential.Rates.CropProtection)
}

func TestDefault_MatchesInitializeConfig(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	loaded, err := InitializeConfig("")
	require.NoError(t, err)
	assert.Equal(t, loaded, Default())
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	t.Setenv("AGRI_LOG_LEVEL", "debug")
	t.Setenv("AGRI_LOG_FORMAT", "json")
	t.Setenv("AGRI_DATABASE_DRIVER", "postgres")
	t.Setenv("AGRI_DATABASE_DSN", "host=localhost user=agri dbname=agri")
	t.Setenv("AGRI_CSV_ENCODING", "latin1")
	t.Setenv("AGRI_POTENTIAL_EUR_PER_HA", "300")
	t.Setenv("AGRI_POTENTIAL_RATES_SEED", "55.5")

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "postgres", config.Database.Driver)
	assert.Equal(t, "host=localhost user=agri dbname=agri", config.Database.DSN)
	assert.Equal(t, "latin1", config.CSV.Encoding)
	assert.Equal(t, 300.0, config.Potential.EurPerHa)
	assert.Equal(t, 55.5, config.Potential.Rates.Seed)
}

func TestInitializeConfig_ConfigFileAndPrecedence(t *testing.T) {
	clearTestEnvVars(t)

	configFile := filepath.Join(t.TempDir(), "agri.yaml")
	configContent := `
log:
  level: "warn"
csv:
  delimiter: "|"
potential:
  eur_per_ha: 310
  rates:
    fertilizer: 140
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0600))

	t.Setenv("AGRI_LOG_LEVEL", "error")

	config, err := InitializeConfig(configFile)
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 310.0, config.Potential.EurPerHa)
	assert.Equal(t, 140.0, config.Potential.Rates.Fertilizer)
	assert.Equal(t, 50.0, config.Potential.Rates.Seed)
}

func TestInitializeConfig_MissingExplicitFile(t *testing.T) {
	clearTestEnvVars(t)

	_, err := InitializeConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "xml" },
			expectError:  "invalid log format",
		},
		{
			name:         "unsupported driver",
			modifyConfig: func(c *Config) { c.Database.Driver = "oracle" },
			expectError:  "unsupported database driver",
		},
		{
			name:         "empty dsn",
			modifyConfig: func(c *Config) { c.Database.DSN = " " },
			expectError:  "database.dsn must not be empty",
		},
		{
			name:         "invalid CSV delimiter",
			modifyConfig: func(c *Config) { c.CSV.Delimiter = ";;" },
			expectError:  "CSV delimiter must be a single character",
		},
		{
			name:         "unsupported encoding",
			modifyConfig: func(c *Config) { c.CSV.Encoding = "ebcdic" },
			expectError:  "unsupported csv.encoding",
		},
		{
			name:         "empty source prefix",
			modifyConfig: func(c *Config) { c.Source.TagPrefix = "" },
			expectError:  "source.tag_prefix must not be empty",
		},
		{
			name:         "zero eur per ha",
			modifyConfig: func(c *Config) { c.Potential.EurPerHa = 0 },
			expectError:  "potential.eur_per_ha must be greater than zero",
		},
		{
			name:         "negative rate",
			modifyConfig: func(c *Config) { c.Potential.Rates.CropProtection = -1 },
			expectError:  "potential.rates must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			require.NoError(t, validateConfig(config))

			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	loaded, err := LoadEnv()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AGRI_TEST_LOADENV=yes\n"), 0600))
	t.Setenv("AGRI_TEST_LOADENV", "")
	require.NoError(t, os.Unsetenv("AGRI_TEST_LOADENV"))

	loaded, err = LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ".env", loaded)
	assert.Equal(t, "yes", os.Getenv("AGRI_TEST_LOADENV"))
}

// clearTestEnvVars blanks every AGRI_* override for the duration of a test.
// Viper ignores empty environment values.
func clearTestEnvVars(t *testing.T) {
	t.Helper()
	envVars := []string{
		"AGRI_LOG_LEVEL",
		"AGRI_LOG_FORMAT",
		"AGRI_DATABASE_DRIVER",
		"AGRI_DATABASE_DSN",
		"AGRI_DATABASE_LOG_QUERIES",
		"AGRI_CSV_DELIMITER",
		"AGRI_CSV_ENCODING",
		"AGRI_SOURCE_TAG_PREFIX",
		"AGRI_POTENTIAL_EUR_PER_HA",
		"AGRI_POTENTIAL_RATES_SEED",
		"AGRI_POTENTIAL_RATES_FERTILIZER",
		"AGRI_POTENTIAL_RATES_CROP_PROTECTION",
	}
	for _, envVar := range envVars {
		t.Setenv(envVar, "")
	}
}

func TestCSVConfig_DelimiterRune(t *testing.T) {
	assert.Equal(t, ';', CSVConfig{}.DelimiterRune())
	assert.Equal(t, ',', CSVConfig{Delimiter: ","}.DelimiterRune())
	assert.Equal(t, '\t', CSVConfig{Delimiter: "\t"}.DelimiterRune())
}

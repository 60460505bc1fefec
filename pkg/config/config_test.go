package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFixtureFromYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  readTimeout: 5s
source:
  kind: fixture
  cache: false
logging:
  level: debug
  format: text
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout, "unset fields keep defaults")
	assert.Equal(t, SourceFixture, cfg.Source.Kind)
	assert.False(t, cfg.Source.Cache)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "advocate-searches", cfg.Kafka.Topics.SearchEvents)
}

func TestLoadPostgresWithoutDatabaseURLFails(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load(writeConfig(t, "source:\n  kind: postgres\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadDatabaseURLFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/advocates?sslmode=disable")
	t.Setenv("ADV_SERVER_PORT", "4000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SourcePostgres, cfg.Source.Kind)
	assert.Equal(t, "postgres://u:p@db:5432/advocates?sslmode=disable", cfg.Postgres.DSN())
	assert.Equal(t, 4000, cfg.Server.Port)
}

func TestLoadEnvSelectsSource(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADV_SOURCE_KIND", "FIXTURE")
	t.Setenv("ADV_ANALYTICS_ENABLED", "true")
	t.Setenv("ADV_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceFixture, cfg.Source.Kind)
	assert.True(t, cfg.Analytics.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadOptionOverridesEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADV_SOURCE_KIND", "postgres")

	cfg, err := Load("", WithSourceKind("Fixture"))
	require.NoError(t, err)
	assert.Equal(t, SourceFixture, cfg.Source.Kind)

	cfg, err = Load("", WithSourceKind(""), func(c *Config) { c.Postgres.URL = "postgres://db/advocates" })
	require.NoError(t, err)
	assert.Equal(t, SourcePostgres, cfg.Source.Kind)

	_, err = Load("", WithSourceKind("csv"))
	assert.ErrorContains(t, err, `"csv"`)
}

func TestValidateRejectsUnknownSource(t *testing.T) {
	cfg := defaultConfig()
	cfg.Source.Kind = "csv"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"csv"`)
}

func TestPostgresDSNFromFields(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.True(t, p.Configured())
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", p.DSN())
	assert.False(t, PostgresConfig{Port: 5432}.Configured())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

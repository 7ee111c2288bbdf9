package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesEngineDefaults(t *testing.T) {
	cfg, err := Parse([]byte("server:\n  port: 9090\n"))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 7, cfg.Engine.ThemeWindowDays)
	assert.Equal(t, 0.8, cfg.Engine.ThemeSimilarity)
	assert.Equal(t, 3, cfg.Engine.ThemeMinSources)
	assert.Equal(t, 5, cfg.Engine.ThemeMaxClusters)
	assert.Equal(t, 10, cfg.Engine.DigestMaxItems)
	assert.Equal(t, 2, cfg.Engine.DigestMaxPerSource)
	assert.Equal(t, 24, cfg.Engine.DigestWindowHours)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	require.NoError(t, cfg.Validate())
}

func TestParseBuildsMySQLDSN(t *testing.T) {
	cfg, err := Parse([]byte(`
database:
  host: db.local
  port: 3306
  username: sprout
  password: secret
  database: sprout
  parse_time: true
`))
	require.NoError(t, err)
	assert.Equal(t, "sprout:secret@tcp(db.local:3306)/sprout?charset=utf8mb4&parseTime=true", cfg.DB.DSN)
}

func TestParseSQLiteUsesPath(t *testing.T) {
	cfg, err := Parse([]byte("database:\n  driver: sqlite\n  path: /tmp/sprout.db\n"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/sprout.db", cfg.DB.DSN)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Parse([]byte("engine:\n  theme_similarity: 1.5\n"))
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())

	cfg, err = Parse([]byte("database:\n  driver: postgres\n"))
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestEnvOverridesSecrets(t *testing.T) {
	t.Setenv("SILICONFLOW_API_KEY", "sk-test")
	t.Setenv("DATABASE_PASSWORD", "from-env")

	var cfg Config
	applyEnvOverrides(&cfg)
	assert.Equal(t, "sk-test", cfg.SiliconFlow.APIKey)
	assert.Equal(t, "from-env", cfg.DB.Password)
}

package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	require.NoError(t, Bind(v))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.False(t, cfg.UseDatabase)
	assert.Equal(t, "127.0.0.1", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.EqualValues(t, 10, cfg.DB.MaxConns)
	assert.Equal(t, "numeric", cfg.HouseEncoding)
	assert.Equal(t, "202508", cfg.HousePrefix)
	assert.Equal(t, "9991", cfg.ServiceProvider)
	assert.True(t, cfg.EmptyAsNotFound)
}

func TestLoad_LegacyEnvironment(t *testing.T) {
	t.Setenv("USE_DATABASE", "true")
	t.Setenv("PORT", "8080")
	t.Setenv("MCI_MYSQL_HOST", "/cloudsql/p:r:i")
	t.Setenv("MCI_MYSQL_USER", "mock")
	t.Setenv("MCI_MYSQL_PASSWORD", "secret")
	t.Setenv("MCI_MYSQL_DATABASE", "energy")
	t.Setenv("CSV_DATA_DIR", "/data")

	v := viper.New()
	require.NoError(t, Bind(v))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.True(t, cfg.UseDatabase)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/cloudsql/p:r:i", cfg.DB.Host)
	assert.Equal(t, "mock", cfg.DB.User)
	assert.Equal(t, "energy", cfg.DB.Database)
	assert.Equal(t, "/data", cfg.DataDir)
	assert.NoError(t, cfg.ValidateDB())
}

func TestValidateDB(t *testing.T) {
	cfg := &Config{}
	err := cfg.ValidateDB()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user, password, database")
}

func TestLoad_EmptyProvider(t *testing.T) {
	v := viper.New()
	require.NoError(t, Bind(v))
	v.Set("api.service_provider", "")

	_, err := Load(v)
	assert.Error(t, err)
}

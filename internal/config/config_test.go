package config_test

import (
	"testing"
	"time"

	"orbio/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := config.FromViper(viper.New())

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, config.BackendSupabase, cfg.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.Supabase.Timeout)
	assert.Equal(t, "none", cfg.Events.Broker)
	assert.True(t, cfg.IsDevelopment())
}

func TestValidateMissingSupabaseCredentials(t *testing.T) {
	cfg := config.FromViper(viper.New())

	err := cfg.Validate()
	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.ElementsMatch(t, []string{"SUPABASE_URL", "SUPABASE_ANON_KEY"}, cfgErr.Missing)
	assert.Contains(t, err.Error(), "SUPABASE_URL")
}

func TestValidateMemoryBackend(t *testing.T) {
	v := viper.New()
	v.Set("BACKEND", "MEMORY")
	cfg := config.FromViper(v)

	assert.Equal(t, config.BackendMemory, cfg.Backend)
	assert.NoError(t, cfg.Validate())
}

func TestValidateKafkaNeedsBrokers(t *testing.T) {
	v := viper.New()
	v.Set("BACKEND", "memory")
	v.Set("EVENTS_BROKER", "kafka")
	cfg := config.FromViper(v)
	assert.Error(t, cfg.Validate())

	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092")
	cfg = config.FromViper(v)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
	assert.NoError(t, cfg.Validate())
}

func TestValidateUnknownBackend(t *testing.T) {
	v := viper.New()
	v.Set("BACKEND", "mongo")
	assert.Error(t, config.FromViper(v).Validate())
}

func TestValidateRejectsDefaultSecretInProduction(t *testing.T) {
	v := viper.New()
	v.Set("BACKEND", "memory")
	v.Set("APP_ENV", "production")
	cfg := config.FromViper(v)

	err := cfg.Validate()
	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"JWT_SECRET"}, cfgErr.Insecure)
	assert.Empty(t, cfgErr.Missing)
	assert.Contains(t, err.Error(), "insecure JWT_SECRET")

	v.Set("JWT_SECRET", "")
	assert.Error(t, config.FromViper(v).Validate())

	v.Set("JWT_SECRET", "a-long-random-production-secret")
	assert.NoError(t, config.FromViper(v).Validate())

	v.Set("APP_ENV", "development")
	v.Set("JWT_SECRET", config.DefaultJWTSecret)
	assert.NoError(t, config.FromViper(v).Validate())
}

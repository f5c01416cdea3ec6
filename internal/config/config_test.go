package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("ACCESS_SECRET", "secret")
	t.Setenv("POSTGRES_HOST", "db")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.True(t, cfg.Votes.Guarded)
	assert.Equal(t, 5, cfg.Votes.MaxAttempts)
	assert.Equal(t, "redis", cfg.Live.Broker)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "secret", cfg.AccessSecret)
	assert.Equal(t, "db", cfg.DB.Host)
}

func TestLoadOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set("store.driver", "badger")
	viper.Set("votes.guarded", false)
	viper.Set("live.broker", "memory")

	cfg := Load()

	assert.Equal(t, "badger", cfg.Store.Driver)
	assert.False(t, cfg.Votes.Guarded)
	assert.Equal(t, "memory", cfg.Live.Broker)
}

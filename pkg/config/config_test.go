package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TimetableTTL)
	assert.Equal(t, time.Hour, cfg.Scheduler.RunTTL)
	assert.Equal(t, 2*time.Minute, cfg.Scheduler.RunTimeout)
	assert.Equal(t, 16, cfg.Scheduler.QueueBuffer)
	assert.Zero(t, cfg.Scheduler.Seed)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("SCHEDULER_RUN_TIMEOUT", "not-a-duration")
	v.Set("SCHEDULER_SEED", 42)
	v.Set("ENABLE_CACHE", true)
	v.Set("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := fromViper(v)

	assert.Equal(t, 2*time.Minute, cfg.Scheduler.RunTimeout)
	assert.Equal(t, int64(42), cfg.Scheduler.Seed)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

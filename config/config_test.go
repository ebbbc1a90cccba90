package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.App.StoreDriver)
	assert.Equal(t, 30, cfg.Scheduling.WindowDays)
	assert.Equal(t, 10*time.Hour, cfg.Scheduling.DayStart)
	assert.Equal(t, 21*time.Hour, cfg.Scheduling.DayEnd)
	assert.Equal(t, 30*time.Minute, cfg.Scheduling.SlotInterval)
	assert.Equal(t, time.UTC, cfg.Scheduling.Location)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("STORE_DRIVER", "MEMORY")
	v.Set("SCHEDULE_WINDOW_DAYS", 7)
	v.Set("SCHEDULE_TIMEZONE", "Asia/Kolkata")
	v.Set("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	v.Set("JWT_ACCESS_EXPIRY", "not-a-duration")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.App.StoreDriver)
	assert.Equal(t, 7, cfg.Scheduling.WindowDays)
	assert.Equal(t, "Asia/Kolkata", cfg.Scheduling.Location.String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
}

func TestFromViper_InvalidScheduling(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad timezone", "SCHEDULE_TIMEZONE", "Mars/Olympus"},
		{"bad day start", "SCHEDULE_DAY_START", "ten"},
		{"end before start", "SCHEDULE_DAY_END", "9h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			v.Set(tt.key, tt.value)

			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}

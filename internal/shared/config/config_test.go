package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.Equal(t, 3, cfg.Reservation.DailyLimit)
	assert.Equal(t, 15, cfg.Reservation.CheckInLeadMinutes)
	assert.Equal(t, 3, cfg.Reservation.ViolationLimit)
	assert.Equal(t, 30*time.Minute, cfg.Reservation.OverstayGrace)
	assert.Equal(t, "none", cfg.Messaging.Broker)
	assert.Contains(t, cfg.Database.DSN, "dbname=studyhall_db")
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("RESERVATION_DAILY_LIMIT", "5")
	t.Setenv("JWT_EXPIRES_IN", "60")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "studyhall.db")

	cfg := Load()
	assert.Equal(t, 5, cfg.Reservation.DailyLimit)
	assert.Equal(t, time.Minute, cfg.JWT.JWTExpiresIn)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Messaging.KafkaBrokers)
	assert.Equal(t, "studyhall.db", cfg.Database.DSN)
}

func TestLoad_ConfigFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
reservation:
  timezone: Europe/Berlin
  daily_limit: 4
  overstay_grace: 45m
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("RESERVATION_DAILY_LIMIT", "")

	cfg := Load()
	assert.Equal(t, "Europe/Berlin", cfg.Reservation.Timezone)
	assert.Equal(t, 4, cfg.Reservation.DailyLimit)
	assert.Equal(t, 45*time.Minute, cfg.Reservation.OverstayGrace)
	// untouched keys keep their defaults
	assert.Equal(t, 15, cfg.Reservation.CheckInLeadMinutes)
}

func TestLocation(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, time.Local, cfg.Location())

	cfg.Reservation.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())

	cfg.Reservation.Timezone = "Not/AZone"
	assert.Equal(t, time.Local, cfg.Location())
}

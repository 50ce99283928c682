package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("MINIMARKET_CONFIG_FILE", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.Checkout.MaxDaysAhead)
	assert.Equal(t, 9, cfg.Checkout.OpenHour)
	assert.Equal(t, 22, cfg.Checkout.CloseHour)
	assert.Equal(t, "America/Lima", cfg.Checkout.Location().String())
}

func TestFromEnv_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimarket.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
storage:
  driver: redis
  cart_ttl: 48h
redis:
  url: redis://localhost:6379/0
checkout:
  open_hour: 8
`), 0o600))

	t.Setenv("MINIMARKET_CONFIG_FILE", path)
	t.Setenv("MINIMARKET_ADDR", ":7070")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("DATABASE_URL", "postgres://localhost/minimarket")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr, "env wins over file")
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, 48*time.Hour, cfg.Storage.CartTTL)
	assert.Equal(t, 8, cfg.Checkout.OpenHour)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}

func TestValidate(t *testing.T) {
	t.Run("redis driver requires url", func(t *testing.T) {
		cfg := Default()
		cfg.Storage.Driver = DriverRedis
		assert.ErrorContains(t, cfg.Validate(), "REDIS_URL")
	})

	t.Run("unknown timezone", func(t *testing.T) {
		cfg := Default()
		cfg.Checkout.Timezone = "Mars/Olympus"
		assert.ErrorContains(t, cfg.Validate(), "STORE_TIMEZONE")
	})

	t.Run("inverted hours", func(t *testing.T) {
		cfg := Default()
		cfg.Checkout.OpenHour = 22
		cfg.Checkout.CloseHour = 9
		assert.ErrorContains(t, cfg.Validate(), "delivery hours")
	})

	t.Run("production needs a signing key", func(t *testing.T) {
		cfg := Default()
		cfg.Server.Environment = "production"
		assert.ErrorContains(t, cfg.Validate(), "JWT_SIGNING_KEY")
	})

	t.Run("malformed duration is reported", func(t *testing.T) {
		t.Setenv("CART_TTL", "forever")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "CART_TTL")
	})
}

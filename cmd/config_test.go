package cmd

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"orderhub/internal/core/domain/model/kernel"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), "")

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5, cfg.LockoutThreshold)
	assert.Equal(t, 15*time.Minute, cfg.LockoutCooldown)
	assert.Equal(t, 3, cfg.MaxAssignAttempts)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, kernel.Money(200), cfg.PricingPolicy().DeliveryFee)
	assert.Equal(t, kernel.Money(5000), cfg.PricingPolicy().FreeDeliveryThreshold)
}

func TestLoadConfig_EnvFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_HOST=db.internal\nLOCKOUT_COOLDOWN=30m\n"), 0o600))
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("DELIVERY_FEE", "150")
	t.Cleanup(func() {
		_ = os.Unsetenv("DB_HOST")
		_ = os.Unsetenv("LOCKOUT_COOLDOWN")
	})

	cfg, err := LoadConfig(viper.New(), envFile)

	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 30*time.Minute, cfg.LockoutCooldown)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, kernel.Money(150), cfg.PricingPolicy().DeliveryFee)
	assert.Contains(t, cfg.DSN(), "host=db.internal")
}

func TestLoadConfig_RejectsZeroLockoutThreshold(t *testing.T) {
	t.Setenv("LOCKOUT_THRESHOLD", "0")

	_, err := LoadConfig(viper.New(), "")

	require.Error(t, err)
}

func TestNewCompositionRoot_RequiresJWTSecret(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	_, err = NewCompositionRoot(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.Error(t, err)
}

func TestNewCompositionRoot_OptionalAdaptersFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	root, err := NewCompositionRoot(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, err)
	assert.Nil(t, root.cache)
	assert.IsType(t, logNotifier{}, root.notifier)
	assert.NotNil(t, root.CreateHTTPServer())
	root.Close()
}

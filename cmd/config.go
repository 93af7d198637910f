package cmd

import (
	"fmt"
	"strings"
	"time"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/domain/model/access"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort string
	LogLevel string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	CapabilityTTL time.Duration

	KafkaBrokers            []string
	KafkaNotificationsTopic string

	JWTSecret     string
	BcryptCost    int
	WebhookSecret string

	SessionTTL       time.Duration
	LockoutThreshold int
	LockoutCooldown  time.Duration

	DeliveryFee           int64
	FreeDeliveryThreshold int64
	TaxPercent            int64

	MaxAssignAttempts int
	DispatchSchedule  string
	DispatchBatchSize int
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http_port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "orderhub")
	v.SetDefault("db_name", "orderhub")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("redis_addr", "")
	v.SetDefault("capability_ttl", 5*time.Minute)
	v.SetDefault("kafka_brokers", "")
	v.SetDefault("kafka_notifications_topic", "orderhub.notifications")
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("session_ttl", access.DefaultSessionTTL)
	v.SetDefault("lockout_threshold", access.DefaultLockoutThreshold)
	v.SetDefault("lockout_cooldown", access.DefaultLockoutCooldown)
	v.SetDefault("delivery_fee", int64(order.DefaultDeliveryFee))
	v.SetDefault("free_delivery_threshold", int64(order.DefaultFreeDeliveryThreshold))
	v.SetDefault("tax_percent", int64(order.DefaultTaxPercent))
	v.SetDefault("max_assign_attempts", commands.DefaultMaxAssignAttempts)
	v.SetDefault("dispatch_schedule", jobs.DefaultDispatchSchedule)
	v.SetDefault("dispatch_batch_size", 20)
}

// LoadConfig reads an optional .env file into the environment and resolves every key
// through v, so flags bound to v take precedence over the environment.
func LoadConfig(v *viper.Viper, envFile string) (Config, error) {
	if envFile != "" {
		// A missing .env is normal outside local development.
		_ = godotenv.Load(envFile)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	cfg := Config{
		HTTPPort:                v.GetString("http_port"),
		LogLevel:                v.GetString("log_level"),
		DBHost:                  v.GetString("db_host"),
		DBPort:                  v.GetString("db_port"),
		DBUser:                  v.GetString("db_user"),
		DBPassword:              v.GetString("db_password"),
		DBName:                  v.GetString("db_name"),
		DBSslMode:               v.GetString("db_sslmode"),
		RedisAddr:               v.GetString("redis_addr"),
		CapabilityTTL:           v.GetDuration("capability_ttl"),
		KafkaBrokers:            splitList(v.GetString("kafka_brokers")),
		KafkaNotificationsTopic: v.GetString("kafka_notifications_topic"),
		JWTSecret:               v.GetString("jwt_secret"),
		BcryptCost:              v.GetInt("bcrypt_cost"),
		WebhookSecret:           v.GetString("webhook_secret"),
		SessionTTL:              v.GetDuration("session_ttl"),
		LockoutThreshold:        v.GetInt("lockout_threshold"),
		LockoutCooldown:         v.GetDuration("lockout_cooldown"),
		DeliveryFee:             v.GetInt64("delivery_fee"),
		FreeDeliveryThreshold:   v.GetInt64("free_delivery_threshold"),
		TaxPercent:              v.GetInt64("tax_percent"),
		MaxAssignAttempts:       v.GetInt("max_assign_attempts"),
		DispatchSchedule:        v.GetString("dispatch_schedule"),
		DispatchBatchSize:       v.GetInt("dispatch_batch_size"),
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.LockoutThreshold < 1 {
		return fmt.Errorf("LOCKOUT_THRESHOLD must be at least 1, got %d", c.LockoutThreshold)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return c.PricingPolicy().Validate()
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) PricingPolicy() order.PricingPolicy {
	return order.PricingPolicy{
		DeliveryFee:           kernel.Money(c.DeliveryFee),
		FreeDeliveryThreshold: kernel.Money(c.FreeDeliveryThreshold),
		TaxPercent:            c.TaxPercent,
	}
}

func (c Config) AuthPolicy() commands.AuthPolicy {
	return commands.AuthPolicy{
		Lockout:    access.LockoutPolicy{Threshold: c.LockoutThreshold, Cooldown: c.LockoutCooldown},
		SessionTTL: c.SessionTTL,
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

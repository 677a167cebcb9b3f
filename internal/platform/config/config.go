// Package config is a thin viper wrapper carrying every engine-tunable the
// command processors, outbox publisher and validation engine read at
// startup. It mirrors the shape of the teacher's go-sdk/config.Config
// (GetString/GetInt/GetDuration over a package-level default registry)
// without pulling in that module's remote-backend/hot-reload machinery,
// which this engine does not need.
package config

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config wraps a *viper.Viper with defaults bound for every item named in
// spec §6.5.
type Config struct {
	v *viper.Viper
}

// New builds a Config with defaults set, then layers in environment
// variables (OMS_-prefixed) over them.
func New() *Config {
	v := viper.New()
	v.SetEnvPrefix("OMS")
	v.AutomaticEnv()

	v.SetDefault("worker.count", 4)
	v.SetDefault("outbox.publisher.count", 2)
	v.SetDefault("outbox.poll.interval", "500ms")
	v.SetDefault("outbox.poll.mode", "ticker")
	v.SetDefault("outbox.poll.cron", "@every 1s")
	v.SetDefault("outbox.poll.batch_size", 100)
	v.SetDefault("outbox.backoff.initial", "100ms")
	v.SetDefault("outbox.backoff.max", "30s")
	v.SetDefault("validation.max_order_qty", "1000000")
	v.SetDefault("validation.equity.round_lot", "100")
	v.SetDefault("validation.fx.min_notional", "1000")
	v.SetDefault("state_machine.variant", "standard")
	v.SetDefault("db.connection.pool.size", 10)
	v.SetDefault("deadline.default", "5s")
	v.SetDefault("processor.conflict.max_retries", 3)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic.order_events", "order-events")
	v.SetDefault("kafka.topic.execution_events", "execution-events")

	return &Config{v: v}
}

func (c *Config) GetString(key string) string { return c.v.GetString(key) }
func (c *Config) GetInt(key string) int       { return c.v.GetInt(key) }
func (c *Config) GetBool(key string) bool     { return c.v.GetBool(key) }
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration parses key as a time.Duration, per the teacher's convention of
// storing durations as parseable strings rather than viper's own duration
// type (keeps config files plain YAML/env strings).
func (c *Config) GetDuration(key string) time.Duration {
	d, err := time.ParseDuration(c.v.GetString(key))
	if err != nil {
		return 0
	}
	return d
}

// GetDecimal parses key as a shopspring/decimal.Decimal, for the validation
// thresholds (max order qty, FX minimum notional) which must never round
// through float64.
func (c *Config) GetDecimal(key string) decimal.Decimal {
	d, err := decimal.NewFromString(c.v.GetString(key))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// StateMachineVariant is "standard" or "simplified" (spec §6.5).
func (c *Config) StateMachineVariant() string {
	return c.v.GetString("state_machine.variant")
}

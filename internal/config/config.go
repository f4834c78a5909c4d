package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Business  BusinessConfig  `yaml:"business"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ShutdownSeconds int    `yaml:"shutdown_seconds"`
}

// StorageConfig selects the durable medium holding the state slots
type StorageConfig struct {
	Driver   string `yaml:"driver"` // "sqlite3", "postgres", "redis" or "memory"
	DSN      string `yaml:"dsn"`    // file path / postgres URL
	RedisURL string `yaml:"redis_url"`
	RedisKey string `yaml:"redis_key"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// AuthConfig holds the demo credentials. None of these carry real security value.
type AuthConfig struct {
	DemoEmail              string `yaml:"demo_email"`
	DemoPassword           string `yaml:"demo_password"`
	DeletePIN              string `yaml:"delete_pin"`
	SimulatedLatencyMillis int    `yaml:"simulated_latency_ms"`
	PasswordHashCost       int    `yaml:"password_hash_cost"`
}

// BusinessConfig holds calendar and rental policy settings
type BusinessConfig struct {
	Timezone           string       `yaml:"timezone"`
	PickupReminderLead int          `yaml:"pickup_reminder_lead_minutes"`
	Policy             PolicyConfig `yaml:"policy"`
}

// PolicyConfig makes the overpay and extension allowances explicit.
// Zero limits mean unlimited.
type PolicyConfig struct {
	AllowOverpay      *bool `yaml:"allow_overpay"`
	MaxExtensionDays  int   `yaml:"max_extension_days"`
	MaxExtensionHours int   `yaml:"max_extension_hours"`
}

// SchedulerConfig contains cron schedule settings (with seconds field)
type SchedulerConfig struct {
	Enabled         bool   `yaml:"enabled"`
	PickupReminders string `yaml:"pickup_reminders"`
	LowStockAlerts  string `yaml:"low_stock_alerts"`
	SavingsReminder string `yaml:"savings_reminder"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{
		Server:    ServerConfig{Host: "0.0.0.0", Port: 8080},
		Storage:   StorageConfig{Driver: "sqlite3", DSN: "psrental.db"},
		Scheduler: SchedulerConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration without consulting the environment
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Server.Port = port
		}
	}

	if val := os.Getenv("STORAGE_DRIVER"); val != "" {
		c.Storage.Driver = val
	}
	if val := os.Getenv("STORAGE_DSN"); val != "" {
		c.Storage.DSN = val
	}
	if val := os.Getenv("REDIS_URL"); val != "" {
		c.Storage.RedisURL = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if val := os.Getenv("DEMO_EMAIL"); val != "" {
		c.Auth.DemoEmail = val
	}
	if val := os.Getenv("DEMO_PASSWORD"); val != "" {
		c.Auth.DemoPassword = val
	}
	if val := os.Getenv("DELETE_PIN"); val != "" {
		c.Auth.DeletePIN = val
	}

	if val := os.Getenv("TIMEZONE"); val != "" {
		c.Business.Timezone = val
	}
}

func (c *Config) applyDefaults() {
	if c.Server.ShutdownSeconds == 0 {
		c.Server.ShutdownSeconds = 10
	}
	if c.Storage.RedisKey == "" {
		c.Storage.RedisKey = "psrental:slots"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Auth.DemoEmail == "" {
		c.Auth.DemoEmail = "admin@psrental.com"
	}
	if c.Auth.DemoPassword == "" {
		c.Auth.DemoPassword = "admin123"
	}
	if c.Auth.DeletePIN == "" {
		c.Auth.DeletePIN = "112233"
	}
	if c.Auth.PasswordHashCost == 0 {
		c.Auth.PasswordHashCost = 10
	}

	if c.Business.Timezone == "" {
		c.Business.Timezone = "Asia/Jakarta"
	}
	if c.Business.PickupReminderLead == 0 {
		c.Business.PickupReminderLead = 30
	}
	if c.Business.Policy.AllowOverpay == nil {
		allow := true
		c.Business.Policy.AllowOverpay = &allow
	}

	if c.Scheduler.PickupReminders == "" {
		c.Scheduler.PickupReminders = "0 * * * * *" // every minute
	}
	if c.Scheduler.LowStockAlerts == "" {
		c.Scheduler.LowStockAlerts = "0 0 * * * *" // hourly
	}
	if c.Scheduler.SavingsReminder == "" {
		c.Scheduler.SavingsReminder = "0 0 20 * * *" // 8 PM local
	}
}

// Validate fills defaults and checks if the configuration is valid
func (c *Config) Validate() error {
	c.applyDefaults()

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Storage.Driver {
	case "sqlite3", "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage dsn is required for driver %s", c.Storage.Driver)
		}
	case "redis":
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("redis url is required for driver redis")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported storage driver: %q", c.Storage.Driver)
	}

	if len(c.Auth.DeletePIN) != 6 {
		return fmt.Errorf("delete PIN must be 6 digits")
	}
	for _, r := range c.Auth.DeletePIN {
		if r < '0' || r > '9' {
			return fmt.Errorf("delete PIN must be 6 digits")
		}
	}
	if c.Auth.SimulatedLatencyMillis < 0 {
		return fmt.Errorf("simulated latency cannot be negative")
	}

	if _, err := time.LoadLocation(c.Business.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Business.Timezone, err)
	}
	if c.Business.Policy.MaxExtensionDays < 0 || c.Business.Policy.MaxExtensionHours < 0 {
		return fmt.Errorf("extension limits cannot be negative")
	}

	return nil
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// SimulatedLatency is the artificial delay applied to login and password changes
func (c *Config) SimulatedLatency() time.Duration {
	return time.Duration(c.Auth.SimulatedLatencyMillis) * time.Millisecond
}

// PickupReminderLeadTime is how long before pickup the reminder window opens
func (c *Config) PickupReminderLeadTime() time.Duration {
	return time.Duration(c.Business.PickupReminderLead) * time.Minute
}

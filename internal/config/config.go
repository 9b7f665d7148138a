package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pls-team/pls-backend/internal/database"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Tools    ToolsConfig    `mapstructure:"tools"`
}

// DatabaseConfig holds the relational database configuration
type DatabaseConfig struct {
	Type            string        `mapstructure:"type"`
	Hostname        string        `mapstructure:"hostname"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ToolsConfig holds agent tool configuration
type ToolsConfig struct {
	// EnabledSets lists the tool sets exposed to agents (assessment, profile)
	EnabledSets []string `mapstructure:"enabled_sets"`
}

const envPrefix = "PLS"

// Load reads configuration from file, environment variables and the given flags.
// A missing config file is not an error; defaults and environment apply.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("database.type", "postgres")
	v.SetDefault("database.hostname", "127.0.0.1")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "")
	v.SetDefault("database.ssl_mode", "prefer")
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_open_conns", 0)
	v.SetDefault("database.max_idle_conns", 0)
	v.SetDefault("database.conn_max_lifetime", "0s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("tools.enabled_sets", []string{"assessment", "profile"})
}

// bindEnvVars binds nested keys explicitly; AutomaticEnv alone is not
// consulted by Unmarshal for keys that only exist as defaults.
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("database.type", "PLS_DATABASE_TYPE")
	_ = v.BindEnv("database.hostname", "PLS_DATABASE_HOSTNAME")
	_ = v.BindEnv("database.port", "PLS_DATABASE_PORT")
	_ = v.BindEnv("database.user", "PLS_DATABASE_USER")
	_ = v.BindEnv("database.password", "PLS_DATABASE_PASSWORD")
	_ = v.BindEnv("database.database", "PLS_DATABASE_NAME")
	_ = v.BindEnv("database.ssl_mode", "PLS_DATABASE_SSL_MODE")
	_ = v.BindEnv("database.connect_timeout", "PLS_DATABASE_CONNECT_TIMEOUT")
	_ = v.BindEnv("database.max_open_conns", "PLS_DATABASE_MAX_OPEN_CONNS")
	_ = v.BindEnv("database.max_idle_conns", "PLS_DATABASE_MAX_IDLE_CONNS")
	_ = v.BindEnv("database.conn_max_lifetime", "PLS_DATABASE_CONN_MAX_LIFETIME")

	_ = v.BindEnv("logging.level", "PLS_LOGGING_LEVEL")
	_ = v.BindEnv("logging.format", "PLS_LOGGING_FORMAT")
	_ = v.BindEnv("logging.output", "PLS_LOGGING_OUTPUT")

	_ = v.BindEnv("tools.enabled_sets", "PLS_TOOLS_ENABLED_SETS")
}

// flagKeys maps command line flag names to configuration keys
var flagKeys = map[string]string{
	"log-level": "logging.level",
	"db-type":   "database.type",
	"db-host":   "database.hostname",
	"db-port":   "database.port",
	"db-name":   "database.database",
	"db-user":   "database.user",
}

// bindFlags binds the known flags present in the set; only flags that were
// explicitly changed override file and environment values.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if _, err := config.Database.Dialect(); err != nil {
		return fmt.Errorf("%w (supported: postgres, mysql)", err)
	}

	if config.Database.Hostname == "" {
		return fmt.Errorf("database hostname is required")
	}

	if config.Database.Port <= 0 || config.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", config.Database.Port)
	}

	if config.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if config.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if config.Database.MaxOpenConns < 0 || config.Database.MaxIdleConns < 0 {
		return fmt.Errorf("connection pool sizes must be non-negative")
	}

	if config.Database.MaxOpenConns > 0 && config.Database.MaxIdleConns > config.Database.MaxOpenConns {
		return fmt.Errorf("max idle connections (%d) must be <= max open connections (%d)",
			config.Database.MaxIdleConns, config.Database.MaxOpenConns)
	}

	if config.Database.ConnectTimeout < 0 {
		return fmt.Errorf("database connect timeout must be non-negative")
	}

	switch config.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging format: %s (valid: json, text)", config.Logging.Format)
	}

	return nil
}

// GetAddress returns the database address in host:port format
func (d *DatabaseConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", d.Hostname, d.Port)
}

// ConnectionParameters returns the access layer connection parameters
func (d *DatabaseConfig) ConnectionParameters() database.ConnectionParameters {
	return database.ConnectionParameters{
		Host:           d.Hostname,
		Port:           d.Port,
		Database:       d.Database,
		User:           d.User,
		Password:       d.Password,
		SSLMode:        d.SSLMode,
		ConnectTimeout: d.ConnectTimeout,
	}
}

// Dialect returns the configured database dialect
func (d *DatabaseConfig) Dialect() (database.Dialect, error) {
	return database.ParseDialect(d.Type)
}

// IsToolSetEnabled reports whether the named tool set is enabled
func (t *ToolsConfig) IsToolSetEnabled(name string) bool {
	for _, set := range t.EnabledSets {
		if strings.EqualFold(strings.TrimSpace(set), name) {
			return true
		}
	}
	return false
}

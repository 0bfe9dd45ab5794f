package config

import (
	"os"
	"path/filepath"
	"strings"

	"calctl/core/constants"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// StorageConfig selects the event database backend.
type StorageConfig struct {
	// Driver is one of "json", "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`
	// Path is the JSON database file (json driver) or sqlite file.
	Path string `mapstructure:"path"`
	// DSN is the connection string for the postgres driver.
	DSN string `mapstructure:"dsn"`
}

// BasicAuthConfig protects the serve-mode API. The password is stored as a
// bcrypt hash, never in plain text.
type BasicAuthConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

// ServerConfig configures `calctl serve`.
type ServerConfig struct {
	Listen    string           `mapstructure:"listen"`
	BasicAuth *BasicAuthConfig `mapstructure:"basic_auth"`
}

// S3Config configures remote snapshot uploads.
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Prefix          string `mapstructure:"prefix"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// BackupConfig configures snapshot backups.
type BackupConfig struct {
	Dir string `mapstructure:"dir"`
	// Cron, when set, schedules automatic backups in serve mode
	// (standard 5-field cron expression).
	Cron string    `mapstructure:"cron"`
	S3   *S3Config `mapstructure:"s3"`
}

// Config is the top-level application configuration. It is built once in the
// CLI layer and passed down; nothing reads it through package state.
type Config struct {
	CalendarName string        `mapstructure:"calendar_name"`
	WeekStart    string        `mapstructure:"week_start"`
	LogLevel     string        `mapstructure:"log_level"`
	Storage      StorageConfig `mapstructure:"storage"`
	Server       ServerConfig  `mapstructure:"server"`
	Backup       BackupConfig  `mapstructure:"backup"`
}

// DefaultConfigPath returns ~/.calctl/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(constants.DefaultConfigDir, constants.DefaultConfigFile)
	}
	return filepath.Join(home, constants.DefaultConfigDir, constants.DefaultConfigFile)
}

// DefaultDatabasePath returns ~/.calctl/events.json.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(constants.DefaultConfigDir, constants.DefaultDatabaseFile)
	}
	return filepath.Join(home, constants.DefaultConfigDir, constants.DefaultDatabaseFile)
}

// Load reads configuration from the given path (empty means the default
// location), merging environment variables with the CALCTL_ prefix. A missing
// config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	// Local .env files are a development convenience only.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("calendar_name", "Personal")
	v.SetDefault("week_start", constants.WeekStartMonday)
	v.SetDefault("log_level", "info")
	v.SetDefault("storage.driver", constants.StorageDriverJSON)
	v.SetDefault("storage.path", DefaultDatabasePath())
	v.SetDefault("server.listen", constants.DefaultListenAddr)
	v.SetDefault("backup.dir", defaultBackupDir())

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv(constants.EnvConfigPath)
	}
	if path == "" {
		path = DefaultConfigPath()
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				// A present but unreadable config file is a real error.
				if _, statErr := os.Stat(path); statErr == nil {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// CALCTL_DB keeps working as a direct database override.
	if db := os.Getenv(constants.EnvDBPath); db != "" {
		cfg.Storage.Path = db
	}

	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	switch c.WeekStart {
	case constants.WeekStartMonday, constants.WeekStartSunday:
	default:
		c.WeekStart = constants.WeekStartMonday
	}
	switch c.Storage.Driver {
	case constants.StorageDriverJSON, constants.StorageDriverSQLite, constants.StorageDriverPostgres:
	default:
		c.Storage.Driver = constants.StorageDriverJSON
	}
	if c.Server.Listen == "" {
		c.Server.Listen = constants.DefaultListenAddr
	}
	if c.Backup.Dir == "" {
		c.Backup.Dir = defaultBackupDir()
	}
}

func defaultBackupDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(constants.DefaultConfigDir, constants.DefaultBackupDir)
	}
	return filepath.Join(home, constants.DefaultConfigDir, constants.DefaultBackupDir)
}

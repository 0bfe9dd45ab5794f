package constants

// Application identity
const (
	AppName    = "calctl"
	AppVersion = "1.0.0"
)

// Default paths (relative to the user home directory)
const (
	DefaultConfigDir    = ".calctl"
	DefaultConfigFile   = "config.yaml"
	DefaultDatabaseFile = "events.json"
	DefaultBackupDir    = "backups"
)

// Environment variables
const (
	EnvPrefix     = "CALCTL"
	EnvConfigPath = "CALCTL_CONFIG"
	EnvDBPath     = "CALCTL_DB"
)

// Event identifiers: evt- followed by 4 lowercase alphanumerics
const (
	EventIDPrefix   = "evt-"
	EventIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	EventIDLength   = 4
)

// Wire formats for dates and times of day
const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// Storage drivers
const (
	StorageDriverJSON     = "json"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
)

// Week start options
const (
	WeekStartMonday = "monday"
	WeekStartSunday = "sunday"
)

// Server defaults
const (
	DefaultListenAddr = "127.0.0.1:8422"
)

// Database pool settings (sqlite/postgres backends)
const (
	DatabaseMaxOpenConns    = 5
	DatabaseMaxIdleConns    = 2
	DatabaseConnMaxLifetime = 30 // minutes
)

// Context keys
const (
	ContextRequestID = "request_id"
)

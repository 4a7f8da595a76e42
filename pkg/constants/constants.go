// Package constants provides shared constants used throughout the envsync codebase.
// This includes default file names, timeouts, limits, and file permissions
// that should be consistent across the application.
package constants

import "time"

// File name constants
const (
	// DefaultTemplateFile is the template file synced from when none is given
	DefaultTemplateFile = ".env.template"

	// DefaultLocalFile is the local file synced into when none is given
	DefaultLocalFile = ".env"

	// TemplateSuffix is stripped from a template path to derive its local file
	TemplateSuffix = ".template"

	// BackupSuffix is appended to a local path when a backup is requested
	BackupSuffix = ".bak"

	// TempFilePattern is the os.CreateTemp pattern for atomic writes
	TempFilePattern = ".envsync-*.tmp"

	// DefaultDiscoverPattern matches template files during discovery
	DefaultDiscoverPattern = "**/.env*.template"
)

// DefaultExcludePatterns are skipped during discovery.
var DefaultExcludePatterns = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/vendor/**",
}

// Config file constants
const (
	// ConfigFileName is the base name of the YAML config file (without extension)
	ConfigFileName = ".envsync"

	// ConfigEnvFile is the dotenv file holding ENVSYNC_* settings
	ConfigEnvFile = ".envsync.env"

	// ConfigLocalEnvFile overrides ConfigEnvFile and stays out of version control
	ConfigLocalEnvFile = ".envsync.local.env"

	// EnvPrefix is the prefix for environment variable configuration
	EnvPrefix = "ENVSYNC"
)

// Timeout constants define various timeout durations used in the application
const (
	// CommandTimeout is the default timeout for one-shot CLI commands
	CommandTimeout = 2 * time.Minute

	// WatchDebounce collapses bursts of filesystem events into one sync
	WatchDebounce = 200 * time.Millisecond
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for files that may hold secrets, like a new .env (rw-------)
	SecureFilePermissions = 0600
)

// Limit constants define various limits and capacities
const (
	// MaxConcurrentSyncs is the maximum number of file pairs synced concurrently
	MaxConcurrentSyncs = 8
)

// Format constants
const (
	// TimeFormatLog is the format used in log files
	TimeFormatLog = "2006-01-02 15:04:05.000"

	// RedactedValue replaces values in reports unless values are shown
	RedactedValue = "********"
)

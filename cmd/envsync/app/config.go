package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agentstation/envsync/pkg/constants"
	"github.com/agentstation/envsync/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose int
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Files
	Template string
	Local    string

	// Discovery
	All     bool
	Root    string
	Pattern string
	Exclude []string

	// Merge and write behavior
	Comments    string
	LocalOnly   string
	CreateLocal bool
	Timeout     time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// Config keys, shared by flags, ENVSYNC_* environment variables and the config file.
const (
	keyConfig      = "config"
	keyVerbose     = "verbose"
	keyQuiet       = "quiet"
	keyNoColor     = "no-color"
	keyFormat      = "format"
	keyTemplate    = "template"
	keyLocal       = "local"
	keyAll         = "all"
	keyRoot        = "root"
	keyPattern     = "pattern"
	keyExclude     = "exclude"
	keyComments    = "comments"
	keyLocalOnly   = "local-only"
	keyCreateLocal = "create-local"
	keyTimeout     = "timeout"
	keyLogLevel    = "log-level"
	keyLogFormat   = "log-format"
	keyLogOutput   = "log-output"
)

// newViper creates a viper instance with envsync defaults and environment binding.
func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyTemplate, constants.DefaultTemplateFile)
	v.SetDefault(keyLocal, constants.DefaultLocalFile)
	v.SetDefault(keyRoot, ".")
	v.SetDefault(keyPattern, constants.DefaultDiscoverPattern)
	v.SetDefault(keyExclude, constants.DefaultExcludePatterns)
	v.SetDefault(keyComments, "unit")
	v.SetDefault(keyLocalOnly, "append")
	v.SetDefault(keyCreateLocal, true)
	v.SetDefault(keyTimeout, constants.CommandTimeout)
	v.SetDefault(keyLogFormat, "auto")
	v.SetDefault(keyLogOutput, "stderr")

	return v
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags
// 2. ENVSYNC_* environment variables
// 3. .envsync.local.env, then .envsync.env
// 4. Config file (.envsync.yaml in the working directory, then $HOME)
// 5. Defaults
func LoadConfig(v *viper.Viper, flags *pflag.FlagSet) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.NewConfigError("flags", "failed to bind flags", err)
		}
	}

	if configFile := v.GetString(keyConfig); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("file", "failed to read "+configFile, err)
		}
	} else if path := findConfigFile(); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("file", "failed to parse "+path, err)
		}
	}

	config := &Config{
		Verbose: v.GetInt(keyVerbose),
		Quiet:   v.GetBool(keyQuiet),
		NoColor: v.GetBool(keyNoColor) || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString(keyFormat),

		ConfigFile: v.ConfigFileUsed(),

		Template: v.GetString(keyTemplate),
		Local:    v.GetString(keyLocal),

		All:     v.GetBool(keyAll),
		Root:    v.GetString(keyRoot),
		Pattern: v.GetString(keyPattern),
		Exclude: v.GetStringSlice(keyExclude),

		Comments:    v.GetString(keyComments),
		LocalOnly:   v.GetString(keyLocalOnly),
		CreateLocal: v.GetBool(keyCreateLocal),
		Timeout:     v.GetDuration(keyTimeout),

		LogLevel:  v.GetString(keyLogLevel),
		LogFormat: v.GetString(keyLogFormat),
		LogOutput: v.GetString(keyLogOutput),
	}

	return config, nil
}

// findConfigFile returns the first .envsync.yaml or .envsync.yml in the
// working directory or the home directory.
func findConfigFile() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}

	for _, dir := range dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, constants.ConfigFileName+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// loadEnvFiles loads environment variables from envsync's own env files.
// godotenv never overrides a variable that is already set, so the local
// file is loaded first to win over the shared one.
func loadEnvFiles() {
	envFiles := []string{
		constants.ConfigLocalEnvFile,
		constants.ConfigEnvFile,
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

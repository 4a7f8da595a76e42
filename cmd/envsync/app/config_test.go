package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/agentstation/envsync/pkg/constants"
	"github.com/agentstation/envsync/pkg/errors"
)

// TestLoadConfig verifies defaults when no other source is present.
func TestLoadConfig(t *testing.T) {
	isolate(t)

	config, err := LoadConfig(newViper(), nil)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Template != constants.DefaultTemplateFile {
		t.Errorf("Template = %s, want %s", config.Template, constants.DefaultTemplateFile)
	}
	if config.Local != constants.DefaultLocalFile {
		t.Errorf("Local = %s, want %s", config.Local, constants.DefaultLocalFile)
	}
	if !config.CreateLocal {
		t.Error("CreateLocal not enabled by default")
	}
	if config.Timeout != constants.CommandTimeout {
		t.Errorf("Timeout = %v, want %v", config.Timeout, constants.CommandTimeout)
	}
	if config.ConfigFile != "" {
		t.Errorf("ConfigFile = %s, want none", config.ConfigFile)
	}
}

// TestConfig_EnvironmentVariables verifies ENVSYNC_* variables are read.
func TestConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)
	t.Setenv("ENVSYNC_LOCAL", ".env.local")
	t.Setenv("ENVSYNC_LOCAL_ONLY", "drop")
	t.Setenv("ENVSYNC_TIMEOUT", "30s")

	config, err := LoadConfig(newViper(), nil)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Local != ".env.local" {
		t.Errorf("Local = %s, want .env.local", config.Local)
	}
	if config.LocalOnly != "drop" {
		t.Errorf("LocalOnly = %s, want drop", config.LocalOnly)
	}
	if config.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", config.Timeout)
	}
}

// TestConfig_EnvFiles verifies .envsync.local.env wins over .envsync.env.
func TestConfig_EnvFiles(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, constants.ConfigEnvFile), "ENVSYNC_COMMENTS=field\nENVSYNC_ROOT=shared\n")
	writeFile(t, filepath.Join(dir, constants.ConfigLocalEnvFile), "ENVSYNC_ROOT=mine\n")

	// godotenv.Load sets process variables; t.Setenv restores them afterwards.
	t.Setenv("ENVSYNC_COMMENTS", "")
	t.Setenv("ENVSYNC_ROOT", "")
	os.Unsetenv("ENVSYNC_COMMENTS")
	os.Unsetenv("ENVSYNC_ROOT")

	config, err := LoadConfig(newViper(), nil)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Comments != "field" {
		t.Errorf("Comments = %s, want field", config.Comments)
	}
	if config.Root != "mine" {
		t.Errorf("Root = %s, want mine", config.Root)
	}
}

// TestConfig_File verifies the config file and flag precedence over it.
func TestConfig_File(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".envsync.yaml"), "template: config.template\nlocal: config.env\nexclude:\n  - \"**/tmp/**\"\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(keyLocal, constants.DefaultLocalFile, "")
	if err := flags.Parse([]string{"--local", "flag.env"}); err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	config, err := LoadConfig(newViper(), flags)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Template != "config.template" {
		t.Errorf("Template = %s, want config.template", config.Template)
	}
	if config.Local != "flag.env" {
		t.Errorf("Local = %s, want flag.env", config.Local)
	}
	if len(config.Exclude) != 1 || config.Exclude[0] != "**/tmp/**" {
		t.Errorf("Exclude = %v, want [**/tmp/**]", config.Exclude)
	}
	if filepath.Base(config.ConfigFile) != ".envsync.yaml" {
		t.Errorf("ConfigFile = %s, want .envsync.yaml", config.ConfigFile)
	}
}

// TestConfig_ExplicitFile verifies --config errors are reported.
func TestConfig_ExplicitFile(t *testing.T) {
	dir := isolate(t)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(keyConfig, "", "")
	if err := flags.Parse([]string{"--config", filepath.Join(dir, "missing.yaml")}); err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	_, err := LoadConfig(newViper(), flags)
	var cerr *errors.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("LoadConfig() error = %v, want ConfigError", err)
	}
}

// TestConfig_NoColor verifies the NO_COLOR convention.
func TestConfig_NoColor(t *testing.T) {
	isolate(t)
	t.Setenv("NO_COLOR", "1")

	config, err := LoadConfig(newViper(), nil)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if !config.NoColor {
		t.Error("NoColor not set from NO_COLOR")
	}
}

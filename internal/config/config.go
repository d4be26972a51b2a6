// Package config holds all environment-based configuration for
// control-sync. Values come from the process environment, optionally
// seeded by a .env file and a YAML settings file; explicit environment
// variables always win.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for the sync engine.
type Config struct {
	// Environment controls log format.
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// EndpointBaseURL is the content backend API root.
	EndpointBaseURL string `env:"CONTROL_API_ENDPOINT" envDefault:"https://zhufucdev.com/api" yaml:"api_endpoint"`

	// SiteBaseURL is the public site root, used for preview links.
	SiteBaseURL string `env:"CONTROL_SITE_URL" envDefault:"https://zhufucdev.com" yaml:"site_url"`

	// AuthKey is the post-author secret. When empty it is resolved from
	// the credentials store instead.
	AuthKey string `env:"CONTROL_POST_AUTH_KEY" yaml:"-"`

	// CacheFile overrides the local cache database path.
	CacheFile string `env:"CONTROL_CACHE_FILE" yaml:"cache_file"`

	// CredentialFile overrides the auth-key file path.
	CredentialFile string `env:"CONTROL_CREDENTIAL_FILE" yaml:"credential_file"`

	// PullInterval is how often the daemon refreshes from the backend.
	PullInterval time.Duration `env:"CONTROL_PULL_INTERVAL" envDefault:"5m" yaml:"pull_interval"`

	// NotifyURL is an optional WebSocket change feed; empty disables it.
	NotifyURL string `env:"CONTROL_NOTIFY_URL" yaml:"notify_url"`

	// ImageUpload selects the upload strategy: "proxy" sends images
	// through the backend, "direct" posts them to third-party storage.
	ImageUpload string `env:"CONTROL_IMAGE_UPLOAD" envDefault:"proxy" yaml:"image_upload"`

	// Direct-upload settings (required when ImageUpload is "direct").
	CloudBaseURL string `env:"CONTROL_CLOUD_ENDPOINT" envDefault:"https://api.cloudinary.com" yaml:"cloud_endpoint"`
	CloudName    string `env:"CONTROL_CLOUD_NAME" yaml:"cloud_name"`
	CloudPreset  string `env:"CONTROL_CLOUD_PRESET" yaml:"cloud_preset"`
}

// Upload strategy selector values.
const (
	UploadProxy  = "proxy"
	UploadDirect = "direct"
)

// warnInsecureEnvFile checks whether the .env file (if present) has
// overly permissive permissions. On Unix systems, group or world
// readable files risk exposing credentials to other users.
func warnInsecureEnvFile() {
	if runtime.GOOS == "windows" {
		return
	}

	info, err := os.Stat(".env")
	if err != nil {
		return // file does not exist, nothing to check
	}

	mode := info.Mode().Perm()
	if mode&0o077 != 0 {
		log.Printf("WARNING: .env file has insecure permissions %04o; recommended 0600", mode)
	}
}

// DefaultFile returns the default YAML settings file path:
// ~/.control-sync/config.yaml
func DefaultFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}

	return filepath.Join(home, ".control-sync", "config.yaml"), nil
}

// Load reads configuration: .env first, then the YAML file at path (if
// non-empty and present) as a layer of defaults, then environment
// variables on top.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	warnInsecureEnvFile()

	cfg := &Config{}

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// env.Parse writes defaults over zero values, which would erase the
	// YAML layer. Re-apply the file on top of anything the environment
	// did not set explicitly.
	if path != "" {
		if err := applyFileOverrides(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFile reads the YAML settings file into cfg. A missing file is not
// an error; the file is optional.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return nil
}

// applyFileOverrides re-reads the YAML file and copies its values over
// cfg for every field whose environment variable is unset.
func applyFileOverrides(path string, cfg *Config) error {
	var file Config
	if err := loadFile(path, &file); err != nil {
		return err
	}

	set := func(envName string, apply func()) {
		if _, explicit := os.LookupEnv(envName); !explicit {
			apply()
		}
	}

	if file.EndpointBaseURL != "" {
		set("CONTROL_API_ENDPOINT", func() { cfg.EndpointBaseURL = file.EndpointBaseURL })
	}

	if file.SiteBaseURL != "" {
		set("CONTROL_SITE_URL", func() { cfg.SiteBaseURL = file.SiteBaseURL })
	}

	if file.CacheFile != "" {
		set("CONTROL_CACHE_FILE", func() { cfg.CacheFile = file.CacheFile })
	}

	if file.CredentialFile != "" {
		set("CONTROL_CREDENTIAL_FILE", func() { cfg.CredentialFile = file.CredentialFile })
	}

	if file.PullInterval != 0 {
		set("CONTROL_PULL_INTERVAL", func() { cfg.PullInterval = file.PullInterval })
	}

	if file.NotifyURL != "" {
		set("CONTROL_NOTIFY_URL", func() { cfg.NotifyURL = file.NotifyURL })
	}

	if file.ImageUpload != "" {
		set("CONTROL_IMAGE_UPLOAD", func() { cfg.ImageUpload = file.ImageUpload })
	}

	if file.CloudBaseURL != "" {
		set("CONTROL_CLOUD_ENDPOINT", func() { cfg.CloudBaseURL = file.CloudBaseURL })
	}

	if file.CloudName != "" {
		set("CONTROL_CLOUD_NAME", func() { cfg.CloudName = file.CloudName })
	}

	if file.CloudPreset != "" {
		set("CONTROL_CLOUD_PRESET", func() { cfg.CloudPreset = file.CloudPreset })
	}

	return nil
}

func (c *Config) validate() error {
	if c.EndpointBaseURL == "" {
		return fmt.Errorf("CONTROL_API_ENDPOINT must not be empty")
	}

	if c.PullInterval <= 0 {
		return fmt.Errorf("CONTROL_PULL_INTERVAL must be positive")
	}

	switch c.ImageUpload {
	case UploadProxy:
	case UploadDirect:
		if c.CloudName == "" {
			return fmt.Errorf("CONTROL_CLOUD_NAME is required for direct image upload")
		}

		if c.CloudPreset == "" {
			return fmt.Errorf("CONTROL_CLOUD_PRESET is required for direct image upload")
		}
	default:
		return fmt.Errorf("CONTROL_IMAGE_UPLOAD must be %q or %q", UploadProxy, UploadDirect)
	}

	return nil
}

// UseDirectUpload reports whether images should bypass the backend and
// go straight to third-party storage.
func (c *Config) UseDirectUpload() bool {
	return c.ImageUpload == UploadDirect
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

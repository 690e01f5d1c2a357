package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// API contains credentials and the GraphQL endpoint for the labeling platform.
type API struct {
	Endpoint  string `toml:"endpoint"`
	Key       string `toml:"key"`
	BypassKey string `toml:"bypass_key"`
	VerifySSL bool   `toml:"verify_ssl"`
}

// Endpoints contains the host segments used to recognize and rewrite
// platform-served content URLs.
type Endpoints struct {
	Router            string `toml:"router"`
	APIV2             string `toml:"api_v2"`
	APIPrivate        string `toml:"api_private"`
	Files             string `toml:"files"`
	RouterFromService string `toml:"router_from_service"`
	Environment       string `toml:"environment"`
}

// Paths contains directory configuration for scratch space and local state.
type Paths struct {
	StagingDir  string `toml:"staging_dir"`
	LogDir      string `toml:"log_dir"`
	JournalPath string `toml:"journal_path"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Tools contains the external binaries used for video frame extraction.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Config centralizes every knob the exporter CLI needs.
type Config struct {
	API       API       `toml:"api"`
	Endpoints Endpoints `toml:"endpoints"`
	Paths     Paths     `toml:"paths"`
	Logging   Logging   `toml:"logging"`
	Tools     Tools     `toml:"tools"`
}

// DefaultConfigPath returns the canonical config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "kiliexport", "config.toml"), nil
}

// Load reads the config file at path (or the default location when path is
// empty), applies environment fallbacks, and expands user paths. A missing
// file yields the defaults so env-only setups keep working.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved := strings.TrimSpace(path)
	if resolved == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		resolved = defaultPath
	}

	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	case errors.Is(err, fs.ErrNotExist) && strings.TrimSpace(path) == "":
		// No file at the default location; defaults plus env apply.
	default:
		return nil, fmt.Errorf("read config %s: %w", resolved, err)
	}

	cfg.applyEnv()
	cfg.expandPaths()
	return &cfg, nil
}

// WriteSample writes the embedded sample config to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the staging and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir, filepath.Dir(c.Paths.JournalPath)} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FilesPrefix returns the URL prefix identifying assets served by the
// platform's own file storage.
func (c *Config) FilesPrefix() string {
	return c.Endpoints.Router + c.Endpoints.APIV2 + c.Endpoints.Files
}

// ServiceRouter returns the router endpoint as reachable from inside the
// service network. In development the host is rewritten for use from within
// containers.
func (c *Config) ServiceRouter() string {
	endpoint := c.Endpoints.RouterFromService
	if strings.EqualFold(c.Endpoints.Environment, "development") {
		endpoint = strings.Replace(endpoint, "localhost", "host.docker.internal", 1)
	}
	return endpoint
}

func (c *Config) applyEnv() {
	overlay := map[string]*string{
		"KILI_API_ENDPOINT":         &c.API.Endpoint,
		"KILI_API_KEY":              &c.API.Key,
		"KILI_BYPASS_KEY":           &c.API.BypassKey,
		"KILI_ENDPOINT_ROUTER":      &c.Endpoints.Router,
		"KILI_ENDPOINT_API_V2":      &c.Endpoints.APIV2,
		"KILI_ENDPOINT_API_PRIVATE": &c.Endpoints.APIPrivate,
		"KILI_ENDPOINT_FILES":       &c.Endpoints.Files,
		"KILI_ROUTER_FROM_SERVICE":  &c.Endpoints.RouterFromService,
		"KILI_EXPORT_ENVIRONMENT":   &c.Endpoints.Environment,
		"KILI_EXPORT_STAGING_DIR":   &c.Paths.StagingDir,
		"KILI_EXPORT_LOG_DIR":       &c.Paths.LogDir,
		"KILI_EXPORT_JOURNAL_PATH":  &c.Paths.JournalPath,
	}
	for key, target := range overlay {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			*target = value
		}
	}
	if value := strings.TrimSpace(os.Getenv("KILI_VERIFY_SSL")); value != "" {
		c.API.VerifySSL = !strings.EqualFold(value, "false")
	}
}

func (c *Config) expandPaths() {
	c.Paths.StagingDir = expandUser(c.Paths.StagingDir)
	c.Paths.LogDir = expandUser(c.Paths.LogDir)
	c.Paths.JournalPath = expandUser(c.Paths.JournalPath)
}

func expandUser(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

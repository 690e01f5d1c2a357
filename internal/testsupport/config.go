// Package testsupport provides shared builders for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"kiliexport/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a valid config seeded with unique temp directories per
// test. It defaults required fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.API.Key = "test-key"
	cfg.Endpoints.Router = "https://files.test"
	cfg.Endpoints.APIPrivate = "/api/label/private"
	cfg.Endpoints.RouterFromService = "https://router.internal"
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.JournalPath = filepath.Join(base, "journal.db")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithRouter sets the public router endpoint on the test config.
func WithRouter(router string) ConfigOption {
	return func(c *config.Config) {
		c.Endpoints.Router = router
	}
}

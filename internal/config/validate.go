package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Missing required endpoint or
// credential configuration aborts the run before any asset is touched.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateEndpoints(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPI() error {
	if strings.TrimSpace(c.API.Key) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/kiliexport/config.toml"
		}
		return fmt.Errorf("api.key is required. Set KILI_API_KEY or edit %s (create with 'kiliexport config init')", defaultPath)
	}
	if strings.TrimSpace(c.API.Endpoint) == "" {
		return errors.New("api.endpoint must be set")
	}
	return nil
}

func (c *Config) validateEndpoints() error {
	if strings.TrimSpace(c.Endpoints.Router) == "" {
		return errors.New("endpoints.router must be set")
	}
	if strings.TrimSpace(c.Endpoints.APIV2) == "" {
		return errors.New("endpoints.api_v2 must be set")
	}
	if strings.TrimSpace(c.Endpoints.APIPrivate) == "" {
		return errors.New("endpoints.api_private must be set")
	}
	if strings.TrimSpace(c.Endpoints.RouterFromService) == "" {
		return errors.New("endpoints.router_from_service must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}

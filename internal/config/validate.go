package config

import (
	"errors"
	"fmt"
	"net/url"
)

// MaxEventLimit is the largest page the indexer serves.
const MaxEventLimit = 1000

// Validate checks that all required fields are set and values are valid.
func (c *DashboardConfig) Validate() error {
	if !c.Environment.Valid() {
		return fmt.Errorf("environment must be %q or %q, got %q", EnvLocal, EnvProduction, c.Environment)
	}

	if err := validateURL("indexer.url", c.Indexer.URL); err != nil {
		return err
	}
	if c.Indexer.Timeout <= 0 {
		return errors.New("indexer.timeout must be > 0")
	}
	if c.Indexer.EventLimit < 1 || c.Indexer.EventLimit > MaxEventLimit {
		return fmt.Errorf("indexer.event_limit must be between 1 and %d, got %d", MaxEventLimit, c.Indexer.EventLimit)
	}

	switch c.Backend.Sources {
	case SourcesIndexer:
	case SourcesRPC:
		if err := validateURL("backend.host", c.Backend.Host); err != nil {
			return err
		}
		if c.Backend.CanisterID == "" {
			return errors.New("backend.canister_id is required")
		}
	default:
		return fmt.Errorf("backend.sources must be %q or %q, got %q", SourcesIndexer, SourcesRPC, c.Backend.Sources)
	}
	if c.Backend.Timeout <= 0 {
		return errors.New("backend.timeout must be > 0")
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be > 0")
	}
	if c.Poller.Timeout <= 0 {
		return errors.New("poller.timeout must be > 0")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Path == "" || c.Server.Path[0] != '/' {
		return fmt.Errorf("server.path must start with '/', got %q", c.Server.Path)
	}

	if c.Archive.Enabled {
		if err := c.Archive.DBConfig.validate("archive"); err != nil {
			return err
		}
	}

	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, raw)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}

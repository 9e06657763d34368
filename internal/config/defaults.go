package config

import (
	"os"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultCanisterID     = "bkyz2-fmaaa-aaaaa-qaaaq-cai"
	DefaultLocalHost      = "http://127.0.0.1:4943"
	DefaultProductionHost = "https://icp-api.io"
	DefaultIndexerTimeout = 30 * time.Second
	DefaultBackendTimeout = 30 * time.Second
	DefaultEventLimit     = 50
	DefaultPollInterval   = 10 * time.Second
	DefaultPollTimeout    = 15 * time.Second
	DefaultServerPort     = 8080
	DefaultServerPath     = "/ws"
	DefaultDBPort         = 5432
	DefaultDBSSLMode      = "prefer"
	DefaultMaxConns       = 4
	DefaultMinConns       = 1
	EnvDFXNetwork         = "DFX_NETWORK"
	EnvIndexerCanisterID  = "INDEXER_CANISTER_ID"
)

// Default returns a configuration with every default applied.
func Default() *DashboardConfig {
	var cfg DashboardConfig
	cfg.applyDefaults()
	return &cfg
}

func (c *DashboardConfig) applyDefaults() {
	// Environment first: hosts and URLs below depend on it.
	c.Environment = Classify(c.Environment, os.Getenv(EnvDFXNetwork), c.Backend.Host)

	// Indexer defaults
	if c.Indexer.CanisterID == "" {
		c.Indexer.CanisterID = os.Getenv(EnvIndexerCanisterID)
	}
	if c.Indexer.CanisterID == "" {
		c.Indexer.CanisterID = DefaultCanisterID
	}
	if c.Indexer.URL == "" {
		c.Indexer.URL = IndexerURL(c.Environment, c.Indexer.CanisterID)
	}
	if c.Indexer.Timeout == 0 {
		c.Indexer.Timeout = DefaultIndexerTimeout
	}
	if c.Indexer.EventLimit == 0 {
		c.Indexer.EventLimit = DefaultEventLimit
	}

	// Backend defaults
	if c.Backend.Host == "" {
		if c.Environment == EnvProduction {
			c.Backend.Host = DefaultProductionHost
		} else {
			c.Backend.Host = DefaultLocalHost
		}
	}
	if c.Backend.CanisterID == "" {
		c.Backend.CanisterID = c.Indexer.CanisterID
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = DefaultBackendTimeout
	}
	if c.Backend.Sources == "" {
		c.Backend.Sources = SourcesIndexer
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollTimeout
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.Path == "" {
		c.Server.Path = DefaultServerPath
	}

	if c.Archive.Enabled {
		applyDBDefaults(&c.Archive.DBConfig)
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

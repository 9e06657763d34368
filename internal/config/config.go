package config

import "time"

// DashboardConfig is the root configuration for a dashboard instance.
type DashboardConfig struct {
	Environment Environment   `yaml:"environment"`
	Indexer     IndexerConfig `yaml:"indexer"`
	Backend     BackendConfig `yaml:"backend"`
	Poller      PollerConfig  `yaml:"poller"`
	Server      ServerConfig  `yaml:"server"`
	Archive     ArchiveConfig `yaml:"archive"`
}

// IndexerConfig holds the HTTP event indexer settings.
type IndexerConfig struct {
	CanisterID string        `yaml:"canister_id"`
	URL        string        `yaml:"url"` // Derived from environment + canister id when empty
	Timeout    time.Duration `yaml:"timeout"`
	EventLimit int           `yaml:"event_limit"` // Events requested per snapshot
}

// Source selectors for BackendConfig.Sources.
const (
	SourcesIndexer = "indexer" // every snapshot source read through the indexer HTTP API
	SourcesRPC     = "rpc"     // auditors, subscription and treasury read from the OUC canister
)

// BackendConfig holds the OUC remote-procedure backend settings.
type BackendConfig struct {
	Host       string        `yaml:"host"`
	CanisterID string        `yaml:"canister_id"`
	Timeout    time.Duration `yaml:"timeout"`
	Sources    string        `yaml:"sources"`
}

// PollerConfig holds snapshot poller settings.
type PollerConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"` // Per-cycle deadline
}

// ServerConfig holds the push server settings.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"` // WebSocket path
}

// ArchiveConfig holds the optional snapshot archive.
type ArchiveConfig struct {
	Enabled  bool `yaml:"enabled"`
	DBConfig `yaml:",inline"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

package config

import (
	"net"
	"net/url"
	"strings"
)

// Environment classifies the active deployment. It decides how connection
// handles to the backend are cached and which hosts are used by default.
type Environment string

const (
	EnvLocal      Environment = "local"
	EnvProduction Environment = "production"
)

// MainnetNetwork is the DFX_NETWORK value that selects production.
const MainnetNetwork = "ic"

// Valid reports whether e is a known environment.
func (e Environment) Valid() bool {
	return e == EnvLocal || e == EnvProduction
}

// IsLocal reports whether e is the local development replica.
func (e Environment) IsLocal() bool {
	return e == EnvLocal
}

// Classify resolves the environment from, in order: an explicit setting,
// the DFX_NETWORK value, and the backend host. With none of them available
// the environment is local.
func Classify(explicit Environment, dfxNetwork, host string) Environment {
	if explicit != "" {
		return explicit
	}
	if dfxNetwork != "" {
		if dfxNetwork == MainnetNetwork {
			return EnvProduction
		}
		return EnvLocal
	}
	if host != "" {
		return ClassifyURL(host)
	}
	return EnvLocal
}

// ClassifyURL classifies a backend URL or bare hostname by its host part.
// Loopback addresses and *.localhost names are local; anything else is production.
func ClassifyURL(raw string) Environment {
	host := raw
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host = u.Hostname()
	} else if h, _, err := net.SplitHostPort(raw); err == nil {
		host = h
	}
	host = strings.ToLower(strings.Trim(host, "[]"))

	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return EnvLocal
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return EnvLocal
	}
	return EnvProduction
}

// IndexerURL returns the indexer base URL for a canister in the given environment.
func IndexerURL(env Environment, canisterID string) string {
	if env == EnvProduction {
		return "https://" + canisterID + ".raw.ic0.app"
	}
	return "http://" + canisterID + ".localhost:4943"
}

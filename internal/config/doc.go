// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// The deployment environment (local replica vs. production network) is resolved
// while defaults are applied; see Classify.
package config

// Package config reads application configuration from environment
// variables with sensible development defaults.
package config

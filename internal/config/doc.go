// Package config handles loading, validation, and access to application configuration.
// Settings come from an optional YAML file merged over built-in defaults,
// and the playlist catalog is read from a separate JSON descriptor file.
package config

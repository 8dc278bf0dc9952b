// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional .env file and an optional YAML
// file. It provides type-safe access to the settings needed by the server,
// the account store and the AI backends while keeping configuration details
// separate from business logic.
package config

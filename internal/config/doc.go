// Package config loads bacc.toml and resolves it against defaults, BACC_*
// environment variables and command-line flags, recording where each value
// came from.
package config

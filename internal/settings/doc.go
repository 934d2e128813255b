// Package settings resolves a single configuration value through four tiers:
// an explicit command-line value, an environment variable, the repository git
// configuration, and a caller-supplied default.
package settings

// Package provider detects which hosting provider backs a repository.
//
// Detection first discovers a single host from the push URLs of the configured
// remotes, optionally pinned through TIDAL_HOST, and then selects a provider
// kind and API base host from git configuration or a table of well-known hosts.
package provider

// Package gitrepo interrogates the local git repository.
//
// RepositoryInspector runs git through execshell once per invocation and
// produces an immutable Snapshot describing remotes, push URLs and refspecs,
// local branches, the checked-out branch, and the merged git configuration.
// ParseRemoteURL turns remote URLs into host and path coordinates.
package gitrepo

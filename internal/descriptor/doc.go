// Package descriptor resolves and validates the source and destination
// references of a merge request.
//
// Resolver.Build reads each reference through the flag, environment, git
// configuration and default tiers. Validator.Validate checks the result against
// the repository's local branches and configured remotes.
package descriptor

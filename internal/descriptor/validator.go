package descriptor

import (
	"github.com/temirov/tidal/internal/gitrepo"
)

// Validator checks descriptors against repository state.
type Validator struct{}

// NewValidator constructs a Validator.
func NewValidator() Validator {
	return Validator{}
}

// Validate returns the descriptor unchanged when both references exist and differ.
// Identical references fail with ErrSameRef before existence is checked. Branch
// membership is reported before remote membership, source before destination.
func (validator Validator) Validate(descriptor Descriptor, snapshot gitrepo.Snapshot) (Descriptor, error) {
	if descriptor.Source == descriptor.Destination {
		return Descriptor{}, ReferenceError{Kind: ErrSameRef, Value: descriptor.Source.String()}
	}

	localBranches := make(map[string]struct{}, len(snapshot.LocalBranches))
	for _, branch := range snapshot.LocalBranches {
		localBranches[branch] = struct{}{}
	}
	remoteNames := make(map[string]struct{}, len(snapshot.Remotes))
	for _, remoteName := range snapshot.RemoteNames() {
		remoteNames[remoteName] = struct{}{}
	}

	for _, branch := range []string{descriptor.Source.Branch, descriptor.Destination.Branch} {
		if _, exists := localBranches[branch]; !exists {
			return Descriptor{}, ReferenceError{Kind: ErrInvalidBranch, Value: branch}
		}
	}
	for _, remote := range []string{descriptor.Source.Remote, descriptor.Destination.Remote} {
		if _, exists := remoteNames[remote]; !exists {
			return Descriptor{}, ReferenceError{Kind: ErrInvalidRemote, Value: remote}
		}
	}

	return descriptor, nil
}

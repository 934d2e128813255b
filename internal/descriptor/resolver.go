package descriptor

import (
	"strings"

	"github.com/temirov/tidal/internal/gitrepo"
	"github.com/temirov/tidal/internal/settings"
)

// Environment variables consulted during resolution.
const (
	DestinationRemoteEnvironmentVariable = "TIDAL_TO_REMOTE"
	DestinationBranchEnvironmentVariable = "TIDAL_TO_BRANCH"
	SourceRemoteEnvironmentVariable      = "TIDAL_FROM_REMOTE"
)

// SourcePushRefspec marks a destination branch taken from the remote's push refspecs.
const SourcePushRefspec settings.Source = settings.Source("push refspec")

const (
	configurationSectionConstant       = "tidal"
	destinationRemoteKeyConstant       = "to-remote"
	destinationBranchKeyConstant       = "to-branch"
	sourceRemoteKeyConstant            = "from-remote"
	defaultRemoteNameConstant          = "origin"
	destinationRemoteValueNameConstant = "destination remote"
	destinationBranchValueNameConstant = "destination branch"
	sourceRemoteValueNameConstant      = "source remote"
	sourceBranchValueNameConstant      = "source branch"
	forcedRefspecPrefixConstant        = "+"
	refspecSeparatorConstant           = ":"
	refspecWildcardConstant            = "*"
	localBranchNamespaceConstant       = "refs/heads/"
)

// Resolution records the resolved descriptor and where each of its values came from.
type Resolution struct {
	Descriptor        Descriptor
	SourceBranch      settings.ResolvedValue
	SourceRemote      settings.ResolvedValue
	DestinationBranch settings.ResolvedValue
	DestinationRemote settings.ResolvedValue
}

// Resolver builds descriptors from a repository snapshot.
type Resolver struct {
	environmentLookup settings.EnvironmentLookup
}

// NewResolver constructs a resolver reading environment variables through environmentLookup.
func NewResolver(environmentLookup settings.EnvironmentLookup) *Resolver {
	return &Resolver{environmentLookup: environmentLookup}
}

// Build resolves the descriptor for the snapshot and overrides.
func (resolver *Resolver) Build(snapshot gitrepo.Snapshot, overrides Overrides) (Descriptor, error) {
	resolution, resolutionError := resolver.BuildResolution(snapshot, overrides)
	if resolutionError != nil {
		return Descriptor{}, resolutionError
	}
	return resolution.Descriptor, nil
}

// BuildResolution resolves the descriptor and keeps the source of every value.
func (resolver *Resolver) BuildResolution(snapshot gitrepo.Snapshot, overrides Overrides) (Resolution, error) {
	valueResolver := settings.NewResolver(resolver.environmentLookup, snapshot.Configuration)

	destinationRemote := valueResolver.Resolve(settings.Request{
		Key:                 destinationRemoteValueNameConstant,
		Explicit:            overrides.DestinationRemote,
		EnvironmentVariable: DestinationRemoteEnvironmentVariable,
		Section:             configurationSectionConstant,
		ConfigurationKey:    destinationRemoteKeyConstant,
	}, defaultRemoteNameConstant)

	destinationBranch, found := valueResolver.Lookup(settings.Request{
		Key:                 destinationBranchValueNameConstant,
		Explicit:            overrides.DestinationBranch,
		EnvironmentVariable: DestinationBranchEnvironmentVariable,
		Section:             configurationSectionConstant,
		ConfigurationKey:    destinationBranchKeyConstant,
	})
	if !found {
		destinationBranch = settings.ResolvedValue{Key: destinationBranchValueNameConstant, Value: snapshot.DefaultBranchName(), Source: settings.SourceDefault}
		if remote, remoteFound := snapshot.Remote(destinationRemote.Value); remoteFound {
			if hintedBranch, hinted := PushRefspecBranch(remote.PushRefspecs); hinted {
				destinationBranch = settings.ResolvedValue{Key: destinationBranchValueNameConstant, Value: hintedBranch, Source: SourcePushRefspec}
			}
		}
	}

	sourceRemote := valueResolver.Resolve(settings.Request{
		Key:                 sourceRemoteValueNameConstant,
		Explicit:            overrides.SourceRemote,
		EnvironmentVariable: SourceRemoteEnvironmentVariable,
		Section:             configurationSectionConstant,
		ConfigurationKey:    sourceRemoteKeyConstant,
	}, defaultRemoteNameConstant)

	// The source branch shares the destination branch variable and key.
	sourceBranch, found := valueResolver.Lookup(settings.Request{
		Key:                 sourceBranchValueNameConstant,
		Explicit:            overrides.SourceBranch,
		EnvironmentVariable: DestinationBranchEnvironmentVariable,
		Section:             configurationSectionConstant,
		ConfigurationKey:    destinationBranchKeyConstant,
	})
	if !found {
		if snapshot.IsDetached() {
			return Resolution{}, ReferenceError{Kind: ErrDetachedHead}
		}
		sourceBranch = settings.ResolvedValue{Key: sourceBranchValueNameConstant, Value: snapshot.CurrentBranch, Source: settings.SourceDefault}
	}

	return Resolution{
		Descriptor: Descriptor{
			Source:      Reference{Branch: sourceBranch.Value, Remote: sourceRemote.Value},
			Destination: Reference{Branch: destinationBranch.Value, Remote: destinationRemote.Value},
		},
		SourceBranch:      sourceBranch,
		SourceRemote:      sourceRemote,
		DestinationBranch: destinationBranch,
		DestinationRemote: destinationRemote,
	}, nil
}

// PushRefspecBranch returns the first non-wildcard branch destination among push refspecs.
func PushRefspecBranch(refspecs []string) (string, bool) {
	for _, refspec := range refspecs {
		trimmedRefspec := strings.TrimPrefix(strings.TrimSpace(refspec), forcedRefspecPrefixConstant)
		destination := trimmedRefspec
		if _, afterSeparator, hasSeparator := strings.Cut(trimmedRefspec, refspecSeparatorConstant); hasSeparator {
			destination = afterSeparator
		}
		if strings.Contains(destination, refspecWildcardConstant) || !strings.HasPrefix(destination, localBranchNamespaceConstant) {
			continue
		}
		branch := strings.TrimPrefix(destination, localBranchNamespaceConstant)
		if len(branch) > 0 {
			return branch, true
		}
	}
	return "", false
}

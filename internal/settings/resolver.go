package settings

import (
	"os"
)

// Source identifies the tier that produced a resolved value.
type Source string

// Resolution tiers in precedence order.
const (
	SourceFlag                    Source = Source("flag")
	SourceEnvironment             Source = Source("environment")
	SourceRepositoryConfiguration Source = Source("repository configuration")
	SourceDefault                 Source = Source("default")
)

// EnvironmentLookup reads an environment variable and reports whether it is set.
type EnvironmentLookup = func(string) (string, bool)

// ConfigurationReader reads repository git configuration.
type ConfigurationReader interface {
	Lookup(section string, subsection string, key string) (string, bool)
}

// Optional carries a value that may be absent.
type Optional struct {
	Value   string
	Present bool
}

// Some returns a present Optional holding value.
func Some(value string) Optional {
	return Optional{Value: value, Present: true}
}

// Request names a value and every tier it may be read from.
// Empty EnvironmentVariable or ConfigurationKey skip the corresponding tier.
type Request struct {
	Key                 string
	Explicit            Optional
	EnvironmentVariable string
	Section             string
	Subsection          string
	ConfigurationKey    string
}

// ResolvedValue is the outcome of resolving a Request.
type ResolvedValue struct {
	Key    string
	Value  string
	Source Source
}

// Resolver applies the resolution tiers.
type Resolver struct {
	environmentLookup   EnvironmentLookup
	configurationReader ConfigurationReader
}

// NewResolver constructs a resolver. A nil lookup reads the process environment.
// A nil reader disables the repository configuration tier.
func NewResolver(environmentLookup EnvironmentLookup, configurationReader ConfigurationReader) *Resolver {
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	return &Resolver{environmentLookup: environmentLookup, configurationReader: configurationReader}
}

// Lookup returns the first present value among the explicit, environment and configuration tiers.
// Values are returned verbatim; an environment variable set to the empty string still wins.
func (resolver *Resolver) Lookup(request Request) (ResolvedValue, bool) {
	if request.Explicit.Present {
		return ResolvedValue{Key: request.Key, Value: request.Explicit.Value, Source: SourceFlag}, true
	}

	if len(request.EnvironmentVariable) > 0 {
		if environmentValue, found := resolver.environmentLookup(request.EnvironmentVariable); found {
			return ResolvedValue{Key: request.Key, Value: environmentValue, Source: SourceEnvironment}, true
		}
	}

	if resolver.configurationReader != nil && len(request.ConfigurationKey) > 0 {
		if configuredValue, found := resolver.configurationReader.Lookup(request.Section, request.Subsection, request.ConfigurationKey); found {
			return ResolvedValue{Key: request.Key, Value: configuredValue, Source: SourceRepositoryConfiguration}, true
		}
	}

	return ResolvedValue{}, false
}

// Resolve returns the first present tier, falling back to defaultValue.
func (resolver *Resolver) Resolve(request Request, defaultValue string) ResolvedValue {
	if resolvedValue, found := resolver.Lookup(request); found {
		return resolvedValue
	}
	return ResolvedValue{Key: request.Key, Value: defaultValue, Source: SourceDefault}
}

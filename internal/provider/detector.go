package provider

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/temirov/tidal/internal/gitrepo"
	"github.com/temirov/tidal/internal/settings"
)

// HostPinEnvironmentVariable pins detection to one remote host.
const HostPinEnvironmentVariable = "TIDAL_HOST"

const (
	configurationSectionConstant  = "tidal"
	driverKeyConstant             = "driver"
	hostKeyConstant               = "host"
	hostPinValueNameConstant      = "host pin"
	driverValueNameConstant       = "driver"
	hostOverrideValueNameConstant = "provider host"
	hostListSeparatorConstant     = ", "
)

// Detector selects a provider for a repository snapshot.
type Detector struct {
	environmentLookup settings.EnvironmentLookup
}

// NewDetector constructs a detector reading the host pin through environmentLookup.
func NewDetector(environmentLookup settings.EnvironmentLookup) *Detector {
	return &Detector{environmentLookup: environmentLookup}
}

// Detect discovers the repository host and selects its provider.
func (detector *Detector) Detect(snapshot gitrepo.Snapshot) (Selection, error) {
	host, discoveryError := detector.DiscoverHost(snapshot)
	if discoveryError != nil {
		return Selection{}, discoveryError
	}
	return SelectDriver(snapshot.Configuration, host)
}

// DiscoverHost returns the single host shared by the remotes, or the pinned host when it matches a remote.
// Remotes whose push URL carries no host are ignored.
func (detector *Detector) DiscoverHost(snapshot gitrepo.Snapshot) (string, error) {
	if len(snapshot.Remotes) == 0 {
		return "", DetectionError{Kind: ErrNoRemotes}
	}

	hosts := make(map[string]struct{})
	for _, remote := range snapshot.Remotes {
		remoteURL, parseError := gitrepo.ParseRemoteURL(remote.PushURL)
		if parseError != nil || len(remoteURL.Host) == 0 {
			continue
		}
		hosts[remoteURL.Host] = struct{}{}
	}

	pin, pinned := settings.NewResolver(detector.environmentLookup, nil).Lookup(settings.Request{
		Key:                 hostPinValueNameConstant,
		EnvironmentVariable: HostPinEnvironmentVariable,
	})
	if pinned {
		if _, matches := hosts[pin.Value]; matches {
			return pin.Value, nil
		}
		return "", DetectionError{Kind: ErrInvalidPin, Value: pin.Value}
	}

	if len(hosts) != 1 {
		return "", DetectionError{Kind: ErrDivergingRemotes, Value: strings.Join(sortedHosts(hosts), hostListSeparatorConstant)}
	}
	for host := range hosts {
		return host, nil
	}
	return "", DetectionError{Kind: ErrNoRemotes}
}

// SelectDriver chooses the provider for host. Configuration under tidal.<host> wins over well-known hosts.
func SelectDriver(configuration settings.ConfigurationReader, host string) (Selection, error) {
	configurationResolver := settings.NewResolver(nil, configuration)

	driver, configured := configurationResolver.Lookup(settings.Request{
		Key:              driverValueNameConstant,
		Section:          configurationSectionConstant,
		Subsection:       host,
		ConfigurationKey: driverKeyConstant,
	})
	if configured {
		baseHost := host
		if hostOverride, overridden := configurationResolver.Lookup(settings.Request{
			Key:              hostOverrideValueNameConstant,
			Section:          configurationSectionConstant,
			Subsection:       host,
			ConfigurationKey: hostKeyConstant,
		}); overridden && len(hostOverride.Value) > 0 {
			baseHost = hostOverride.Value
		}
		if !utf8.ValidString(baseHost) {
			return Selection{}, DetectionError{Kind: ErrMalformedHost, Value: strings.ToValidUTF8(baseHost, string(utf8.RuneError))}
		}

		kind, kindError := ParseKind(driver.Value)
		if kindError != nil {
			return Selection{}, kindError
		}
		return Selection{Kind: kind, BaseHost: baseHost, Host: host}, nil
	}

	if wellKnown, found := wellKnownProviders[host]; found {
		return Selection{Kind: wellKnown.kind, BaseHost: wellKnown.baseHost, Host: host}, nil
	}

	return Selection{}, DetectionError{Kind: ErrNoDriverFound, Value: host}
}

func sortedHosts(hosts map[string]struct{}) []string {
	sorted := make([]string, 0, len(hosts))
	for host := range hosts {
		sorted = append(sorted, host)
	}
	sort.Strings(sorted)
	return sorted
}

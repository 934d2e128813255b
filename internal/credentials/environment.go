package credentials

import (
	"context"
	"errors"
	"os"
	"strings"
)

// EnvironmentTokenResolver reads a token from environment variables.
type EnvironmentTokenResolver func(environmentLookup func(string) (string, bool)) (string, bool)

// FirstEnvironmentValue resolves the first non-blank value among variables.
func FirstEnvironmentValue(variables ...string) EnvironmentTokenResolver {
	return func(environmentLookup func(string) (string, bool)) (string, bool) {
		for _, variable := range variables {
			value, exists := environmentLookup(variable)
			if !exists {
				continue
			}
			if trimmedValue := strings.TrimSpace(value); len(trimmedValue) > 0 {
				return trimmedValue, true
			}
		}
		return "", false
	}
}

// HostTokenResolver returns the environment resolver whose variables belong to host, or nil when none do.
type HostTokenResolver func(host string) EnvironmentTokenResolver

// ForHosts serves resolveToken to the listed hosts only. Hosts compare case-insensitively.
func ForHosts(resolveToken EnvironmentTokenResolver, hosts ...string) HostTokenResolver {
	allowedHosts := make(map[string]struct{}, len(hosts))
	for _, host := range hosts {
		allowedHosts[strings.ToLower(strings.TrimSpace(host))] = struct{}{}
	}
	return func(host string) EnvironmentTokenResolver {
		if _, allowed := allowedHosts[strings.ToLower(strings.TrimSpace(host))]; allowed {
			return resolveToken
		}
		return nil
	}
}

// EnvironmentFallback consults environment variables when the primary source has no credential for the host.
// Only variables that belong to the requested host are read. Other primary failures are returned unchanged.
type EnvironmentFallback struct {
	primary           Source
	resolverForHost   HostTokenResolver
	environmentLookup func(string) (string, bool)
}

// NewEnvironmentFallback wraps primary. A nil lookup reads the process environment.
func NewEnvironmentFallback(primary Source, resolverForHost HostTokenResolver, environmentLookup func(string) (string, bool)) *EnvironmentFallback {
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	return &EnvironmentFallback{primary: primary, resolverForHost: resolverForHost, environmentLookup: environmentLookup}
}

// Token returns the primary credential or, when it is missing, the environment token.
func (fallback *EnvironmentFallback) Token(executionContext context.Context, host string) (string, error) {
	if fallback.primary != nil {
		token, tokenError := fallback.primary.Token(executionContext, host)
		if tokenError == nil {
			return token, nil
		}
		if !errors.Is(tokenError, ErrCredentialNotFound) {
			return "", tokenError
		}
	}

	if fallback.resolverForHost != nil {
		if resolveToken := fallback.resolverForHost(host); resolveToken != nil {
			if token, found := resolveToken(fallback.environmentLookup); found {
				return token, nil
			}
		}
	}
	return "", CredentialError{Host: host, Kind: ErrCredentialNotFound}
}

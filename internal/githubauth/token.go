package githubauth

import (
	"strings"
)

// Environment variable names used by GitHub authentication helpers.
const (
	EnvGitHubCLIToken                 = "GH_TOKEN"
	EnvGitHubToken                    = "GITHUB_TOKEN"
	EnvGitHubAPIToken                 = "GITHUB_API_TOKEN"
	EnvGitHubEnterpriseToken          = "GH_ENTERPRISE_TOKEN"
	EnvGitHubEnterpriseAlternateToken = "GITHUB_ENTERPRISE_TOKEN"
)

// PublicAPIHost is the API host of github.com.
const PublicAPIHost = "api.github.com"

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

var enterpriseTokenPreference = []string{
	EnvGitHubEnterpriseToken,
	EnvGitHubEnterpriseAlternateToken,
}

// TokenVariables lists the github.com token environment variables in preference order.
func TokenVariables() []string {
	return append([]string(nil), tokenPreference...)
}

// EnterpriseTokenVariables lists the GitHub Enterprise token environment variables in preference order.
func EnterpriseTokenVariables() []string {
	return append([]string(nil), enterpriseTokenPreference...)
}

// ResolveToken returns the first non-empty github.com authentication token observed
// through the provided environment lookup.
func ResolveToken(environmentLookup func(string) (string, bool)) (string, bool) {
	return firstToken(tokenPreference, environmentLookup)
}

// ResolveEnterpriseToken returns the first non-empty GitHub Enterprise token.
func ResolveEnterpriseToken(environmentLookup func(string) (string, bool)) (string, bool) {
	return firstToken(enterpriseTokenPreference, environmentLookup)
}

// ResolverForHost picks the variables that belong to an API host: the github.com
// variables for PublicAPIHost and the enterprise variables for any other host.
func ResolverForHost(apiHost string) func(func(string) (string, bool)) (string, bool) {
	if strings.EqualFold(strings.TrimSpace(apiHost), PublicAPIHost) {
		return ResolveToken
	}
	return ResolveEnterpriseToken
}

func firstToken(variables []string, environmentLookup func(string) (string, bool)) (string, bool) {
	if environmentLookup == nil {
		return "", false
	}
	for _, key := range variables {
		value, exists := environmentLookup(key)
		if !exists {
			continue
		}
		value = strings.TrimSpace(value)
		if len(value) > 0 {
			return value, true
		}
	}
	return "", false
}

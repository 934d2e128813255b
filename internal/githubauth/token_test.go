package githubauth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/tidal/internal/githubauth"
)

func TestResolveToken(testInstance *testing.T) {
	testCases := []struct {
		name          string
		environment   map[string]string
		expectedToken string
		expectedFound bool
	}{
		{name: "none", environment: map[string]string{}},
		{name: "cli_token_preferred", environment: map[string]string{githubauth.EnvGitHubCLIToken: "cli", githubauth.EnvGitHubToken: "plain"}, expectedToken: "cli", expectedFound: true},
		{name: "blank_skipped", environment: map[string]string{githubauth.EnvGitHubCLIToken: "  ", githubauth.EnvGitHubAPIToken: " api "}, expectedToken: "api", expectedFound: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			token, found := githubauth.ResolveToken(func(name string) (string, bool) {
				value, exists := testCase.environment[name]
				return value, exists
			})
			require.Equal(testInstance, testCase.expectedFound, found)
			require.Equal(testInstance, testCase.expectedToken, token)
		})
	}
}

func TestTokenVariablesOrder(testInstance *testing.T) {
	require.Equal(testInstance, []string{"GH_TOKEN", "GITHUB_TOKEN", "GITHUB_API_TOKEN"}, githubauth.TokenVariables())
}

func TestEnterpriseTokenVariablesOrder(testInstance *testing.T) {
	require.Equal(testInstance, []string{"GH_ENTERPRISE_TOKEN", "GITHUB_ENTERPRISE_TOKEN"}, githubauth.EnterpriseTokenVariables())
}

func TestResolverForHost(testInstance *testing.T) {
	environment := map[string]string{
		githubauth.EnvGitHubCLIToken:        "public",
		githubauth.EnvGitHubEnterpriseToken: "enterprise",
	}
	environmentLookup := func(name string) (string, bool) {
		value, exists := environment[name]
		return value, exists
	}

	testCases := []struct {
		name          string
		apiHost       string
		expectedToken string
		expectedFound bool
	}{
		{name: "public_host", apiHost: "api.github.com", expectedToken: "public", expectedFound: true},
		{name: "public_host_case_insensitive", apiHost: "API.GitHub.com", expectedToken: "public", expectedFound: true},
		{name: "enterprise_host", apiHost: "github.example.com/api/v3", expectedToken: "enterprise", expectedFound: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			token, found := githubauth.ResolverForHost(testCase.apiHost)(environmentLookup)
			require.Equal(testInstance, testCase.expectedFound, found)
			require.Equal(testInstance, testCase.expectedToken, token)
		})
	}
}

func TestResolverForHostKeepsPublicTokenFromOtherHosts(testInstance *testing.T) {
	token, found := githubauth.ResolverForHost("attacker.example")(func(name string) (string, bool) {
		if name == githubauth.EnvGitHubCLIToken {
			return "public", true
		}
		return "", false
	})
	require.False(testInstance, found)
	require.Empty(testInstance, token)
}

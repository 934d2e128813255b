package githubapi

import (
	"context"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/oauth2"
)

const (
	acceptHeaderNameConstant      = "Accept"
	acceptHeaderValueConstant     = "application/vnd.github+json"
	apiVersionHeaderNameConstant  = "X-GitHub-Api-Version"
	apiVersionHeaderValueConstant = "2022-11-28"
	userAgentHeaderNameConstant   = "User-Agent"
	userAgentConstant             = "tidal"
)

// headerTransport asserts the media type and API version GitHub requires.
type headerTransport struct {
	base http.RoundTripper
}

func (transport headerTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	clonedRequest := request.Clone(request.Context())
	clonedRequest.Header.Set(acceptHeaderNameConstant, acceptHeaderValueConstant)
	clonedRequest.Header.Set(apiVersionHeaderNameConstant, apiVersionHeaderValueConstant)
	clonedRequest.Header.Set(userAgentHeaderNameConstant, userAgentConstant)
	return transport.base.RoundTrip(clonedRequest)
}

// newAuthenticatedClient returns a client that sends token as a bearer credential.
func newAuthenticatedClient(executionContext context.Context, baseClient *http.Client, token string) *http.Client {
	if baseClient == nil {
		baseClient = cleanhttp.DefaultPooledClient()
	}
	baseTransport := baseClient.Transport
	if baseTransport == nil {
		baseTransport = cleanhttp.DefaultPooledTransport()
	}

	headerClient := *baseClient
	headerClient.Transport = headerTransport{base: baseTransport}

	clientContext := context.WithValue(executionContext, oauth2.HTTPClient, &headerClient)
	return oauth2.NewClient(clientContext, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}

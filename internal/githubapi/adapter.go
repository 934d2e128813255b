package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/google/go-github/v68/github"
	"go.uber.org/zap"

	"github.com/temirov/tidal/internal/credentials"
	"github.com/temirov/tidal/internal/forge"
)

const (
	baseURLTemplateConstant            = "https://%s/"
	headReferenceTemplateConstant      = "%s:%s"
	creatingPullRequestMessageConstant = "Creating pull request"
	createdPullRequestMessageConstant  = "Created pull request"
	rejectedPullRequestMessageConstant = "Pull request rejected"
	logFieldOwnerConstant              = "owner"
	logFieldRepositoryConstant         = "repository"
	logFieldHeadConstant               = "head"
	logFieldBaseConstant               = "base"
	logFieldBaseHostConstant           = "base_host"
	logFieldStatusConstant             = "status"
	logFieldURLConstant                = "url"
	invalidBaseHostTemplateConstant    = "invalid base host %q: %w"
)

// Adapter creates pull requests through the GitHub REST API.
type Adapter struct {
	logger       *zap.Logger
	baseHost     string
	credentials  credentials.Source
	descriptions forge.DescriptionSourceReader
	dependencies forge.AdapterDependencies
}

// NewAdapter constructs a GitHub adapter for the API base host in dependencies.
func NewAdapter(dependencies forge.AdapterDependencies) (*Adapter, error) {
	if validationError := dependencies.Validate(); validationError != nil {
		return nil, validationError
	}
	return &Adapter{
		logger:       dependencies.Logger,
		baseHost:     dependencies.BaseHost,
		credentials:  dependencies.Credentials,
		descriptions: dependencies.Descriptions,
		dependencies: dependencies,
	}, nil
}

// BuildPullRequest assembles the create payload. Exactly one of title and issue is set.
func BuildPullRequest(request forge.Request, body string, headOwner string) *github.NewPullRequest {
	pullRequest := &github.NewPullRequest{
		Head:                github.Ptr(fmt.Sprintf(headReferenceTemplateConstant, headOwner, request.Descriptor.Source.Branch)),
		Base:                github.Ptr(request.Descriptor.Destination.Branch),
		Body:                github.Ptr(body),
		Draft:               github.Ptr(request.Fields.Draft),
		MaintainerCanModify: github.Ptr(request.Fields.MaintainerCanModify),
	}
	if issue, isIssue := request.Fields.Identifier.Issue(); isIssue {
		pullRequest.Issue = github.Ptr(issue)
	} else {
		title, _ := request.Fields.Identifier.Title()
		pullRequest.Title = github.Ptr(title)
	}
	return pullRequest
}

// Run creates the pull request described by request.
// The head reference is qualified by the destination remote owner and the request is
// posted to the source remote repository.
func (adapter *Adapter) Run(executionContext context.Context, request forge.Request) (forge.Outcome, error) {
	body, descriptionError := adapter.descriptions.Read(request.Fields.Description)
	if descriptionError != nil {
		return forge.Outcome{}, descriptionError
	}

	destinationRepository, destinationError := forge.RepositoryCoordinates(request.DestinationPushURL)
	if destinationError != nil {
		return forge.Outcome{}, destinationError
	}
	sourceRepository, sourceError := forge.RepositoryCoordinates(request.SourcePushURL)
	if sourceError != nil {
		return forge.Outcome{}, sourceError
	}

	pullRequest := BuildPullRequest(request, body, destinationRepository.Owner)

	token, tokenError := adapter.credentials.Token(executionContext, adapter.baseHost)
	if tokenError != nil {
		return forge.Outcome{}, forge.RequestError{Kind: forge.ErrNoToken, Value: adapter.baseHost, Cause: tokenError}
	}

	client, clientError := adapter.newClient(executionContext, token)
	if clientError != nil {
		return forge.Outcome{}, clientError
	}

	adapter.logger.Info(
		creatingPullRequestMessageConstant,
		zap.String(logFieldBaseHostConstant, adapter.baseHost),
		zap.String(logFieldOwnerConstant, sourceRepository.Owner),
		zap.String(logFieldRepositoryConstant, sourceRepository.Repository),
		zap.String(logFieldHeadConstant, pullRequest.GetHead()),
		zap.String(logFieldBaseConstant, pullRequest.GetBase()),
	)

	created, response, createError := client.PullRequests.Create(executionContext, sourceRepository.Owner, sourceRepository.Repository, pullRequest)
	if createError != nil {
		return forge.Outcome{}, adapter.mapCreateError(response, createError)
	}

	outcome := forge.Outcome{URL: created.GetURL(), WebURL: created.GetHTMLURL(), Number: created.GetNumber()}
	adapter.logger.Debug(createdPullRequestMessageConstant, zap.String(logFieldURLConstant, outcome.URL))
	return outcome, nil
}

func (adapter *Adapter) newClient(executionContext context.Context, token string) (*github.Client, error) {
	baseURL, parseError := url.Parse(fmt.Sprintf(baseURLTemplateConstant, adapter.baseHost))
	if parseError != nil {
		return nil, forge.TransportError(fmt.Errorf(invalidBaseHostTemplateConstant, adapter.baseHost, parseError))
	}

	client := github.NewClient(newAuthenticatedClient(executionContext, adapter.dependencies.HTTPClient, token))
	client.BaseURL = baseURL
	client.UserAgent = userAgentConstant
	return client, nil
}

func (adapter *Adapter) mapCreateError(response *github.Response, createError error) error {
	if response == nil || response.Response == nil {
		return forge.TransportError(createError)
	}

	body := createError.Error()
	var errorResponse *github.ErrorResponse
	if errors.As(createError, &errorResponse) {
		if encoded, encodeError := json.Marshal(errorResponse); encodeError == nil {
			body = string(encoded)
		}
	}

	adapter.logger.Warn(rejectedPullRequestMessageConstant, zap.Int(logFieldStatusConstant, response.StatusCode))
	return forge.ErrorForStatus(response.StatusCode, body, createError)
}

package gitlabapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	gitlab "gitlab.com/gitlab-org/api/client-go"
	"go.uber.org/zap"

	"github.com/temirov/tidal/internal/credentials"
	"github.com/temirov/tidal/internal/forge"
)

// TokenEnvironmentVariable holds a gitlab.com token when no credential file exists.
const TokenEnvironmentVariable = "GITLAB_TOKEN"

// PublicHost is the host of gitlab.com, the only host TokenEnvironmentVariable is sent to.
const PublicHost = "gitlab.com"

const (
	baseURLTemplateConstant             = "https://%s/"
	issueTitleTemplateConstant          = "Resolve #%d"
	closingReferenceTemplateConstant    = "Closes #%d"
	descriptionSeparatorConstant        = "\n\n"
	draftTitlePrefixConstant            = "Draft: "
	creatingMergeRequestMessageConstant = "Creating merge request"
	createdMergeRequestMessageConstant  = "Created merge request"
	rejectedMergeRequestMessageConstant = "Merge request rejected"
	logFieldProjectConstant             = "project"
	logFieldTargetProjectConstant       = "target_project"
	logFieldSourceBranchConstant        = "source_branch"
	logFieldTargetBranchConstant        = "target_branch"
	logFieldBaseHostConstant            = "base_host"
	logFieldStatusConstant              = "status"
	logFieldURLConstant                 = "url"
)

// ResolveToken reads the GitLab token environment variable.
var ResolveToken = credentials.FirstEnvironmentValue(TokenEnvironmentVariable)

// ResolverForHost serves ResolveToken to gitlab.com only. Self-hosted instances need a credential file.
var ResolverForHost = credentials.ForHosts(ResolveToken, PublicHost)

// Adapter creates merge requests through the GitLab REST API.
type Adapter struct {
	logger       *zap.Logger
	baseHost     string
	credentials  credentials.Source
	descriptions forge.DescriptionSourceReader
	httpClient   *http.Client
}

// NewAdapter constructs a GitLab adapter for the instance at the base host in dependencies.
func NewAdapter(dependencies forge.AdapterDependencies) (*Adapter, error) {
	if validationError := dependencies.Validate(); validationError != nil {
		return nil, validationError
	}
	httpClient := dependencies.HTTPClient
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
	}
	return &Adapter{
		logger:       dependencies.Logger,
		baseHost:     dependencies.BaseHost,
		credentials:  dependencies.Credentials,
		descriptions: dependencies.Descriptions,
		httpClient:   httpClient,
	}, nil
}

// BuildMergeRequestOptions assembles the create payload.
// An issue identifier becomes the title "Resolve #N" and appends a closing reference to the description.
func BuildMergeRequestOptions(request forge.Request, body string) *gitlab.CreateMergeRequestOptions {
	title, _ := request.Fields.Identifier.Title()
	description := body
	if issue, isIssue := request.Fields.Identifier.Issue(); isIssue {
		title = fmt.Sprintf(issueTitleTemplateConstant, issue)
		closingReference := fmt.Sprintf(closingReferenceTemplateConstant, issue)
		if len(description) == 0 {
			description = closingReference
		} else {
			description = description + descriptionSeparatorConstant + closingReference
		}
	}
	if request.Fields.Draft {
		title = draftTitlePrefixConstant + title
	}

	return &gitlab.CreateMergeRequestOptions{
		Title:              gitlab.Ptr(title),
		Description:        gitlab.Ptr(description),
		SourceBranch:       gitlab.Ptr(request.Descriptor.Source.Branch),
		TargetBranch:       gitlab.Ptr(request.Descriptor.Destination.Branch),
		AllowCollaboration: gitlab.Ptr(request.Fields.MaintainerCanModify),
	}
}

// Run creates the merge request in the source remote project.
// When the destination remote names another project the merge request targets that project.
func (adapter *Adapter) Run(executionContext context.Context, request forge.Request) (forge.Outcome, error) {
	body, descriptionError := adapter.descriptions.Read(request.Fields.Description)
	if descriptionError != nil {
		return forge.Outcome{}, descriptionError
	}

	sourceRepository, sourceError := forge.RepositoryCoordinates(request.SourcePushURL)
	if sourceError != nil {
		return forge.Outcome{}, sourceError
	}
	destinationRepository, destinationError := forge.RepositoryCoordinates(request.DestinationPushURL)
	if destinationError != nil {
		return forge.Outcome{}, destinationError
	}
	projectPath := sourceRepository.ProjectPath()
	targetProjectPath := destinationRepository.ProjectPath()

	options := BuildMergeRequestOptions(request, body)

	token, tokenError := adapter.credentials.Token(executionContext, adapter.baseHost)
	if tokenError != nil {
		return forge.Outcome{}, forge.RequestError{Kind: forge.ErrNoToken, Value: adapter.baseHost, Cause: tokenError}
	}

	client, clientError := gitlab.NewClient(
		token,
		gitlab.WithBaseURL(fmt.Sprintf(baseURLTemplateConstant, adapter.baseHost)),
		gitlab.WithHTTPClient(adapter.httpClient),
		gitlab.WithoutRetries(),
	)
	if clientError != nil {
		return forge.Outcome{}, forge.TransportError(clientError)
	}

	if !strings.EqualFold(projectPath, targetProjectPath) {
		targetProject, response, projectError := client.Projects.GetProject(targetProjectPath, nil, gitlab.WithContext(executionContext))
		if projectError != nil {
			return forge.Outcome{}, adapter.mapResponseError(response, projectError)
		}
		options.TargetProjectID = gitlab.Ptr(targetProject.ID)
	}

	adapter.logger.Info(
		creatingMergeRequestMessageConstant,
		zap.String(logFieldBaseHostConstant, adapter.baseHost),
		zap.String(logFieldProjectConstant, projectPath),
		zap.String(logFieldTargetProjectConstant, targetProjectPath),
		zap.String(logFieldSourceBranchConstant, request.Descriptor.Source.Branch),
		zap.String(logFieldTargetBranchConstant, request.Descriptor.Destination.Branch),
	)

	mergeRequest, response, createError := client.MergeRequests.CreateMergeRequest(projectPath, options, gitlab.WithContext(executionContext))
	if createError != nil {
		return forge.Outcome{}, adapter.mapResponseError(response, createError)
	}

	outcome := forge.Outcome{URL: mergeRequest.WebURL, WebURL: mergeRequest.WebURL, Number: int(mergeRequest.IID)}
	adapter.logger.Debug(createdMergeRequestMessageConstant, zap.String(logFieldURLConstant, outcome.WebURL))
	return outcome, nil
}

func (adapter *Adapter) mapResponseError(response *gitlab.Response, responseError error) error {
	if response == nil || response.Response == nil {
		return forge.TransportError(responseError)
	}

	body := responseError.Error()
	var errorResponse *gitlab.ErrorResponse
	if errors.As(responseError, &errorResponse) && len(errorResponse.Body) > 0 {
		body = string(errorResponse.Body)
	}

	adapter.logger.Warn(rejectedMergeRequestMessageConstant, zap.Int(logFieldStatusConstant, response.StatusCode))
	return forge.ErrorForStatus(response.StatusCode, body, responseError)
}

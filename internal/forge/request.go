package forge

import (
	"context"
	"fmt"

	"github.com/temirov/tidal/internal/descriptor"
	"github.com/temirov/tidal/internal/gitrepo"
)

const (
	issueReferenceTemplateConstant = "#%d"
)

// Identifier names the request by a free-text title or a linked issue number, never both.
type Identifier struct {
	title   string
	issue   int
	isIssue bool
}

// TitleIdentifier identifies the request by title.
func TitleIdentifier(title string) Identifier {
	return Identifier{title: title}
}

// IssueIdentifier identifies the request by a linked issue.
func IssueIdentifier(issue int) Identifier {
	return Identifier{issue: issue, isIssue: true}
}

// Title returns the title when the identifier is a title.
func (identifier Identifier) Title() (string, bool) {
	return identifier.title, !identifier.isIssue
}

// Issue returns the issue number when the identifier is an issue.
func (identifier Identifier) Issue() (int, bool) {
	return identifier.issue, identifier.isIssue
}

// String renders the title or #issue.
func (identifier Identifier) String() string {
	if identifier.isIssue {
		return fmt.Sprintf(issueReferenceTemplateConstant, identifier.issue)
	}
	return identifier.title
}

// Fields carries the provider-facing attributes of a request.
type Fields struct {
	Identifier          Identifier
	Description         DescriptionSource
	Draft               bool
	MaintainerCanModify bool
	Open                bool
}

// Request is a validated descriptor together with the push URLs of its remotes and the request fields.
type Request struct {
	Descriptor         descriptor.Descriptor
	SourcePushURL      string
	DestinationPushURL string
	Fields             Fields
}

// Outcome describes a created request.
type Outcome struct {
	URL    string
	WebURL string
	Number int
}

// BrowserURL returns the web URL, falling back to the API URL.
func (outcome Outcome) BrowserURL() string {
	if len(outcome.WebURL) > 0 {
		return outcome.WebURL
	}
	return outcome.URL
}

// Adapter creates a merge request on one provider.
type Adapter interface {
	Run(executionContext context.Context, request Request) (Outcome, error)
}

// RepositoryCoordinates parses a push URL and requires owner and repository segments.
func RepositoryCoordinates(pushURL string) (gitrepo.RemoteURL, error) {
	remoteURL, parseError := gitrepo.ParseRemoteURL(pushURL)
	if parseError != nil {
		return gitrepo.RemoteURL{}, RequestError{Kind: ErrRepositoryPath, Value: pushURL, Cause: parseError}
	}
	if !remoteURL.HasRepositoryCoordinates() {
		return gitrepo.RemoteURL{}, RequestError{Kind: ErrRepositoryPath, Value: pushURL}
	}
	return remoteURL, nil
}

package gitrepo

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	schemeDelimiterConstant             = "://"
	scpUserDelimiterConstant            = "@"
	scpPathDelimiterConstant            = ":"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	sshPlusGitSchemeConstant            = "git+ssh"
	sshPlusGitReversedSchemeConstant    = "ssh+git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	requiredValueMessageConstant        = "value required"
	invalidRemoteURLMessageConstant     = "invalid remote url"
)

// RemoteProtocol enumerates git remote transport protocols.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
	RemoteProtocolHTTP  RemoteProtocol = RemoteProtocol("http")
	RemoteProtocolGit   RemoteProtocol = RemoteProtocol("git")
	RemoteProtocolFile  RemoteProtocol = RemoteProtocol("file")
)

// RemoteURL represents a structured git remote URL.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Path       string
	Owner      string
	Repository string
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// HasRepositoryCoordinates reports whether the URL path names both an owner and a repository.
func (remoteURL RemoteURL) HasRepositoryCoordinates() bool {
	return len(remoteURL.Owner) > 0 && len(remoteURL.Repository) > 0
}

// ProjectPath returns the full repository path without the .git suffix.
func (remoteURL RemoteURL) ProjectPath() string {
	return strings.TrimSuffix(remoteURL.Path, gitSuffixConstant)
}

// ParseRemoteURL converts a textual remote URL into a structured representation.
// URL forms, scp-like ssh addresses, and local paths are recognized; local paths
// produce an empty Host.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	if strings.Contains(trimmedRemote, schemeDelimiterConstant) {
		return parseSchemeRemote(trimmedRemote)
	}

	colonIndex := strings.Index(trimmedRemote, scpPathDelimiterConstant)
	slashIndex := strings.Index(trimmedRemote, pathSeparatorConstant)
	if colonIndex > 0 && (slashIndex == -1 || colonIndex < slashIndex) {
		return parseSCPRemote(trimmedRemote, colonIndex)
	}

	return withRepositoryCoordinates(RemoteURL{Protocol: RemoteProtocolFile, Path: strings.Trim(trimmedRemote, pathSeparatorConstant)}), nil
}

func parseSchemeRemote(remote string) (RemoteURL, error) {
	parsedURL, parseError := url.Parse(remote)
	if parseError != nil {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	protocol := RemoteProtocol(strings.ToLower(parsedURL.Scheme))
	switch string(protocol) {
	case sshPlusGitSchemeConstant, sshPlusGitReversedSchemeConstant:
		protocol = RemoteProtocolSSH
	}

	host := parsedURL.Hostname()
	if protocol != RemoteProtocolFile && len(host) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	return withRepositoryCoordinates(RemoteURL{
		Protocol: protocol,
		Host:     host,
		Path:     strings.Trim(parsedURL.Path, pathSeparatorConstant),
	}), nil
}

func parseSCPRemote(remote string, colonIndex int) (RemoteURL, error) {
	hostPart := remote[:colonIndex]
	if userIndex := strings.LastIndex(hostPart, scpUserDelimiterConstant); userIndex != -1 {
		hostPart = hostPart[userIndex+1:]
	}
	if len(hostPart) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	return withRepositoryCoordinates(RemoteURL{
		Protocol: RemoteProtocolSSH,
		Host:     hostPart,
		Path:     strings.Trim(remote[colonIndex+1:], pathSeparatorConstant),
	}), nil
}

// withRepositoryCoordinates fills Owner and Repository from the last two path components.
func withRepositoryCoordinates(remoteURL RemoteURL) RemoteURL {
	segments := make([]string, 0)
	for _, segment := range strings.Split(remoteURL.Path, pathSeparatorConstant) {
		if len(segment) > 0 {
			segments = append(segments, segment)
		}
	}

	if len(segments) > 0 {
		remoteURL.Repository = strings.TrimSuffix(segments[len(segments)-1], gitSuffixConstant)
	}
	if len(segments) > 1 {
		remoteURL.Owner = segments[len(segments)-2]
	}
	return remoteURL
}

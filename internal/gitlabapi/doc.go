// Package gitlabapi creates GitLab merge requests through the GitLab client library.
package gitlabapi

// Package pullrequest orchestrates one pull or merge request creation: it
// inspects the repository, detects the provider, resolves and validates the
// source and destination references and hands the result to the provider
// adapter. It also builds the cobra commands that expose the pipeline.
package pullrequest

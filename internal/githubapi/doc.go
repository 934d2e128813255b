// Package githubapi creates GitHub pull requests through go-github.
package githubapi

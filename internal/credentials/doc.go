// Package credentials retrieves provider tokens.
//
// FileStore decrypts <config-dir>/creds/<host>.gpg with gpg. EnvironmentFallback
// consults token environment variables only when no credential file exists.
// Tokens are never logged.
package credentials

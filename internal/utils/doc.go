// Package utils hosts the CLI plumbing shared by tidal commands: the Viper
// backed ConfigurationLoader, the zap LoggerFactory and the accessor for
// values carried on command contexts.
package utils

package pullrequest

import "strings"

const (
	configurationOpenKeyConstant           = "open"
	configurationDraftKeyConstant          = "draft"
	configurationDescribeFormatKeyConstant = "describe_format"
)

// CommandConfiguration captures persisted defaults for the pull request commands.
type CommandConfiguration struct {
	Open           bool   `mapstructure:"open"`
	Draft          bool   `mapstructure:"draft"`
	DescribeFormat string `mapstructure:"describe_format"`
}

// DefaultCommandConfiguration provides baseline configuration values.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Open:           false,
		Draft:          false,
		DescribeFormat: string(PlanFormatYAML),
	}
}

// DefaultConfigurationValues produces Viper defaults rooted at rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationOpenKeyConstant:           defaults.Open,
		rootKey + "." + configurationDraftKeyConstant:          defaults.Draft,
		rootKey + "." + configurationDescribeFormatKeyConstant: defaults.DescribeFormat,
	}
}

// Sanitize normalizes configuration values, restoring the default describe format when none is set.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.DescribeFormat = strings.ToLower(strings.TrimSpace(configuration.DescribeFormat))
	if len(sanitized.DescribeFormat) == 0 {
		sanitized.DescribeFormat = string(PlanFormatYAML)
	}
	return sanitized
}

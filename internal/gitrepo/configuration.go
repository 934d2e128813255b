package gitrepo

import (
	"strings"
)

const (
	configurationRecordSeparatorConstant = "\x00"
	configurationValueSeparatorConstant  = "\n"
	configurationKeySeparatorConstant    = "."
)

// Configuration is a read-only view of the merged git configuration.
// Section and key names are case-insensitive; subsection names are not.
type Configuration struct {
	entries map[string][]string
}

// NewConfiguration builds a configuration from full key names to single values.
func NewConfiguration(values map[string]string) Configuration {
	configuration := Configuration{entries: make(map[string][]string, len(values))}
	for fullKey, value := range values {
		configuration.add(fullKey, value)
	}
	return configuration
}

// ParseConfigurationList parses the output of `git config --list -z`.
func ParseConfigurationList(output string) Configuration {
	configuration := Configuration{entries: make(map[string][]string)}
	for _, record := range strings.Split(output, configurationRecordSeparatorConstant) {
		if len(strings.TrimSpace(record)) == 0 {
			continue
		}
		fullKey, value, _ := strings.Cut(record, configurationValueSeparatorConstant)
		configuration.add(fullKey, value)
	}
	return configuration
}

// Lookup returns the last value recorded for the key, mirroring git's last-one-wins rule.
func (configuration Configuration) Lookup(section string, subsection string, key string) (string, bool) {
	values := configuration.Values(section, subsection, key)
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

// Values returns every value recorded for a multi-valued key in file order.
func (configuration Configuration) Values(section string, subsection string, key string) []string {
	if configuration.entries == nil {
		return nil
	}
	values := configuration.entries[canonicalConfigurationKey(section, subsection, key)]
	return append([]string(nil), values...)
}

func (configuration *Configuration) add(fullKey string, value string) {
	trimmedKey := strings.TrimSpace(fullKey)
	firstSeparator := strings.Index(trimmedKey, configurationKeySeparatorConstant)
	lastSeparator := strings.LastIndex(trimmedKey, configurationKeySeparatorConstant)
	if firstSeparator <= 0 || lastSeparator == len(trimmedKey)-1 {
		return
	}

	section := trimmedKey[:firstSeparator]
	key := trimmedKey[lastSeparator+1:]
	subsection := ""
	if lastSeparator > firstSeparator {
		subsection = trimmedKey[firstSeparator+1 : lastSeparator]
	}

	canonicalKey := canonicalConfigurationKey(section, subsection, key)
	configuration.entries[canonicalKey] = append(configuration.entries[canonicalKey], value)
}

func canonicalConfigurationKey(section string, subsection string, key string) string {
	if len(subsection) == 0 {
		return strings.ToLower(section) + configurationKeySeparatorConstant + strings.ToLower(key)
	}
	return strings.ToLower(section) + configurationKeySeparatorConstant + subsection + configurationKeySeparatorConstant + strings.ToLower(key)
}

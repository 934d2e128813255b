package provider

// Kind enumerates supported provider kinds.
type Kind string

// Supported provider kinds.
const (
	KindGitHub Kind = Kind("github")
	KindGitLab Kind = Kind("gitlab")
)

// Kinds lists every supported provider kind.
func Kinds() []Kind {
	return []Kind{KindGitHub, KindGitLab}
}

// ParseKind converts a configured driver name into a Kind.
func ParseKind(name string) (Kind, error) {
	for _, kind := range Kinds() {
		if string(kind) == name {
			return kind, nil
		}
	}
	return "", DetectionError{Kind: ErrUnknownDriver, Value: name}
}

// Selection is the provider chosen for a repository.
type Selection struct {
	Kind     Kind   `json:"kind" yaml:"kind"`
	BaseHost string `json:"base_host" yaml:"base_host"`
	Host     string `json:"host" yaml:"host"`
}

type wellKnownProvider struct {
	kind     Kind
	baseHost string
}

var wellKnownProviders = map[string]wellKnownProvider{
	"github.com": {kind: KindGitHub, baseHost: "api.github.com"},
	"gitlab.com": {kind: KindGitLab, baseHost: "gitlab.com"},
}

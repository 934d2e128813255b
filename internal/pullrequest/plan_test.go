package pullrequest

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/tidal/internal/provider"
)

func samplePlan() Plan {
	return Plan{
		Provider: provider.Selection{Kind: provider.KindGitLab, BaseHost: "gitlab.example.com", Host: "gitlab.example.com"},
		Source: PlanReference{
			Branch:  PlanValue{Value: "feature", Origin: "default"},
			Remote:  PlanValue{Value: "fork", Origin: "flag"},
			PushURL: "git@gitlab.example.com:contributor/widgets.git",
		},
		Destination: PlanReference{
			Branch:  PlanValue{Value: "main", Origin: "repository configuration"},
			Remote:  PlanValue{Value: "origin", Origin: "default"},
			PushURL: "git@gitlab.example.com:group/widgets.git",
		},
	}
}

func TestRenderPlanYAML(testInstance *testing.T) {
	var output bytes.Buffer
	require.NoError(testInstance, RenderPlan(&output, samplePlan(), PlanFormatYAML))

	expected := `provider:
  kind: gitlab
  base_host: gitlab.example.com
  host: gitlab.example.com
source:
  branch:
    value: feature
    origin: default
  remote:
    value: fork
    origin: flag
  push_url: git@gitlab.example.com:contributor/widgets.git
destination:
  branch:
    value: main
    origin: repository configuration
  remote:
    value: origin
    origin: default
  push_url: git@gitlab.example.com:group/widgets.git
`
	require.Equal(testInstance, expected, output.String())

	var decoded Plan
	require.NoError(testInstance, yaml.Unmarshal(output.Bytes(), &decoded))
	require.Equal(testInstance, samplePlan(), decoded)
}

func TestRenderPlanJSON(testInstance *testing.T) {
	var output bytes.Buffer
	require.NoError(testInstance, RenderPlan(&output, samplePlan(), PlanFormatJSON))

	var decoded map[string]any
	require.NoError(testInstance, json.Unmarshal(output.Bytes(), &decoded))

	providerSection, isMap := decoded["provider"].(map[string]any)
	require.True(testInstance, isMap)
	require.Equal(testInstance, "gitlab", providerSection["kind"])
	require.Equal(testInstance, "gitlab.example.com", providerSection["base_host"])

	sourceSection, isMap := decoded["source"].(map[string]any)
	require.True(testInstance, isMap)
	require.Equal(testInstance, "git@gitlab.example.com:contributor/widgets.git", sourceSection["push_url"])
	require.Equal(testInstance, map[string]any{"value": "fork", "origin": "flag"}, sourceSection["remote"])
}

func TestRenderPlanRejectsUnknownFormat(testInstance *testing.T) {
	var output bytes.Buffer
	require.Error(testInstance, RenderPlan(&output, samplePlan(), PlanFormat("toml")))
	require.Empty(testInstance, output.String())
}

package pullrequest

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/temirov/tidal/internal/provider"
	"github.com/temirov/tidal/internal/settings"
)

const (
	planIndentWidthConstant           = 2
	planJSONIndentConstant            = "  "
	unsupportedPlanFormatTemplate     = "unsupported plan format %q"
	planEncodingErrorTemplateConstant = "unable to render plan: %w"
)

// PlanFormat selects the describe output encoding.
type PlanFormat string

// Supported plan formats.
const (
	PlanFormatYAML PlanFormat = PlanFormat("yaml")
	PlanFormatJSON PlanFormat = PlanFormat("json")
)

// PlanFormatNames lists the accepted plan format names.
func PlanFormatNames() []string {
	return []string{string(PlanFormatYAML), string(PlanFormatJSON)}
}

// PlanValue is a resolved value together with the tier it came from.
type PlanValue struct {
	Value  string `json:"value" yaml:"value"`
	Origin string `json:"origin" yaml:"origin"`
}

// PlanReference describes one side of the request.
type PlanReference struct {
	Branch  PlanValue `json:"branch" yaml:"branch"`
	Remote  PlanValue `json:"remote" yaml:"remote"`
	PushURL string    `json:"push_url" yaml:"push_url"`
}

// Plan is the validated request a Create call would send, without the request fields.
type Plan struct {
	Provider    provider.Selection `json:"provider" yaml:"provider"`
	Source      PlanReference      `json:"source" yaml:"source"`
	Destination PlanReference      `json:"destination" yaml:"destination"`
}

func newPlan(prepared preparedRequest) Plan {
	sourceRemote, _ := prepared.snapshot.Remote(prepared.resolution.SourceRemote.Value)
	destinationRemote, _ := prepared.snapshot.Remote(prepared.resolution.DestinationRemote.Value)

	return Plan{
		Provider: prepared.selection,
		Source: PlanReference{
			Branch:  newPlanValue(prepared.resolution.SourceBranch),
			Remote:  newPlanValue(prepared.resolution.SourceRemote),
			PushURL: sourceRemote.PushURL,
		},
		Destination: PlanReference{
			Branch:  newPlanValue(prepared.resolution.DestinationBranch),
			Remote:  newPlanValue(prepared.resolution.DestinationRemote),
			PushURL: destinationRemote.PushURL,
		},
	}
}

func newPlanValue(resolvedValue settings.ResolvedValue) PlanValue {
	return PlanValue{Value: resolvedValue.Value, Origin: string(resolvedValue.Source)}
}

// RenderPlan writes plan to writer in the requested format.
func RenderPlan(writer io.Writer, plan Plan, format PlanFormat) error {
	switch format {
	case PlanFormatYAML:
		encoder := yaml.NewEncoder(writer)
		encoder.SetIndent(planIndentWidthConstant)
		if encodeError := encoder.Encode(plan); encodeError != nil {
			return fmt.Errorf(planEncodingErrorTemplateConstant, encodeError)
		}
		return encoder.Close()
	case PlanFormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", planJSONIndentConstant)
		if encodeError := encoder.Encode(plan); encodeError != nil {
			return fmt.Errorf(planEncodingErrorTemplateConstant, encodeError)
		}
		return nil
	default:
		return fmt.Errorf(unsupportedPlanFormatTemplate, format)
	}
}

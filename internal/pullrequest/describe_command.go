package pullrequest

import (
	"github.com/spf13/cobra"

	flagutils "github.com/temirov/tidal/internal/utils/flags"
)

const (
	describeCommandUseNameConstant          = "describe"
	describeCommandShortDescriptionConstant = "Show the provider and references a request would use"
	describeCommandLongDescriptionConstant  = "describe runs provider detection, reference resolution and validation exactly like request creation, then prints the resolved plan and where each value came from without contacting the provider."
	describeCommandExampleConstant          = "tidal describe\ntidal describe --to-remote upstream --format json"
	formatFlagNameConstant                  = "format"
	formatFlagUsageConstant                 = "Output format."
	formatFlagLabelConstant                 = "format"
)

// DescribeCommandBuilder assembles the describe command.
type DescribeCommandBuilder struct {
	CommandDependencies
}

// Build constructs the describe command. Reference flags are inherited from the parent command.
func (builder *DescribeCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     describeCommandUseNameConstant,
		Short:   describeCommandShortDescriptionConstant,
		Long:    describeCommandLongDescriptionConstant,
		Args:    cobra.NoArgs,
		RunE:    builder.run,
		Example: describeCommandExampleConstant,
	}

	defaultFormat := string(PlanFormatYAML)
	command.Flags().String(formatFlagNameConstant, "", flagutils.FormatChoiceUsage(defaultFormat, PlanFormatNames(), formatFlagUsageConstant))

	return command, nil
}

func (builder *DescribeCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	logger := builder.resolveLogger()

	requestedFormat := configuration.DescribeFormat
	if command.Flags().Changed(formatFlagNameConstant) {
		requestedFormat, _ = command.Flags().GetString(formatFlagNameConstant)
	}
	format, formatError := flagutils.ParseChoice(formatFlagLabelConstant, requestedFormat, PlanFormatNames())
	if formatError != nil {
		return formatError
	}

	service, serviceError := builder.newService(command, logger)
	if serviceError != nil {
		return serviceError
	}

	plan, describeError := service.Describe(command.Context(), Options{
		WorkingDirectory: builder.resolveWorkingDirectory(command),
		Overrides:        flagutils.ReferenceOverrides(command),
	})
	if describeError != nil {
		return describeError
	}

	return RenderPlan(command.OutOrStdout(), plan, PlanFormat(format))
}

package pullrequest

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/tidal/internal/forge"
	flagutils "github.com/temirov/tidal/internal/utils/flags"
	pathutils "github.com/temirov/tidal/internal/utils/path"
)

const (
	commandUseNameConstant          = "tidal"
	commandShortDescriptionConstant = "Open a pull or merge request for the current branch"
	commandLongDescriptionConstant  = "tidal detects the code hosting provider from the repository remotes, resolves the source and destination branches from flags, TIDAL_* environment variables, tidal.* git configuration and git defaults, validates them against the local repository and creates the pull request (GitHub) or merge request (GitLab)."
	commandExampleConstant          = "tidal --title \"Add retry budget\" --description @notes/pr.md --draft\ntidal --issue 42 --to-branch release --open\ngit log -1 --format=%b | tidal -t \"Fix flaky test\" -d -"

	titleFlagNameConstant            = "title"
	titleFlagShorthandConstant       = "t"
	titleFlagUsageConstant           = "Title of the request"
	issueFlagNameConstant            = "issue"
	issueFlagShorthandConstant       = "i"
	issueFlagUsageConstant           = "Issue number the request resolves, used instead of a title"
	descriptionFlagNameConstant      = "description"
	descriptionFlagShorthandConstant = "d"
	descriptionFlagUsageConstant     = "Request body: inline text, @path to read a file, or - to read standard input"
	openFlagNameConstant             = "open"
	openFlagShorthandConstant        = "o"
	openFlagUsageConstant            = "Open the created request in a browser"
	draftFlagNameConstant            = "draft"
	draftFlagShorthandConstant       = "D"
	draftFlagUsageConstant           = "Create the request as a draft"
	fixupFlagNameConstant            = "fixup"
	fixupFlagShorthandConstant       = "f"
	fixupFlagUsageConstant           = "Allow maintainers of the destination repository to push to the source branch"
	emptyTitleMessageConstant        = "title must not be empty"
	nonPositiveIssueMessageConstant  = "issue number must be positive"
)

var (
	// ErrEmptyTitle indicates a blank --title value.
	ErrEmptyTitle = errors.New(emptyTitleMessageConstant)
	// ErrNonPositiveIssue indicates an --issue value below one.
	ErrNonPositiveIssue = errors.New(nonPositiveIssueMessageConstant)
)

// CommandBuilder assembles the command that creates a request.
type CommandBuilder struct {
	CommandDependencies
	HomeExpander *pathutils.HomeExpander
}

// Build constructs the create command with its request flags and the persistent reference flags.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseNameConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Args:    cobra.NoArgs,
		RunE:    builder.run,
		Example: commandExampleConstant,
	}

	flagSet := command.Flags()
	flagSet.StringP(titleFlagNameConstant, titleFlagShorthandConstant, "", titleFlagUsageConstant)
	flagSet.IntP(issueFlagNameConstant, issueFlagShorthandConstant, 0, issueFlagUsageConstant)
	flagSet.StringP(descriptionFlagNameConstant, descriptionFlagShorthandConstant, "", descriptionFlagUsageConstant)
	flagSet.BoolP(openFlagNameConstant, openFlagShorthandConstant, false, openFlagUsageConstant)
	flagSet.BoolP(draftFlagNameConstant, draftFlagShorthandConstant, false, draftFlagUsageConstant)
	flagSet.BoolP(fixupFlagNameConstant, fixupFlagShorthandConstant, false, fixupFlagUsageConstant)
	command.MarkFlagsOneRequired(titleFlagNameConstant, issueFlagNameConstant)
	command.MarkFlagsMutuallyExclusive(titleFlagNameConstant, issueFlagNameConstant)

	flagutils.BindReferenceFlags(command)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	logger := builder.resolveLogger()

	fields, fieldsError := builder.resolveFields(command, configuration)
	if fieldsError != nil {
		return fieldsError
	}

	service, serviceError := builder.newService(command, logger)
	if serviceError != nil {
		return serviceError
	}

	_, createError := service.Create(command.Context(), Options{
		WorkingDirectory: builder.resolveWorkingDirectory(command),
		Overrides:        flagutils.ReferenceOverrides(command),
		Fields:           fields,
	})
	return createError
}

func (builder *CommandBuilder) resolveFields(command *cobra.Command, configuration CommandConfiguration) (forge.Fields, error) {
	flagSet := command.Flags()
	fields := forge.Fields{
		Open:  configuration.Open,
		Draft: configuration.Draft,
	}

	if flagSet.Changed(issueFlagNameConstant) {
		issue, _ := flagSet.GetInt(issueFlagNameConstant)
		if issue <= 0 {
			return forge.Fields{}, ErrNonPositiveIssue
		}
		fields.Identifier = forge.IssueIdentifier(issue)
	} else {
		title, _ := flagSet.GetString(titleFlagNameConstant)
		if len(strings.TrimSpace(title)) == 0 {
			return forge.Fields{}, ErrEmptyTitle
		}
		fields.Identifier = forge.TitleIdentifier(title)
	}

	if flagSet.Changed(descriptionFlagNameConstant) {
		rawDescription, _ := flagSet.GetString(descriptionFlagNameConstant)
		fields.Description = forge.ParseDescriptionSource(rawDescription)
		if fields.Description.Kind == forge.DescriptionFile {
			fields.Description.Value = builder.resolveHomeExpander().Expand(fields.Description.Value)
		}
	}

	if flagSet.Changed(openFlagNameConstant) {
		fields.Open, _ = flagSet.GetBool(openFlagNameConstant)
	}
	if flagSet.Changed(draftFlagNameConstant) {
		fields.Draft, _ = flagSet.GetBool(draftFlagNameConstant)
	}
	fields.MaintainerCanModify, _ = flagSet.GetBool(fixupFlagNameConstant)

	return fields, nil
}

func (builder *CommandBuilder) resolveHomeExpander() *pathutils.HomeExpander {
	if builder.HomeExpander == nil {
		return pathutils.NewHomeExpander(nil)
	}
	return builder.HomeExpander
}

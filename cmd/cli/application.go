package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/tidal/internal/pullrequest"
	"github.com/temirov/tidal/internal/utils"
	flagutils "github.com/temirov/tidal/internal/utils/flags"
	pathutils "github.com/temirov/tidal/internal/utils/path"
)

const (
	applicationNameConstant                    = "tidal"
	configFileFlagNameConstant                 = "config"
	configFileFlagUsageConstant                = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                   = "log-level"
	logLevelFlagUsageConstant                  = "Override the configured log level."
	logLevelFlagLabelConstant                  = "log level"
	logFormatFlagNameConstant                  = "log-format"
	logFormatFlagUsageConstant                 = "Override the configured log format."
	logFormatFlagLabelConstant                 = "log format"
	commonConfigurationKeyConstant             = "common"
	commonLogLevelConfigKeyConstant            = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant           = commonConfigurationKeyConstant + ".log_format"
	pullRequestConfigurationKeyConstant        = "pullrequest"
	environmentPrefixConstant                  = "TIDAL"
	configurationNameConstant                  = "config"
	configurationTypeConstant                  = "yaml"
	configurationSearchPathEnvironmentConstant = "TIDAL_CONFIG_SEARCH_PATH"
	configurationInitializedMessageConstant    = "configuration initialized"
	configurationLogLevelFieldConstant         = "log_level"
	configurationLogFormatFieldConstant        = "log_format"
	configurationFileFieldConstant             = "config_file"
	workingDirectoryFieldConstant              = "working_directory"
	configurationLoadErrorTemplateConstant     = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant        = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant            = "unable to flush logger: %w"
	workingDirectoryErrorTemplateConstant      = "unable to determine working directory: %w"
	commandBuildErrorTemplateConstant          = "unable to build %s command: %w"
	versionTemplateConstant                    = "tidal version: {{.Version}}\n"
	defaultConfigurationSearchPathConstant     = "."
	describeCommandNameConstant                = "describe"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common      ApplicationCommonConfiguration   `mapstructure:"common"`
	PullRequest pullrequest.CommandConfiguration `mapstructure:"pullrequest"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
	versionResolver        func() string
	workingDirectoryLookup func() (string, error)
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	application, buildError := newApplication(pullrequest.CommandDependencies{}, utils.NewLoggerFactory())
	if buildError != nil {
		panic(buildError)
	}
	return application
}

func newApplication(dependencies pullrequest.CommandDependencies, loggerFactory *utils.LoggerFactory) (*Application, error) {
	homeExpander := pathutils.NewHomeExpander(nil)

	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)
	configurationLoader.SetHomeExpander(homeExpander)
	if dependencies.FileSystem != nil {
		configurationLoader.SetFileSystem(dependencies.FileSystem)
	}
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration, embeddedConfigurationType)

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          loggerFactory,
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		versionResolver:        resolveApplicationVersion,
		workingDirectoryLookup: os.Getwd,
	}

	dependencies.LoggerProvider = func() *zap.Logger {
		return application.logger
	}
	dependencies.HumanReadableLoggingProvider = application.humanReadableLoggingEnabled
	dependencies.ConfigurationProvider = func() pullrequest.CommandConfiguration {
		return application.configuration.PullRequest
	}

	createBuilder := pullrequest.CommandBuilder{CommandDependencies: dependencies, HomeExpander: homeExpander}
	rootCommand, rootBuildError := createBuilder.Build()
	if rootBuildError != nil {
		return nil, fmt.Errorf(commandBuildErrorTemplateConstant, applicationNameConstant, rootBuildError)
	}

	rootCommand.Use = applicationNameConstant
	rootCommand.SilenceUsage = true
	rootCommand.SilenceErrors = true
	rootCommand.Version = application.versionResolver()
	rootCommand.SetVersionTemplate(versionTemplateConstant)
	rootCommand.PersistentPreRunE = func(command *cobra.Command, arguments []string) error {
		return application.initializeConfiguration(command)
	}
	rootCommand.SetContext(context.Background())

	persistentFlags := rootCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.StringVar(
		&application.logLevelFlagValue,
		logLevelFlagNameConstant,
		"",
		flagutils.FormatChoiceUsage(string(utils.LogLevelWarn), utils.LogLevelNames(), logLevelFlagUsageConstant),
	)
	persistentFlags.StringVar(
		&application.logFormatFlagValue,
		logFormatFlagNameConstant,
		"",
		flagutils.FormatChoiceUsage(string(utils.LogFormatConsole), utils.LogFormatNames(), logFormatFlagUsageConstant),
	)

	describeBuilder := pullrequest.DescribeCommandBuilder{CommandDependencies: dependencies}
	describeCommand, describeBuildError := describeBuilder.Build()
	if describeBuildError != nil {
		return nil, fmt.Errorf(commandBuildErrorTemplateConstant, describeCommandNameConstant, describeBuildError)
	}
	rootCommand.AddCommand(describeCommand)

	application.rootCommand = rootCommand

	return application, nil
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func configurationSearchPaths() []string {
	if overridePath := strings.TrimSpace(os.Getenv(configurationSearchPathEnvironmentConstant)); len(overridePath) > 0 {
		return filepath.SplitList(overridePath)
	}

	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userDirectory, userDirectoryError := utils.UserConfigurationDirectory(applicationNameConstant); userDirectoryError == nil {
		searchPaths = append(searchPaths, userDirectory)
	}
	return searchPaths
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelWarn),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}
	for configurationKey, configurationValue := range pullrequest.DefaultConfigurationValues(pullRequestConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logLevel, logLevelError := flagutils.ParseChoice(logLevelFlagLabelConstant, application.configuration.Common.LogLevel, utils.LogLevelNames())
	if logLevelError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, logLevelError)
	}
	logFormat, logFormatError := flagutils.ParseChoice(logFormatFlagLabelConstant, application.configuration.Common.LogFormat, utils.LogFormatNames())
	if logFormatError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, logFormatError)
	}
	application.configuration.Common.LogLevel = logLevel
	application.configuration.Common.LogFormat = logFormat

	logger, loggerCreationError := application.loggerFactory.CreateLogger(utils.LogLevel(logLevel), utils.LogFormat(logFormat))
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	workingDirectory, workingDirectoryError := application.workingDirectoryLookup()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
	}

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, logLevel),
		zap.String(configurationLogFormatFieldConstant, logFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(workingDirectoryFieldConstant, workingDirectory),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		updatedContext = application.commandContextAccessor.WithWorkingDirectory(updatedContext, workingDirectory)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

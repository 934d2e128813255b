package utils_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/temirov/tidal/internal/utils"
)

const (
	testLoggerFactoryCaseSupportedFormatConstant   = "supported_log_level_%s_format_%s"
	testLoggerFactoryCaseUnsupportedLevelConstant  = "unsupported_log_level"
	testLoggerFactoryCaseUnsupportedFormatConstant = "unsupported_log_format"
	testLoggerFactorySubtestTemplateConstant       = "%d_%s"
	testInvalidLogLevelConstant                    = "invalid"
	testInvalidLogFormatConstant                   = "invalid"
	testLogMessageConstant                         = "logger_factory_test_message"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name                string
		requestedLogLevel   utils.LogLevel
		requestedLogFormat  utils.LogFormat
		expectError         bool
		expectStructuredLog bool
	}{
		{
			name:                fmt.Sprintf(testLoggerFactoryCaseSupportedFormatConstant, utils.LogLevelDebug, utils.LogFormatStructured),
			requestedLogLevel:   utils.LogLevelDebug,
			requestedLogFormat:  utils.LogFormatStructured,
			expectStructuredLog: true,
		},
		{
			name:                fmt.Sprintf(testLoggerFactoryCaseSupportedFormatConstant, utils.LogLevelInfo, utils.LogFormatConsole),
			requestedLogLevel:   utils.LogLevelInfo,
			requestedLogFormat:  utils.LogFormatConsole,
			expectStructuredLog: false,
		},
		{
			name:               testLoggerFactoryCaseUnsupportedLevelConstant,
			requestedLogLevel:  utils.LogLevel(testInvalidLogLevelConstant),
			requestedLogFormat: utils.LogFormatStructured,
			expectError:        true,
		},
		{
			name:               testLoggerFactoryCaseUnsupportedFormatConstant,
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormat(testInvalidLogFormatConstant),
			expectError:        true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testLoggerFactorySubtestTemplateConstant, testCaseIndex, testCase.name), func(subtest *testing.T) {
			var output bytes.Buffer
			loggerFactory := utils.NewLoggerFactoryWithOutput(&output)

			logger, creationError := loggerFactory.CreateLogger(testCase.requestedLogLevel, testCase.requestedLogFormat)
			if testCase.expectError {
				require.Error(subtest, creationError)
				require.Nil(subtest, logger)
				return
			}

			require.NoError(subtest, creationError)
			require.NotNil(subtest, logger)

			logger.Info(testLogMessageConstant)
			require.NoError(subtest, logger.Sync())

			trimmedOutput := bytes.TrimSpace(output.Bytes())
			require.Contains(subtest, string(trimmedOutput), testLogMessageConstant)
			require.Equal(subtest, testCase.expectStructuredLog, json.Valid(trimmedOutput))
		})
	}
}

func TestLoggerFactoryHonorsLevel(testInstance *testing.T) {
	var output bytes.Buffer
	logger, creationError := utils.NewLoggerFactoryWithOutput(&output).CreateLogger(utils.LogLevelWarn, utils.LogFormatConsole)
	require.NoError(testInstance, creationError)

	logger.Info("hidden")
	logger.Warn("visible")

	require.NotContains(testInstance, output.String(), "hidden")
	require.Contains(testInstance, output.String(), "WARN")
	require.Contains(testInstance, output.String(), "visible")
}

func TestLogNamesMatchFactory(testInstance *testing.T) {
	factory := utils.NewLoggerFactoryWithOutput(&bytes.Buffer{})
	for _, levelName := range utils.LogLevelNames() {
		for _, formatName := range utils.LogFormatNames() {
			_, creationError := factory.CreateLogger(utils.LogLevel(levelName), utils.LogFormat(formatName))
			require.NoError(testInstance, creationError)
		}
	}
}

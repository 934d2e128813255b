package pullrequest

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/tidal/internal/descriptor"
	"github.com/temirov/tidal/internal/forge"
	"github.com/temirov/tidal/internal/gitrepo"
	"github.com/temirov/tidal/internal/provider"
	"github.com/temirov/tidal/internal/settings"
)

const (
	testWorkingDirectoryConstant = "/src/widgets"
	testOriginPushURLConstant    = "git@github.com:acme/widgets.git"
	testForkPushURLConstant      = "https://github.com/contributor/widgets.git"
	testPullRequestURLConstant   = "https://api.github.com/repos/acme/widgets/pulls/7"
	testPullRequestWebConstant   = "https://github.com/acme/widgets/pull/7"
)

type stubInspector struct {
	snapshot          gitrepo.Snapshot
	err               error
	observedDirectory string
}

func (inspector *stubInspector) Inspect(executionContext context.Context, workingDirectory string) (gitrepo.Snapshot, error) {
	inspector.observedDirectory = workingDirectory
	return inspector.snapshot, inspector.err
}

type recordingAdapter struct {
	outcome  forge.Outcome
	err      error
	requests []forge.Request
}

func (adapter *recordingAdapter) Run(executionContext context.Context, request forge.Request) (forge.Outcome, error) {
	adapter.requests = append(adapter.requests, request)
	return adapter.outcome, adapter.err
}

type recordingOpener struct {
	err  error
	urls []string
}

func (opener *recordingOpener) Open(executionContext context.Context, url string) error {
	opener.urls = append(opener.urls, url)
	return opener.err
}

type recordingFactory struct {
	adapter    forge.Adapter
	err        error
	selections []provider.Selection
}

func (factory *recordingFactory) create(selection provider.Selection) (forge.Adapter, error) {
	factory.selections = append(factory.selections, selection)
	return factory.adapter, factory.err
}

func githubSnapshot(currentBranch string) gitrepo.Snapshot {
	return gitrepo.Snapshot{
		RootPath:      testWorkingDirectoryConstant,
		Remotes:       []gitrepo.Remote{{Name: "origin", PushURL: testOriginPushURLConstant}},
		LocalBranches: []string{"feature", "main"},
		CurrentBranch: currentBranch,
	}
}

func emptyEnvironment(string) (string, bool) {
	return "", false
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	testCases := []struct {
		name          string
		dependencies  ServiceDependencies
		expectedError error
	}{
		{
			name:          "missing_inspector",
			dependencies:  ServiceDependencies{Output: &bytes.Buffer{}},
			expectedError: ErrInspectorNotConfigured,
		},
		{
			name:          "missing_output",
			dependencies:  ServiceDependencies{Inspector: &stubInspector{}},
			expectedError: ErrOutputNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			service, creationError := NewService(testCase.dependencies)
			require.ErrorIs(subtest, creationError, testCase.expectedError)
			require.Nil(subtest, service)
		})
	}
}

func TestServiceCreateRunsPipeline(testInstance *testing.T) {
	inspector := &stubInspector{snapshot: githubSnapshot("feature")}
	adapter := &recordingAdapter{outcome: forge.Outcome{URL: testPullRequestURLConstant, WebURL: testPullRequestWebConstant, Number: 7}}
	factory := &recordingFactory{adapter: adapter}
	output := &bytes.Buffer{}
	observerCore, observedLogs := observer.New(zapcore.InfoLevel)

	service, creationError := NewService(ServiceDependencies{
		Logger:            zap.New(observerCore),
		Inspector:         inspector,
		EnvironmentLookup: emptyEnvironment,
		AdapterFactory:    factory.create,
		Output:            output,
	})
	require.NoError(testInstance, creationError)

	fields := forge.Fields{Identifier: forge.TitleIdentifier("Add retry budget")}
	result, createError := service.Create(context.Background(), Options{WorkingDirectory: testWorkingDirectoryConstant, Fields: fields})
	require.NoError(testInstance, createError)

	require.Equal(testInstance, testWorkingDirectoryConstant, inspector.observedDirectory)
	require.Equal(testInstance, []provider.Selection{{Kind: provider.KindGitHub, BaseHost: "api.github.com", Host: "github.com"}}, factory.selections)

	expectedDescriptor := descriptor.Descriptor{
		Source:      descriptor.Reference{Branch: "feature", Remote: "origin"},
		Destination: descriptor.Reference{Branch: "main", Remote: "origin"},
	}
	require.Equal(testInstance, []forge.Request{{
		Descriptor:         expectedDescriptor,
		SourcePushURL:      testOriginPushURLConstant,
		DestinationPushURL: testOriginPushURLConstant,
		Fields:             fields,
	}}, adapter.requests)

	require.Equal(testInstance, expectedDescriptor, result.Descriptor)
	require.Equal(testInstance, "CREATED: "+testPullRequestWebConstant+"\n", output.String())
	require.Equal(testInstance, 1, observedLogs.FilterMessage(requestCreatedMessageConstant).Len())
}

func TestServiceCreateUsesSeparateSourceRemote(testInstance *testing.T) {
	snapshot := githubSnapshot("feature")
	snapshot.Remotes = append(snapshot.Remotes, gitrepo.Remote{Name: "fork", PushURL: testForkPushURLConstant})
	adapter := &recordingAdapter{outcome: forge.Outcome{URL: testPullRequestURLConstant}}
	factory := &recordingFactory{adapter: adapter}
	output := &bytes.Buffer{}

	service, creationError := NewService(ServiceDependencies{
		Inspector:         &stubInspector{snapshot: snapshot},
		EnvironmentLookup: emptyEnvironment,
		AdapterFactory:    factory.create,
		Output:            output,
	})
	require.NoError(testInstance, creationError)

	_, createError := service.Create(context.Background(), Options{
		Overrides: descriptor.Overrides{SourceRemote: settings.Some("fork")},
		Fields:    forge.Fields{Identifier: forge.IssueIdentifier(42)},
	})
	require.NoError(testInstance, createError)

	require.Len(testInstance, adapter.requests, 1)
	require.Equal(testInstance, testForkPushURLConstant, adapter.requests[0].SourcePushURL)
	require.Equal(testInstance, testOriginPushURLConstant, adapter.requests[0].DestinationPushURL)
	require.Equal(testInstance, "CREATED: "+testPullRequestURLConstant+"\n", output.String())
}

func TestServiceCreateStopsBeforeAdapterOnFailures(testInstance *testing.T) {
	detachedSnapshot := githubSnapshot("")
	noRemotesSnapshot := githubSnapshot("feature")
	noRemotesSnapshot.Remotes = nil
	repositoryError := gitrepo.RepositoryError{Path: testWorkingDirectoryConstant, Cause: errors.New("exit status 128")}

	testCases := []struct {
		name          string
		inspector     *stubInspector
		overrides     descriptor.Overrides
		expectedError error
		expectedCode  int
	}{
		{
			name:          "not_a_repository",
			inspector:     &stubInspector{err: repositoryError},
			expectedError: gitrepo.ErrNotRepository,
			expectedCode:  32,
		},
		{
			name:          "no_remotes",
			inspector:     &stubInspector{snapshot: noRemotesSnapshot},
			expectedError: provider.ErrNoRemotes,
			expectedCode:  5,
		},
		{
			name:          "detached_head",
			inspector:     &stubInspector{snapshot: detachedSnapshot},
			expectedError: descriptor.ErrDetachedHead,
			expectedCode:  1,
		},
		{
			name:          "same_reference",
			inspector:     &stubInspector{snapshot: githubSnapshot("main")},
			expectedError: descriptor.ErrSameRef,
			expectedCode:  1,
		},
		{
			name:          "unknown_destination_remote",
			inspector:     &stubInspector{snapshot: githubSnapshot("feature")},
			overrides:     descriptor.Overrides{DestinationRemote: settings.Some("upstream")},
			expectedError: descriptor.ErrInvalidRemote,
			expectedCode:  1,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			factory := &recordingFactory{adapter: &recordingAdapter{}}
			output := &bytes.Buffer{}
			service, creationError := NewService(ServiceDependencies{
				Inspector:         testCase.inspector,
				EnvironmentLookup: emptyEnvironment,
				AdapterFactory:    factory.create,
				Output:            output,
			})
			require.NoError(subtest, creationError)

			_, createError := service.Create(context.Background(), Options{
				Overrides: testCase.overrides,
				Fields:    forge.Fields{Identifier: forge.TitleIdentifier("title")},
			})
			require.ErrorIs(subtest, createError, testCase.expectedError)

			var coded interface{ ExitCode() int }
			require.ErrorAs(subtest, createError, &coded)
			require.Equal(subtest, testCase.expectedCode, coded.ExitCode())

			require.Empty(subtest, factory.selections)
			require.Empty(subtest, output.String())
		})
	}
}

func TestServiceCreatePropagatesAdapterFailure(testInstance *testing.T) {
	adapterError := forge.RequestError{Kind: forge.ErrValidation, StatusCode: 422, Body: "{\"message\":\"Validation Failed\"}"}
	factory := &recordingFactory{adapter: &recordingAdapter{err: adapterError}}
	opener := &recordingOpener{}
	output := &bytes.Buffer{}

	service, creationError := NewService(ServiceDependencies{
		Inspector:         &stubInspector{snapshot: githubSnapshot("feature")},
		EnvironmentLookup: emptyEnvironment,
		AdapterFactory:    factory.create,
		Opener:            opener,
		Output:            output,
	})
	require.NoError(testInstance, creationError)

	_, createError := service.Create(context.Background(), Options{Fields: forge.Fields{Identifier: forge.TitleIdentifier("title"), Open: true}})
	require.ErrorIs(testInstance, createError, forge.ErrValidation)
	require.Empty(testInstance, output.String())
	require.Empty(testInstance, opener.urls)
}

func TestServiceCreateWrapsAdapterFactoryFailure(testInstance *testing.T) {
	factory := &recordingFactory{err: ErrUnsupportedProvider}
	service, creationError := NewService(ServiceDependencies{
		Inspector:         &stubInspector{snapshot: githubSnapshot("feature")},
		EnvironmentLookup: emptyEnvironment,
		AdapterFactory:    factory.create,
		Output:            &bytes.Buffer{},
	})
	require.NoError(testInstance, creationError)

	_, createError := service.Create(context.Background(), Options{Fields: forge.Fields{Identifier: forge.TitleIdentifier("title")}})
	require.ErrorIs(testInstance, createError, ErrUnsupportedProvider)
	require.Contains(testInstance, createError.Error(), "github")
}

func TestServiceCreateOpensBrowser(testInstance *testing.T) {
	testCases := []struct {
		name          string
		outcome       forge.Outcome
		openerError   error
		expectedURL   string
		expectFailure bool
	}{
		{
			name:        "web_url_preferred",
			outcome:     forge.Outcome{URL: testPullRequestURLConstant, WebURL: testPullRequestWebConstant},
			expectedURL: testPullRequestWebConstant,
		},
		{
			name:        "api_url_fallback",
			outcome:     forge.Outcome{URL: testPullRequestURLConstant},
			expectedURL: testPullRequestURLConstant,
		},
		{
			name:          "open_failure_after_report",
			outcome:       forge.Outcome{URL: testPullRequestURLConstant, WebURL: testPullRequestWebConstant},
			openerError:   forge.RequestError{Kind: forge.ErrFailedToOpen, Value: testPullRequestWebConstant},
			expectedURL:   testPullRequestWebConstant,
			expectFailure: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			opener := &recordingOpener{err: testCase.openerError}
			output := &bytes.Buffer{}
			service, creationError := NewService(ServiceDependencies{
				Inspector:         &stubInspector{snapshot: githubSnapshot("feature")},
				EnvironmentLookup: emptyEnvironment,
				AdapterFactory:    (&recordingFactory{adapter: &recordingAdapter{outcome: testCase.outcome}}).create,
				Opener:            opener,
				Output:            output,
			})
			require.NoError(subtest, creationError)

			_, createError := service.Create(context.Background(), Options{Fields: forge.Fields{Identifier: forge.TitleIdentifier("title"), Open: true}})
			if testCase.expectFailure {
				require.ErrorIs(subtest, createError, forge.ErrFailedToOpen)
			} else {
				require.NoError(subtest, createError)
			}
			require.Equal(subtest, "CREATED: "+testCase.expectedURL+"\n", output.String())
			require.Equal(subtest, []string{testCase.expectedURL}, opener.urls)
		})
	}
}

func TestServiceCreateRequiresOpenerWhenOpening(testInstance *testing.T) {
	factory := &recordingFactory{adapter: &recordingAdapter{}}
	service, creationError := NewService(ServiceDependencies{
		Inspector:      &stubInspector{snapshot: githubSnapshot("feature")},
		AdapterFactory: factory.create,
		Output:         &bytes.Buffer{},
	})
	require.NoError(testInstance, creationError)

	_, createError := service.Create(context.Background(), Options{Fields: forge.Fields{Identifier: forge.TitleIdentifier("title"), Open: true}})
	require.ErrorIs(testInstance, createError, ErrOpenerNotConfigured)
	require.Empty(testInstance, factory.selections)
}

func TestServiceDescribeReportsOrigins(testInstance *testing.T) {
	snapshot := githubSnapshot("feature")
	snapshot.LocalBranches = append(snapshot.LocalBranches, "release")
	snapshot.Remotes[0].PushRefspecs = []string{"refs/heads/*:refs/heads/*", "HEAD:refs/heads/release"}
	environment := map[string]string{descriptor.SourceRemoteEnvironmentVariable: "origin"}

	service, creationError := NewService(ServiceDependencies{
		Inspector: &stubInspector{snapshot: snapshot},
		EnvironmentLookup: func(name string) (string, bool) {
			value, found := environment[name]
			return value, found
		},
		Output: &bytes.Buffer{},
	})
	require.NoError(testInstance, creationError)

	plan, describeError := service.Describe(context.Background(), Options{})
	require.NoError(testInstance, describeError)

	require.Equal(testInstance, Plan{
		Provider: provider.Selection{Kind: provider.KindGitHub, BaseHost: "api.github.com", Host: "github.com"},
		Source: PlanReference{
			Branch:  PlanValue{Value: "feature", Origin: string(settings.SourceDefault)},
			Remote:  PlanValue{Value: "origin", Origin: string(settings.SourceEnvironment)},
			PushURL: testOriginPushURLConstant,
		},
		Destination: PlanReference{
			Branch:  PlanValue{Value: "release", Origin: string(descriptor.SourcePushRefspec)},
			Remote:  PlanValue{Value: "origin", Origin: string(settings.SourceDefault)},
			PushURL: testOriginPushURLConstant,
		},
	}, plan)
}

package pullrequest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/tidal/internal/descriptor"
	"github.com/temirov/tidal/internal/forge"
	"github.com/temirov/tidal/internal/gitrepo"
	"github.com/temirov/tidal/internal/provider"
	"github.com/temirov/tidal/internal/settings"
)

const (
	createdMessageTemplateConstant          = "CREATED: %s\n"
	inspectorNotConfiguredMessageConstant   = "pull request service requires a repository inspector"
	adapterFactoryNotConfiguredMessage      = "pull request service requires an adapter factory"
	outputNotConfiguredMessageConstant      = "pull request service requires an output writer"
	openerNotConfiguredMessageConstant      = "pull request service requires a browser opener to open the request"
	adapterUnavailableErrorTemplateConstant = "no adapter for provider %s: %w"
	providerDetectedMessageConstant         = "provider detected"
	referencesResolvedMessageConstant       = "references resolved"
	requestCreatedMessageConstant           = "pull request created"
	openingBrowserMessageConstant           = "opening browser"
	logFieldKindConstant                    = "kind"
	logFieldHostConstant                    = "host"
	logFieldBaseHostConstant                = "base_host"
	logFieldSourceConstant                  = "source"
	logFieldDestinationConstant             = "destination"
	logFieldSourceBranchOriginConstant      = "source_branch_origin"
	logFieldDestinationBranchOriginConstant = "destination_branch_origin"
	logFieldURLConstant                     = "url"
)

var (
	// ErrInspectorNotConfigured indicates a missing repository inspector.
	ErrInspectorNotConfigured = errors.New(inspectorNotConfiguredMessageConstant)
	// ErrAdapterFactoryNotConfigured indicates a missing adapter factory.
	ErrAdapterFactoryNotConfigured = errors.New(adapterFactoryNotConfiguredMessage)
	// ErrOutputNotConfigured indicates a missing output writer.
	ErrOutputNotConfigured = errors.New(outputNotConfiguredMessageConstant)
	// ErrOpenerNotConfigured indicates the caller asked to open the request without an opener.
	ErrOpenerNotConfigured = errors.New(openerNotConfiguredMessageConstant)
)

// RepositoryInspector captures repository state.
type RepositoryInspector interface {
	Inspect(executionContext context.Context, workingDirectory string) (gitrepo.Snapshot, error)
}

// AdapterFactory returns the adapter serving the selected provider.
type AdapterFactory func(selection provider.Selection) (forge.Adapter, error)

// URLOpener opens a URL for the user.
type URLOpener interface {
	Open(executionContext context.Context, url string) error
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	Logger            *zap.Logger
	Inspector         RepositoryInspector
	EnvironmentLookup settings.EnvironmentLookup
	AdapterFactory    AdapterFactory
	Opener            URLOpener
	Output            io.Writer
}

// Options configure one run of the pipeline.
type Options struct {
	WorkingDirectory string
	Overrides        descriptor.Overrides
	Fields           forge.Fields
}

// Result summarizes a created request.
type Result struct {
	Selection  provider.Selection
	Descriptor descriptor.Descriptor
	Outcome    forge.Outcome
}

// Service runs the provider detection, reference resolution, validation and adapter pipeline.
type Service struct {
	logger         *zap.Logger
	inspector      RepositoryInspector
	detector       *provider.Detector
	resolver       *descriptor.Resolver
	validator      descriptor.Validator
	adapterFactory AdapterFactory
	opener         URLOpener
	output         io.Writer
}

type preparedRequest struct {
	snapshot   gitrepo.Snapshot
	selection  provider.Selection
	resolution descriptor.Resolution
}

// NewService validates dependencies and constructs a Service. The adapter factory is only needed by Create.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Inspector == nil {
		return nil, ErrInspectorNotConfigured
	}
	if dependencies.Output == nil {
		return nil, ErrOutputNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		logger:         logger,
		inspector:      dependencies.Inspector,
		detector:       provider.NewDetector(dependencies.EnvironmentLookup),
		resolver:       descriptor.NewResolver(dependencies.EnvironmentLookup),
		validator:      descriptor.NewValidator(),
		adapterFactory: dependencies.AdapterFactory,
		opener:         dependencies.Opener,
		output:         dependencies.Output,
	}, nil
}

// Create runs the full pipeline, reports the created request and optionally opens it in a browser.
// A failure to open is returned after the creation line has been written.
func (service *Service) Create(executionContext context.Context, options Options) (Result, error) {
	if service.adapterFactory == nil {
		return Result{}, ErrAdapterFactoryNotConfigured
	}
	if options.Fields.Open && service.opener == nil {
		return Result{}, ErrOpenerNotConfigured
	}

	prepared, prepareError := service.prepare(executionContext, options)
	if prepareError != nil {
		return Result{}, prepareError
	}

	adapter, adapterError := service.adapterFactory(prepared.selection)
	if adapterError != nil {
		return Result{}, fmt.Errorf(adapterUnavailableErrorTemplateConstant, prepared.selection.Kind, adapterError)
	}

	validatedDescriptor := prepared.resolution.Descriptor
	sourceRemote, _ := prepared.snapshot.Remote(validatedDescriptor.Source.Remote)
	destinationRemote, _ := prepared.snapshot.Remote(validatedDescriptor.Destination.Remote)

	outcome, runError := adapter.Run(executionContext, forge.Request{
		Descriptor:         validatedDescriptor,
		SourcePushURL:      sourceRemote.PushURL,
		DestinationPushURL: destinationRemote.PushURL,
		Fields:             options.Fields,
	})
	if runError != nil {
		return Result{}, runError
	}

	result := Result{Selection: prepared.selection, Descriptor: validatedDescriptor, Outcome: outcome}
	browserURL := outcome.BrowserURL()

	service.logger.Info(
		requestCreatedMessageConstant,
		zap.String(logFieldKindConstant, string(prepared.selection.Kind)),
		zap.String(logFieldURLConstant, browserURL),
	)

	if _, writeError := fmt.Fprintf(service.output, createdMessageTemplateConstant, browserURL); writeError != nil {
		return result, writeError
	}

	if options.Fields.Open {
		service.logger.Debug(openingBrowserMessageConstant, zap.String(logFieldURLConstant, browserURL))
		if openError := service.opener.Open(executionContext, browserURL); openError != nil {
			return result, openError
		}
	}

	return result, nil
}

// Describe runs the pipeline up to validation and returns the resolved plan without contacting the provider.
func (service *Service) Describe(executionContext context.Context, options Options) (Plan, error) {
	prepared, prepareError := service.prepare(executionContext, options)
	if prepareError != nil {
		return Plan{}, prepareError
	}
	return newPlan(prepared), nil
}

func (service *Service) prepare(executionContext context.Context, options Options) (preparedRequest, error) {
	snapshot, inspectError := service.inspector.Inspect(executionContext, options.WorkingDirectory)
	if inspectError != nil {
		return preparedRequest{}, inspectError
	}

	selection, detectionError := service.detector.Detect(snapshot)
	if detectionError != nil {
		return preparedRequest{}, detectionError
	}
	service.logger.Debug(
		providerDetectedMessageConstant,
		zap.String(logFieldKindConstant, string(selection.Kind)),
		zap.String(logFieldHostConstant, selection.Host),
		zap.String(logFieldBaseHostConstant, selection.BaseHost),
	)

	resolution, resolutionError := service.resolver.BuildResolution(snapshot, options.Overrides)
	if resolutionError != nil {
		return preparedRequest{}, resolutionError
	}

	validatedDescriptor, validationError := service.validator.Validate(resolution.Descriptor, snapshot)
	if validationError != nil {
		return preparedRequest{}, validationError
	}
	resolution.Descriptor = validatedDescriptor

	service.logger.Debug(
		referencesResolvedMessageConstant,
		zap.Stringer(logFieldSourceConstant, validatedDescriptor.Source),
		zap.Stringer(logFieldDestinationConstant, validatedDescriptor.Destination),
		zap.String(logFieldSourceBranchOriginConstant, string(resolution.SourceBranch.Source)),
		zap.String(logFieldDestinationBranchOriginConstant, string(resolution.DestinationBranch.Source)),
	)

	return preparedRequest{snapshot: snapshot, selection: selection, resolution: resolution}, nil
}

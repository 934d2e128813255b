package cli

import "runtime/debug"

const (
	developmentVersionConstant          = "dev"
	buildInfoDevelopmentVersionConstant = "(devel)"
)

// applicationVersion is set at link time with -ldflags "-X github.com/temirov/tidal/cmd/cli.applicationVersion=v1.2.3".
var applicationVersion string

func resolveApplicationVersion() string {
	if len(applicationVersion) > 0 {
		return applicationVersion
	}
	buildInfo, available := debug.ReadBuildInfo()
	if !available {
		return developmentVersionConstant
	}
	moduleVersion := buildInfo.Main.Version
	if len(moduleVersion) == 0 || moduleVersion == buildInfoDevelopmentVersionConstant {
		return developmentVersionConstant
	}
	return moduleVersion
}

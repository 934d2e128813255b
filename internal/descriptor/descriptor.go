package descriptor

import (
	"fmt"

	"github.com/temirov/tidal/internal/settings"
)

// Reference identifies a branch on a remote.
type Reference struct {
	Branch string `json:"branch" yaml:"branch"`
	Remote string `json:"remote" yaml:"remote"`
}

// String renders the reference as branch@remote.
func (reference Reference) String() string {
	return fmt.Sprintf(referenceDisplayTemplateConstant, reference.Branch, reference.Remote)
}

// Descriptor describes the requested merge from Source into Destination.
type Descriptor struct {
	Source      Reference `json:"source" yaml:"source"`
	Destination Reference `json:"destination" yaml:"destination"`
}

// Overrides holds reference values supplied on the command line.
type Overrides struct {
	SourceBranch      settings.Optional
	SourceRemote      settings.Optional
	DestinationBranch settings.Optional
	DestinationRemote settings.Optional
}

// Overwrite applies every present override onto the descriptor and leaves the other fields untouched.
func (descriptor *Descriptor) Overwrite(overrides Overrides) {
	if overrides.SourceBranch.Present {
		descriptor.Source.Branch = overrides.SourceBranch.Value
	}
	if overrides.SourceRemote.Present {
		descriptor.Source.Remote = overrides.SourceRemote.Value
	}
	if overrides.DestinationBranch.Present {
		descriptor.Destination.Branch = overrides.DestinationBranch.Value
	}
	if overrides.DestinationRemote.Present {
		descriptor.Destination.Remote = overrides.DestinationRemote.Value
	}
}

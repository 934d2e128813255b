package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/temirov/tidal/internal/descriptor"
	"github.com/temirov/tidal/internal/settings"
)

const (
	// FromBranchFlagName names the source branch flag.
	FromBranchFlagName = "from-branch"
	// FromBranchFlagShorthand is the source branch flag shorthand.
	FromBranchFlagShorthand = "b"
	// FromRemoteFlagName names the source remote flag.
	FromRemoteFlagName = "from-remote"
	// FromRemoteFlagShorthand is the source remote flag shorthand.
	FromRemoteFlagShorthand = "r"
	// ToBranchFlagName names the destination branch flag.
	ToBranchFlagName = "to-branch"
	// ToBranchFlagShorthand is the destination branch flag shorthand.
	ToBranchFlagShorthand = "B"
	// ToRemoteFlagName names the destination remote flag.
	ToRemoteFlagName = "to-remote"
	// ToRemoteFlagShorthand is the destination remote flag shorthand.
	ToRemoteFlagShorthand = "R"

	fromBranchFlagUsageConstant = "Branch the changes come from (defaults to the current branch)"
	fromRemoteFlagUsageConstant = "Remote holding the source branch (defaults to origin)"
	toBranchFlagUsageConstant   = "Branch the changes go into (defaults to the push target or the default branch)"
	toRemoteFlagUsageConstant   = "Remote holding the destination branch (defaults to origin)"
)

// BindReferenceFlags attaches the source and destination reference flags as persistent flags so subcommands inherit them.
func BindReferenceFlags(command *cobra.Command) {
	if command == nil {
		return
	}

	persistentFlagSet := command.PersistentFlags()
	bindStringFlag(persistentFlagSet, FromBranchFlagName, FromBranchFlagShorthand, fromBranchFlagUsageConstant)
	bindStringFlag(persistentFlagSet, FromRemoteFlagName, FromRemoteFlagShorthand, fromRemoteFlagUsageConstant)
	bindStringFlag(persistentFlagSet, ToBranchFlagName, ToBranchFlagShorthand, toBranchFlagUsageConstant)
	bindStringFlag(persistentFlagSet, ToRemoteFlagName, ToRemoteFlagShorthand, toRemoteFlagUsageConstant)
}

// ReferenceOverrides reports the reference flags the user set explicitly on command or its parents.
func ReferenceOverrides(command *cobra.Command) descriptor.Overrides {
	if command == nil {
		return descriptor.Overrides{}
	}

	flagSet := command.Flags()
	return descriptor.Overrides{
		SourceBranch:      changedValue(flagSet, FromBranchFlagName),
		SourceRemote:      changedValue(flagSet, FromRemoteFlagName),
		DestinationBranch: changedValue(flagSet, ToBranchFlagName),
		DestinationRemote: changedValue(flagSet, ToRemoteFlagName),
	}
}

func bindStringFlag(flagSet *pflag.FlagSet, name string, shorthand string, usage string) {
	if flagSet.Lookup(name) != nil {
		return
	}
	flagSet.StringP(name, shorthand, "", usage)
}

func changedValue(flagSet *pflag.FlagSet, name string) settings.Optional {
	flag := flagSet.Lookup(name)
	if flag == nil || !flag.Changed {
		return settings.Optional{}
	}
	return settings.Some(flag.Value.String())
}

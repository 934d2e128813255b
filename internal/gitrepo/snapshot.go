package gitrepo

const (
	initSectionConstant           = "init"
	defaultBranchKeyConstant      = "defaultBranch"
	fallbackDefaultBranchConstant = "main"
)

// Remote describes a configured git remote.
type Remote struct {
	Name         string
	PushURL      string
	PushRefspecs []string
}

// Snapshot captures the repository state observed at the start of a run.
// Values are read once and treated as immutable afterwards.
type Snapshot struct {
	RootPath      string
	Remotes       []Remote
	LocalBranches []string
	CurrentBranch string
	Configuration Configuration
}

// RemoteNames lists configured remote names in git's order.
func (snapshot Snapshot) RemoteNames() []string {
	names := make([]string, 0, len(snapshot.Remotes))
	for _, remote := range snapshot.Remotes {
		names = append(names, remote.Name)
	}
	return names
}

// Remote returns the remote with the provided name.
func (snapshot Snapshot) Remote(name string) (Remote, bool) {
	for _, remote := range snapshot.Remotes {
		if remote.Name == name {
			return remote, true
		}
	}
	return Remote{}, false
}

// HasLocalBranch reports whether a local branch with the provided name exists.
func (snapshot Snapshot) HasLocalBranch(name string) bool {
	for _, branch := range snapshot.LocalBranches {
		if branch == name {
			return true
		}
	}
	return false
}

// IsDetached reports whether HEAD does not point at a branch.
func (snapshot Snapshot) IsDetached() bool {
	return len(snapshot.CurrentBranch) == 0
}

// DefaultBranchName returns init.defaultBranch, falling back to "main".
func (snapshot Snapshot) DefaultBranchName() string {
	if configured, found := snapshot.Configuration.Lookup(initSectionConstant, "", defaultBranchKeyConstant); found && len(configured) > 0 {
		return configured
	}
	return fallbackDefaultBranchConstant
}

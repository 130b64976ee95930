package version

import "fmt"

const Name string = "govern"

var (
	Version   string = "0.1.0" // follows SemVer (https://semver.org)
	GitCommit string         // set by `-ldflags "-X boscoin.io/govern/lib/version.GitCommit=..."`
	GitState  string
	BuildDate string
)

func ToDetailVersion() string {
	commit := GitCommit
	if len(GitState) > 0 && GitState != "clean" {
		commit += "-" + GitState
	}

	return fmt.Sprintf("%s version=%s git=%s build=%s", Name, Version, commit, BuildDate)
}

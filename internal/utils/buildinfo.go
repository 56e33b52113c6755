// Package utils provides helper functions, including version retrieval.
package utils

import (
	"os/exec"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	develBuildVersion  = "(devel)"
	gitExecutableName  = "git"
	gitDescribeCommand = "describe"
)

// GetApplicationVersion reports the module version recorded in the build.
// Development builds fall back to git describe and finally to "unknown".
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develBuildVersion {
		return buildInfo.Main.Version
	}

	// #nosec G204
	gitDescribeOutput, gitDescribeError := exec.Command(gitExecutableName, gitDescribeCommand, "--tags", "--always", "--dirty").Output()
	if gitDescribeError == nil && len(gitDescribeOutput) > 0 {
		return strings.TrimSpace(string(gitDescribeOutput))
	}

	return unknownVersion
}

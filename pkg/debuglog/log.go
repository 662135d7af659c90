package debuglog

import "os"

// Enabled reports whether debug output was requested, either by re-running a
// workflow with debug logging or locally through NUGET_LOGIN_DEBUG.
func Enabled() bool {
	return os.Getenv("RUNNER_DEBUG") == "1" || os.Getenv("NUGET_LOGIN_DEBUG") != ""
}

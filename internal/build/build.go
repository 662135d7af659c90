package build

import "runtime/debug"

// Set with -ldflags "-X github.com/nuget/login/internal/build.Version=..." by release builds.
var Version = "dev"
var Date = ""

// SentryEnvironment tags error telemetry from release builds apart from local ones.
var SentryEnvironment = "development"

func init() {
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
	}
}

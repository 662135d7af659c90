package ci

import (
	"os"
	"strings"
)

const (
	GitHubActions = "GitHub Actions"
	Generic       = "CI"
)

type provider struct {
	name   string
	detect func() bool
}

var providers = []provider{
	{GitHubActions, func() bool { return isSet("GITHUB_ACTIONS") }},
	{"Jenkins", func() bool { return isSet("BUILD_ID") && isSet("JENKINS_URL") }},
	{"Travis CI", func() bool { return isSet("TRAVIS") }},
	{"dsari", func() bool { return isSet("DSARI") }},
	{"Codeship", func() bool { return os.Getenv("CI_NAME") == "codeship" }},
	{"sourcehut", func() bool { return os.Getenv("CI_NAME") == "sourcehut" }},
	{"Woodpecker", func() bool { return os.Getenv("CI") == "woodpecker" }},
	{"TaskCluster", func() bool { return isSet("TASK_ID") && isSet("RUN_ID") }},
	{"Heroku", func() bool { return strings.Contains(os.Getenv("NODE"), "/app/.heroku/node/bin/node") }},
	{Generic, func() bool {
		return isSet("CI") || isSet("CONTINUOUS_INTEGRATION") || isSet("BUILD_NUMBER") || isSet("RUN_ID")
	}},
}

// Provider returns the name of the CI system the process runs in, if any.
func Provider() (string, bool) {
	for _, p := range providers {
		if p.detect() {
			return p.name, true
		}
	}
	return "", false
}

func isSet(key string) bool {
	return os.Getenv(key) != ""
}

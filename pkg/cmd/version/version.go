package version

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

const repositoryURL = "https://github.com/NuGet/login"

func NewCmdVersion(version, buildDate string) *cobra.Command {
	cmd := &cobra.Command{
		Use:    "version",
		Short:  "Print the version",
		Hidden: true,
		Args:   cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), Format(version, buildDate))
		},
	}
	return cmd
}

func Format(version, buildDate string) string {
	version = strings.TrimPrefix(version, "v")
	if buildDate != "" {
		return fmt.Sprintf("nuget-login version %s (%s)\n%s\n", version, buildDate, changelogURL(version))
	}
	return fmt.Sprintf("nuget-login version %s\n%s\n", version, changelogURL(version))
}

var releaseVersion = regexp.MustCompile(`^v?\d+\.\d+\.\d+(-[\w.]+)?$`)

func changelogURL(version string) string {
	if !releaseVersion.MatchString(version) {
		return fmt.Sprintf("%s/releases/latest", repositoryURL)
	}
	return fmt.Sprintf("%s/releases/tag/v%s", repositoryURL, strings.TrimPrefix(version, "v"))
}

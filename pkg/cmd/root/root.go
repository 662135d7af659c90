package root

import (
	"github.com/nuget/login/pkg/actions"
	"github.com/nuget/login/pkg/api"
	versionCmd "github.com/nuget/login/pkg/cmd/version"
	"github.com/nuget/login/pkg/config"
	"github.com/nuget/login/pkg/exchange"
	"github.com/nuget/login/pkg/oidc"
	"github.com/spf13/cobra"
)

func NewCmdRoot(version, buildDate string, runner *actions.Runner) *cobra.Command {
	var (
		configFile string
		envFile    string
	)

	var cmd = &cobra.Command{
		Use:   "nuget-login [flags]",
		Short: "Exchange a GitHub Actions OIDC token for a short-lived NuGet API key",
		Long: `Requests an OIDC identity token from GitHub Actions, exchanges it with the NuGet
token service for a short-lived API key, and publishes the key as the
NUGET_API_KEY step output.

The job must have the id-token: write permission.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := config.Load(cmd.Flags(), config.Options{
				ConfigFile: configFile,
				EnvFile:    envFile,
			})
			if err != nil {
				return err
			}

			logger := runner.Logger()

			provider := oidc.NewGitHubOIDCProviderFromEnv()
			provider.Masker = runner
			provider.Logger = logger

			sequencer := &exchange.Sequencer{
				Provider:  provider,
				Exchanger: api.NewTokenClient(),
				Masker:    runner,
				Outputs:   runner,
				Logger:    logger,
			}

			_, err = sequencer.Run(cmd.Context(), inputs.ExchangeRequest())
			return err
		},
	}

	formattedVersion := versionCmd.Format(version, buildDate)
	cmd.SetVersionTemplate(formattedVersion)
	cmd.Version = formattedVersion
	cmd.Flags().Bool("version", false, "Print the version and exit")

	cmd.Flags().String(config.KeyUser, "", "NuGet username the API key is issued for (env: INPUT_USER)")
	cmd.Flags().String(config.KeyTokenServiceURL, api.DefaultTokenServiceURL, "NuGet token service URL (env: INPUT_TOKEN-SERVICE-URL)")
	cmd.Flags().String(config.KeyAudience, api.DefaultAudience, "Audience of the requested OIDC token (env: INPUT_AUDIENCE)")
	cmd.Flags().StringVar(&configFile, "config-file", "", "Path to a YAML file with default inputs")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load environment variables from a dotenv file before running")

	cmd.AddCommand(versionCmd.NewCmdVersion(version, buildDate))

	return cmd
}

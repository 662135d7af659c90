package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/mgutz/ansi"
	"github.com/nuget/login/internal/build"
	"github.com/nuget/login/pkg/actions"
	"github.com/nuget/login/pkg/api"
	"github.com/nuget/login/pkg/cmd/root"
	"github.com/nuget/login/pkg/helpers"
)

func main() {
	code := runMain(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

func runMain(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	runner := actions.NewRunnerFromEnv(stdout, stderr)

	if dsn := os.Getenv("NUGET_LOGIN_SENTRY_DSN"); dsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         dsn,
			Environment: build.SentryEnvironment,
			Release:     build.Version,
			BeforeSend:  scrubEvent(runner.Masker()),
		})
		if err != nil {
			log.Fatalf("sentry.Init: %s", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	rootCmd := root.NewCmdRoot(build.Version, build.Date, runner)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		runner.SetFailed(err)
		if api.IsKind(err, api.KindConfiguration) && helpers.IsTerminal() {
			fmt.Fprintf(stderr, "%s\n", ansi.Color("nuget-login is meant to run in a GitHub Actions job with the id-token: write permission.", "yellow"))
		}
		if !api.IsKind(err, api.KindConfiguration) && !api.IsKind(err, api.KindRegistry) {
			sentry.CaptureException(err)
		}
		return 1
	}

	return 0
}

// scrubEvent keeps registered secrets out of error reports.
func scrubEvent(masker *actions.Masker) func(*sentry.Event, *sentry.EventHint) *sentry.Event {
	return func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
		event.Message = masker.Redact(event.Message)
		for i := range event.Exception {
			event.Exception[i].Value = masker.Redact(event.Exception[i].Value)
		}
		return event
	}
}

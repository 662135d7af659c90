package root

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/nuget/login/pkg/actions"
	"github.com/nuget/login/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	for _, key := range []string{"INPUT_USER", "INPUT_TOKEN-SERVICE-URL", "INPUT_AUDIENCE", "ACTIONS_ID_TOKEN_REQUEST_URL", "ACTIONS_ID_TOKEN_REQUEST_TOKEN"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestNewCmdRoot(t *testing.T) {
	runner := actions.NewRunner(&bytes.Buffer{}, actions.RunnerOptions{})
	cmd := NewCmdRoot("1.0.0", "", runner)

	assert.Equal(t, "nuget-login [flags]", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	for _, name := range []string{"user", "token-service-url", "audience", "config-file", "env-file", "version"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}
	assert.Equal(t, api.DefaultTokenServiceURL, cmd.Flags().Lookup("token-service-url").DefValue)
	assert.Equal(t, api.DefaultAudience, cmd.Flags().Lookup("audience").DefValue)
}

func TestRootExchangesToken(t *testing.T) {
	setupEnv(t)

	identity := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("audience"); got != "https://int.nugettest.org" {
			t.Errorf("expected audience from input, got %q", got)
		}
		_, _ = w.Write([]byte(`{"value":"tok123"}`))
	}))
	defer identity.Close()

	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"apiKey":"key456"}`))
	}))
	defer registry.Close()

	outputPath := filepath.Join(t.TempDir(), "github_output")
	require.NoError(t, os.WriteFile(outputPath, nil, 0o600))

	t.Setenv("ACTIONS_ID_TOKEN_REQUEST_URL", identity.URL+"/idtoken?api-version=2.0")
	t.Setenv("ACTIONS_ID_TOKEN_REQUEST_TOKEN", "request-credential")
	t.Setenv("INPUT_USER", "octocat")
	t.Setenv("INPUT_AUDIENCE", "https://int.nugettest.org")

	var out bytes.Buffer
	runner := actions.NewRunner(&out, actions.RunnerOptions{OutputPath: outputPath, Workflow: true})
	cmd := NewCmdRoot("1.0.0", "", runner)
	cmd.SetArgs([]string{"--token-service-url", registry.URL + "/api/v2/token"})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "NUGET_API_KEY<<ghadelimiter_"))
	assert.Contains(t, string(data), "\nkey456\n")

	assert.Contains(t, out.String(), "::add-mask::request-credential\n")
	assert.Contains(t, out.String(), "::add-mask::tok123\n")
	assert.Contains(t, out.String(), "::add-mask::key456\n")
	assert.Contains(t, out.String(), "Successfully exchanged OIDC token for NuGet API key.\n")
}

func TestRootFailsWithoutOIDCEnvironment(t *testing.T) {
	setupEnv(t)
	t.Setenv("INPUT_USER", "octocat")

	var out bytes.Buffer
	runner := actions.NewRunner(&out, actions.RunnerOptions{})
	cmd := NewCmdRoot("1.0.0", "", runner)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, api.KindConfiguration, api.KindOf(err))
	assert.Contains(t, err.Error(), "missing OIDC environment values")
}

func TestRootFailsWithoutUser(t *testing.T) {
	setupEnv(t)

	runner := actions.NewRunner(&bytes.Buffer{}, actions.RunnerOptions{})
	cmd := NewCmdRoot("1.0.0", "", runner)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, "input required and not supplied: user", err.Error())
}

func TestRootVersion(t *testing.T) {
	runner := actions.NewRunner(&bytes.Buffer{}, actions.RunnerOptions{})
	cmd := NewCmdRoot("1.2.3", "2024-01-01", runner)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "nuget-login version 1.2.3 (2024-01-01)\nhttps://github.com/NuGet/login/releases/tag/v1.2.3\n", buf.String())
}

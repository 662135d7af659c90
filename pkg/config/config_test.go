package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/nuget/login/pkg/api"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the XDG directories at an empty temp dir and clears inputs.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	for _, key := range []string{"INPUT_USER", "INPUT_TOKEN-SERVICE-URL", "INPUT_AUDIENCE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(KeyUser, "", "")
	flags.String(KeyTokenServiceURL, api.DefaultTokenServiceURL, "")
	flags.String(KeyAudience, api.DefaultAudience, "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("INPUT_USER", "octocat")

	inputs, err := Load(newFlags(t), Options{})
	require.NoError(t, err)
	assert.Equal(t, &Inputs{
		User:            "octocat",
		TokenServiceURL: "https://www.nuget.org/api/v2/token",
		Audience:        "https://www.nuget.org",
	}, inputs)
}

func TestLoadActionInputs(t *testing.T) {
	isolate(t)
	t.Setenv("INPUT_USER", "  octocat \n")
	t.Setenv("INPUT_TOKEN-SERVICE-URL", "https://int.nugettest.org/api/v2/token")
	t.Setenv("INPUT_AUDIENCE", "https://int.nugettest.org")

	inputs, err := Load(newFlags(t), Options{})
	require.NoError(t, err)
	assert.Equal(t, "octocat", inputs.User)
	assert.Equal(t, "https://int.nugettest.org/api/v2/token", inputs.TokenServiceURL)
	assert.Equal(t, "https://int.nugettest.org", inputs.Audience)
}

func TestLoadEmptyInputsFallBackToDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("INPUT_USER", "octocat")
	t.Setenv("INPUT_TOKEN-SERVICE-URL", "")
	t.Setenv("INPUT_AUDIENCE", " ")

	inputs, err := Load(newFlags(t), Options{})
	require.NoError(t, err)
	assert.Equal(t, api.DefaultTokenServiceURL, inputs.TokenServiceURL)
	assert.Equal(t, api.DefaultAudience, inputs.Audience)
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("INPUT_USER", "from-env")
	t.Setenv("INPUT_AUDIENCE", "env-audience")

	inputs, err := Load(newFlags(t, "--user", "from-flag"), Options{})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", inputs.User)
	assert.Equal(t, "env-audience", inputs.Audience)
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nuget-login"), 0o755))
	configPath := filepath.Join(dir, "nuget-login", "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("user: from-file\naudience: file-audience\n"), 0o600))

	inputs, err := Load(newFlags(t), Options{})
	require.NoError(t, err)
	assert.Equal(t, "from-file", inputs.User)
	assert.Equal(t, "file-audience", inputs.Audience)
	assert.Equal(t, api.DefaultTokenServiceURL, inputs.TokenServiceURL)

	t.Setenv("INPUT_USER", "from-env")
	inputs, err = Load(newFlags(t), Options{})
	require.NoError(t, err)
	assert.Equal(t, "from-env", inputs.User)
}

func TestLoadExplicitConfigFile(t *testing.T) {
	isolate(t)

	configPath := filepath.Join(t.TempDir(), "inputs.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("user: explicit\n"), 0o600))

	inputs, err := Load(newFlags(t), Options{ConfigFile: configPath})
	require.NoError(t, err)
	assert.Equal(t, "explicit", inputs.User)

	_, err = Load(newFlags(t), Options{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindConfiguration))
}

func TestLoadEnvFile(t *testing.T) {
	isolate(t)
	t.Cleanup(func() { os.Unsetenv("INPUT_USER") })

	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("INPUT_USER=dotenv-user\n"), 0o600))

	inputs, err := Load(newFlags(t), Options{EnvFile: envPath})
	require.NoError(t, err)
	assert.Equal(t, "dotenv-user", inputs.User)

	_, err = Load(newFlags(t), Options{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	assert.True(t, api.IsKind(err, api.KindConfiguration))
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing user",
			wantErr: "input required and not supplied: user",
		},
		{
			name:    "blank user",
			args:    []string{"--user", "   "},
			wantErr: "input required and not supplied: user",
		},
		{
			name:    "invalid token service url",
			args:    []string{"--user", "octocat", "--token-service-url", "not a url"},
			wantErr: `input token-service-url is not a valid URL: "not a url"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)

			_, err := Load(newFlags(t, tt.args...), Options{})
			require.Error(t, err)
			assert.Equal(t, api.KindConfiguration, api.KindOf(err))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestExchangeRequest(t *testing.T) {
	inputs := &Inputs{User: "octocat", TokenServiceURL: "https://example.com/token", Audience: "aud"}
	assert.Equal(t, api.ExchangeRequest{
		PrincipalIdentifier:  "octocat",
		TokenServiceEndpoint: "https://example.com/token",
		Audience:             "aud",
	}, inputs.ExchangeRequest())
}

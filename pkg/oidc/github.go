package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/nuget/login/pkg/api"
	"github.com/sirupsen/logrus"
)

const (
	RequestTokenEnv = "ACTIONS_ID_TOKEN_REQUEST_TOKEN"
	RequestURLEnv   = "ACTIONS_ID_TOKEN_REQUEST_URL"
)

var _ OIDCProvider = (*GitHubOIDCProvider)(nil)

type GitHubOIDCProvider struct {
	RequestURL   string
	RequestToken string

	Client *http.Client
	Masker Masker
	Logger logrus.FieldLogger
}

func NewGitHubOIDCProvider(requestURL, requestToken string) *GitHubOIDCProvider {
	return &GitHubOIDCProvider{
		RequestURL:   requestURL,
		RequestToken: requestToken,
		Client:       http.DefaultClient,
	}
}

// NewGitHubOIDCProviderFromEnv reads the token request values the Actions runner
// exposes to jobs with the id-token: write permission.
func NewGitHubOIDCProviderFromEnv() *GitHubOIDCProvider {
	return NewGitHubOIDCProvider(os.Getenv(RequestURLEnv), os.Getenv(RequestTokenEnv))
}

func (p *GitHubOIDCProvider) RetrieveToken(ctx context.Context, audience string) (string, error) {
	if p.RequestToken == "" || p.RequestURL == "" {
		return "", api.NewConfigurationError("missing OIDC environment values (%s, %s)", RequestURLEnv, RequestTokenEnv)
	}

	masker := p.Masker
	if masker == nil {
		masker = noopMasker{}
	}
	masker.SetSecret(p.RequestToken)

	logger := p.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	requestURL := TokenURL(p.RequestURL, audience)
	logger.Infof("Requesting GitHub OIDC token from: %s", requestURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", api.NewConfigurationError("invalid %s: %v", RequestURLEnv, err)
	}

	req.Header.Set("Authorization", "Bearer "+p.RequestToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", api.UserAgent)

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", api.NewTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", api.NewProtocolError("failed to retrieve identity token: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Value string `json:"value"`
	}

	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(&payload); err != nil {
		logger.Debugf("decoding identity token response: %v", err)
		return "", api.NewProtocolError("failed to retrieve identity token")
	}
	if payload.Value == "" {
		return "", api.NewProtocolError("failed to retrieve identity token")
	}

	masker.SetSecret(payload.Value)
	logClaims(logger, payload.Value)
	return payload.Value, nil
}

// TokenURL appends the url-encoded audience to the runner-provided request URL,
// which normally already carries a query string.
func TokenURL(requestURL, audience string) string {
	sep := "&"
	if !strings.Contains(requestURL, "?") {
		sep = "?"
	}
	return fmt.Sprintf("%s%saudience=%s", requestURL, sep, url.QueryEscape(audience))
}

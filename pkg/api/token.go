package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

const (
	DefaultTokenServiceURL = "https://www.nuget.org/api/v2/token"
	DefaultAudience        = "https://www.nuget.org"

	// UserAgent identifies this client to both the identity provider and the token service.
	UserAgent = "nuget/login-action"

	tokenTypeAPIKey = "ApiKey"
)

// ExchangeRequest describes a single token exchange.
type ExchangeRequest struct {
	PrincipalIdentifier  string
	TokenServiceEndpoint string
	Audience             string
}

// ExchangeResponse is the uninterpreted reply of the token service.
type ExchangeResponse struct {
	HTTPStatus int
	RawBody    string
}

// IssuedCredential is the API key issued by the token service.
type IssuedCredential struct {
	APIKey string
}

type TokenRequest struct {
	Username  string `json:"username"`
	TokenType string `json:"tokenType"`
}

type TokenClient struct {
	Client *http.Client
}

func NewTokenClient() *TokenClient {
	return &TokenClient{Client: http.DefaultClient}
}

// Exchange presents the identity token to the token service. The response is
// returned as-is; only transport failures are reported as errors.
func (c *TokenClient) Exchange(ctx context.Context, identityToken string, req ExchangeRequest) (*ExchangeResponse, error) {
	if identityToken == "" {
		return nil, NewConfigurationError("identity token is empty")
	}
	if err := ValidateEndpoint(req.TokenServiceEndpoint); err != nil {
		return nil, err
	}

	jsonBytes, err := json.Marshal(&TokenRequest{
		Username:  req.PrincipalIdentifier,
		TokenType: tokenTypeAPIKey,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encoding token request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.TokenServiceEndpoint, bytes.NewReader(jsonBytes))
	if err != nil {
		return nil, NewConfigurationError("invalid token service URL: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", identityToken))
	httpReq.Header.Set("User-Agent", UserAgent)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, NewTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransportError(errors.Wrap(err, "reading token service response"))
	}

	return &ExchangeResponse{HTTPStatus: resp.StatusCode, RawBody: string(body)}, nil
}

// ValidateEndpoint checks that endpoint is an absolute http(s) URL.
func ValidateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return NewConfigurationError("invalid token service URL %q", endpoint)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return NewConfigurationError("invalid token service URL %q", endpoint)
	}
	return nil
}

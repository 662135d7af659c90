package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

type tokenResponse struct {
	APIKey *string `json:"apiKey"`
}

type tokenErrorResponse struct {
	Error *string `json:"error"`
}

// Classify decides the outcome of a token exchange from the status code and body alone.
func Classify(resp *ExchangeResponse) (*IssuedCredential, error) {
	if resp == nil {
		return nil, NewProtocolError("response did not contain an API key")
	}

	if resp.HTTPStatus != http.StatusOK {
		return nil, NewRegistryError(resp.HTTPStatus, rejectionReason(resp.RawBody))
	}

	var data tokenResponse
	if err := json.Unmarshal([]byte(resp.RawBody), &data); err != nil {
		return nil, NewProtocolError("response did not contain an API key")
	}
	if data.APIKey == nil || *data.APIKey == "" {
		return nil, NewProtocolError("response did not contain an API key")
	}

	return &IssuedCredential{APIKey: *data.APIKey}, nil
}

// rejectionReason prefers the structured error field and falls back to the body text.
func rejectionReason(body string) string {
	var errResp tokenErrorResponse
	if err := json.Unmarshal([]byte(body), &errResp); err == nil && errResp.Error != nil && strings.TrimSpace(*errResp.Error) != "" {
		return *errResp.Error
	}
	return body
}

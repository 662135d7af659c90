package oidc

import "context"

// OIDCProvider issues identity tokens for a requested audience.
type OIDCProvider interface {
	RetrieveToken(ctx context.Context, audience string) (string, error)
}

// Masker registers values that must never be printed.
type Masker interface {
	SetSecret(value string)
}

type noopMasker struct{}

func (noopMasker) SetSecret(string) {}

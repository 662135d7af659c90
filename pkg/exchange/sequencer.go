// Package exchange runs the OIDC to API key exchange as one fail-fast sequence.
package exchange

import (
	"context"

	"github.com/nuget/login/pkg/api"
	"github.com/nuget/login/pkg/oidc"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// OutputName is the step output that receives the issued API key.
const OutputName = "NUGET_API_KEY"

type TokenExchanger interface {
	Exchange(ctx context.Context, identityToken string, req api.ExchangeRequest) (*api.ExchangeResponse, error)
}

type OutputSetter interface {
	SetOutput(name, value string) error
}

type Sequencer struct {
	Provider  oidc.OIDCProvider
	Exchanger TokenExchanger
	Masker    oidc.Masker
	Outputs   OutputSetter
	Logger    logrus.FieldLogger
}

// Run fetches the identity token, exchanges it and classifies the reply. The
// first failure ends the sequence; its message never carries either secret.
func (s *Sequencer) Run(ctx context.Context, req api.ExchangeRequest) (*api.IssuedCredential, error) {
	if req.PrincipalIdentifier == "" {
		return nil, api.NewConfigurationError("input required and not supplied: user")
	}

	logger := s.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	identityToken, err := s.Provider.RetrieveToken(ctx, req.Audience)
	if err != nil {
		return nil, err
	}
	s.Masker.SetSecret(identityToken)

	logger.Debugf("Exchanging identity token at %s for %s", req.TokenServiceEndpoint, req.PrincipalIdentifier)
	resp, err := s.Exchanger.Exchange(ctx, identityToken, req)
	if err != nil {
		return nil, api.RedactError(err, identityToken)
	}
	logger.Debugf("Token service responded with status %d", resp.HTTPStatus)

	credential, err := api.Classify(resp)
	if err != nil {
		// The rejection reason is server text and may echo the bearer token.
		return nil, api.RedactError(err, identityToken)
	}

	s.Masker.SetSecret(credential.APIKey)
	if err := s.Outputs.SetOutput(OutputName, credential.APIKey); err != nil {
		return nil, api.RedactError(errors.Wrapf(err, "setting output %s", OutputName), identityToken, credential.APIKey)
	}

	logger.Info("Successfully exchanged OIDC token for NuGet API key.")
	return credential, nil
}

package oidc

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// TokenClaims decodes the claims of an identity token without verifying its
// signature. The token service does the verification.
func TokenClaims(token string) (jwt.MapClaims, error) {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

func logClaims(logger logrus.FieldLogger, token string) {
	claims, err := TokenClaims(token)
	if err != nil {
		logger.Debugf("Identity token claims unavailable: %v", err)
		return
	}

	issuer, _ := claims.GetIssuer()
	subject, _ := claims.GetSubject()
	audience, _ := claims.GetAudience()
	logger.Debugf("Identity token issued by %s for %s (audience %s)", issuer, subject, strings.Join(audience, ","))
}

package liquidity

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

var errMissingBearerToken = errors.New("liquidity: missing bearer token")

// AdminAuthenticator gates the /akka-management admin endpoint with an
// RSA-signed JWT, independent of the RSA caller-identity keys the Zone
// Validator itself understands for zone commands (spec.md section 6).
type AdminAuthenticator struct {
	publicKey *rsa.PublicKey
}

// NewAdminAuthenticator parses pemBytes, the PEM-encoded X.509
// SubjectPublicKeyInfo configured as Config.AdminJWTPublicKeyPath, and
// builds an authenticator that verifies admin bearer tokens against it.
func NewAdminAuthenticator(pemBytes []byte) (*AdminAuthenticator, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("liquidity: admin JWT public key is not valid PEM")
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("liquidity: unable to parse admin JWT public key: %w", err)
	}

	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("liquidity: admin JWT public key is not an RSA key")
	}

	return &AdminAuthenticator{publicKey: rsaKey}, nil
}

// Authenticate validates the bearer token on req, returning the token's
// subject claim on success.
func (a *AdminAuthenticator) Authenticate(req *http.Request) (string, error) {
	header := req.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", errMissingBearerToken
	}
	raw := strings.TrimPrefix(header, prefix)

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("liquidity: unexpected admin JWT signing method")
		}
		return a.publicKey, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("liquidity: invalid admin JWT")
	}

	return claims.Subject, nil
}

// Middleware wraps next, rejecting requests that fail Authenticate with 401.
func (a *AdminAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := a.Authenticate(r); err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

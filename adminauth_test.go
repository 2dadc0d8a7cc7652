package liquidity

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

func genAdminKey(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return priv, pemBytes
}

func signAdminToken(t *testing.T, priv *rsa.PrivateKey, subject string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(priv)
	require.NoError(t, err)
	return signed
}

func TestAdminAuthenticateAcceptsValidToken(t *testing.T) {
	priv, pemBytes := genAdminKey(t)
	auth, err := NewAdminAuthenticator(pemBytes)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/akka-management", nil)
	req.Header.Set("Authorization", "Bearer "+signAdminToken(t, priv, "ops-team"))

	subject, err := auth.Authenticate(req)
	require.NoError(t, err)
	require.Equal(t, "ops-team", subject)
}

func TestAdminAuthenticateRejectsWrongKey(t *testing.T) {
	_, pemBytes := genAdminKey(t)
	auth, err := NewAdminAuthenticator(pemBytes)
	require.NoError(t, err)

	otherPriv, _ := genAdminKey(t)
	req := httptest.NewRequest(http.MethodGet, "/akka-management", nil)
	req.Header.Set("Authorization", "Bearer "+signAdminToken(t, otherPriv, "ops-team"))

	_, err = auth.Authenticate(req)
	require.Error(t, err)
}

func TestAdminAuthenticateRejectsMissingBearer(t *testing.T) {
	_, pemBytes := genAdminKey(t)
	auth, err := NewAdminAuthenticator(pemBytes)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/akka-management", nil)
	_, err = auth.Authenticate(req)
	require.ErrorIs(t, err, errMissingBearerToken)
}

func TestAdminMiddlewareRejectsUnauthenticated(t *testing.T) {
	_, pemBytes := genAdminKey(t)
	auth, err := NewAdminAuthenticator(pemBytes)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/akka-management", nil)

	called := false
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	handler.ServeHTTP(rec, req)

	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/trait-inventory/internal/api/middleware"
	"github.com/feral-file/trait-inventory/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func generateKey(t *testing.T) (*rsa.PrivateKey, string) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return key, string(publicPEM)
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.RegisteredClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	key, publicPEM := generateKey(t)
	otherKey, _ := generateKey(t)
	cfg := middleware.AuthConfig{JWTPublicKey: publicPEM, APIKeys: []string{"", "key-1", "key-2"}}

	valid := signToken(t, key, jwt.RegisteredClaims{
		Subject:   "payment-backend",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	expired := signToken(t, key, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	foreign := signToken(t, otherKey, jwt.RegisteredClaims{})
	hmac, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		success  bool
		authType string
		subject  string
	}{
		{name: "missing header", header: ""},
		{name: "malformed header", header: "Bearer"},
		{name: "unsupported scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "valid jwt", header: "Bearer " + valid, success: true, authType: "jwt", subject: "payment-backend"},
		{name: "expired jwt", header: "Bearer " + expired},
		{name: "jwt signed by another key", header: "Bearer " + foreign},
		{name: "hmac jwt", header: "Bearer " + hmac},
		{name: "valid api key", header: "ApiKey key-2", success: true, authType: "apikey"},
		{name: "scheme is case insensitive", header: "apikey key-1", success: true, authType: "apikey"},
		{name: "invalid api key", header: "ApiKey key-3"},
		{name: "empty api key", header: "ApiKey "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := middleware.Authenticate(tt.header, cfg)
			assert.Equal(t, tt.success, result.Success)
			if tt.success {
				assert.NoError(t, result.Error)
				assert.Equal(t, tt.authType, result.AuthType)
				assert.Equal(t, tt.subject, result.AuthSubject)
			} else {
				assert.Error(t, result.Error)
			}
		})
	}
}

func TestAuthenticate_NotConfigured(t *testing.T) {
	result := middleware.Authenticate("Bearer token", middleware.AuthConfig{})
	require.False(t, result.Success)
	assert.Contains(t, result.Error.Error(), "not configured")

	result = middleware.Authenticate("ApiKey key", middleware.AuthConfig{})
	require.False(t, result.Success)
	assert.Contains(t, result.Error.Error(), "no API keys configured")
}

func TestAuthMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/private", middleware.Auth(middleware.AuthConfig{APIKeys: []string{"key-1"}}), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("auth_type"))
	})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "ApiKey key-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "apikey", w.Body.String())
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}

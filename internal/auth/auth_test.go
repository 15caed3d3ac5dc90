package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genadi53/next-ismp-sub001/internal/auth"
)

var secret = []byte("test-secret")

func sign(t *testing.T, method jwt.SigningMethod, key any, claims auth.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func TestMiddleware(t *testing.T) {
	valid := sign(t, jwt.SigningMethodHS256, secret, auth.Claims{
		Email:            "ivan.petrov@mine.bg",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	subjectOnly := sign(t, jwt.SigningMethodHS256, secret, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-42"},
	})
	expired := sign(t, jwt.SigningMethodHS256, secret, auth.Claims{
		Email:            "ivan.petrov@mine.bg",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
	})
	otherKey := sign(t, jwt.SigningMethodHS256, []byte("other"), auth.Claims{Email: "x@y"})
	anonymous := sign(t, jwt.SigningMethodHS256, secret, auth.Claims{})

	tests := []struct {
		name     string
		secret   []byte
		header   string
		wantCode int
		wantUser string
	}{
		{name: "Valid", secret: secret, header: "Bearer " + valid, wantCode: http.StatusOK, wantUser: "ivan.petrov@mine.bg"},
		{name: "SubjectFallback", secret: secret, header: "bearer " + subjectOnly, wantCode: http.StatusOK, wantUser: "u-42"},
		{name: "Expired", secret: secret, header: "Bearer " + expired, wantCode: http.StatusUnauthorized},
		{name: "WrongKey", secret: secret, header: "Bearer " + otherKey, wantCode: http.StatusUnauthorized},
		{name: "NoIdentity", secret: secret, header: "Bearer " + anonymous, wantCode: http.StatusUnauthorized},
		{name: "Missing", secret: secret, header: "", wantCode: http.StatusUnauthorized},
		{name: "BasicScheme", secret: secret, header: "Basic abc", wantCode: http.StatusUnauthorized},
		{name: "Disabled", secret: nil, header: "", wantCode: http.StatusOK, wantUser: "dev@localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				u, ok := auth.UserFromContext(r.Context())
				require.True(t, ok)

				gotUser = u.ID
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			auth.Middleware(tt.secret, "dev@localhost")(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantUser, gotUser)
		})
	}
}

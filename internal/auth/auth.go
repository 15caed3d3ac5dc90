package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoUser = errors.New("no authenticated user")

// Claims are the portal token claims. The subject is used when no email is set.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// User is the identity recorded as the author of an import.
type User struct {
	ID   string
	Name string
}

type contextKey string

const userKey contextKey = "user"

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey).(User)
	return u, ok && u.ID != ""
}

// Middleware authenticates bearer tokens signed with an HMAC secret. With an
// empty secret every request runs as devUser.
func Middleware(secret []byte, devUser string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(secret) == 0 {
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), User{ID: devUser})))
				return
			}

			user, err := Parse(secret, r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// Parse validates an Authorization header value and returns its user.
func Parse(secret []byte, header string) (User, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return User{}, fmt.Errorf("malformed authorization header")
	}

	var claims Claims

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return secret, nil
	})
	if err != nil {
		return User{}, fmt.Errorf("parsing token: %w", err)
	}

	id := claims.Email
	if id == "" {
		id = claims.Subject
	}

	if id == "" {
		return User{}, ErrNoUser
	}

	return User{ID: id, Name: claims.Name}, nil
}

package http

import (
	"net/http"
	"strings"

	"github.com/tair/user-favorites/internal/user/domain"
	"github.com/tair/user-favorites/pkg/auth"
)

// Authenticator turns bearer tokens into a domain.Identity on the request
// context. Authorization itself happens in the use cases.
type Authenticator struct {
	tokens *auth.TokenManager
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(tokens *auth.TokenManager) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Require rejects requests without a valid bearer token
func (a *Authenticator) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		identity, err := a.identify(authHeader)
		if err != nil {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(domain.WithIdentity(r.Context(), *identity)))
	}
}

// Optional attaches an identity when a valid token is present and lets
// anonymous requests through. A malformed or expired token is still rejected.
func (a *Authenticator) Optional(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := a.identify(authHeader)
		if err != nil {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(domain.WithIdentity(r.Context(), *identity)))
	}
}

func (a *Authenticator) identify(authHeader string) (*domain.Identity, error) {
	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, domain.NewError(domain.KindUnauthenticated, "Invalid authorization header format")
	}

	claims, err := a.tokens.ValidateToken(parts[1])
	if err != nil {
		return nil, domain.NewError(domain.KindUnauthenticated, "Invalid token")
	}

	return &domain.Identity{
		UserID:   claims.UserID,
		UserName: claims.UserName,
		Role:     claims.Role,
	}, nil
}

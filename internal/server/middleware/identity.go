// Package middleware provides HTTP middleware for request identity.
package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// identityKey is the context key for storing the resolved request identity.
const identityKey ContextKey = "identity"

// TokenValidator is an interface for validating JWT tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (SubjectGetter, error)
}

// SubjectGetter is an interface for extracting the subject from token claims.
type SubjectGetter interface {
	GetSubject() string
}

// IdentityMiddleware resolves a stable identity for each request and stores
// it in the request context. A valid Bearer token contributes its subject;
// anything else falls back to the client IP. Requests are never rejected
// here, the identity only keys the rate limiters.
func IdentityMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := ""
			if validator != nil {
				if token := bearerToken(r); token != "" {
					if claims, err := validator.ValidateToken(token); err == nil {
						identity = claims.GetSubject()
					}
				}
			}
			if identity == "" {
				identity = ClientIP(r)
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity extracts the request identity from the context, falling back
// to the client IP for requests that bypassed the middleware.
func GetIdentity(r *http.Request) string {
	if identity, ok := r.Context().Value(identityKey).(string); ok && identity != "" {
		return identity
	}
	return ClientIP(r)
}

// ClientIP extracts the client IP from RemoteAddr.
// X-Forwarded-For is deliberately ignored; it is client-controlled unless
// a trusted proxy strips it.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// bearerToken extracts the Bearer token from the Authorization header.
// Returns the empty string when no well-formed Bearer token is present.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

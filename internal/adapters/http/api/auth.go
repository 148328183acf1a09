package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/huwdunnit/snookerup/internal/domain/access"
)

// principalKey is the context key under which the resolved caller
// identity is stored for the lifetime of one request.
type principalKey struct{}

// PrincipalFrom extracts the authenticated caller from the request
// context. The second return is false for unauthenticated requests.
func PrincipalFrom(ctx context.Context) (access.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(access.Principal)
	return p, ok
}

// authenticated resolves the caller from the Authorization header and
// stores a Principal on the request context. Both HTTP Basic and Bearer
// token schemes are accepted; requests carrying neither get a 401.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if email, password, ok := r.BasicAuth(); ok {
			u, err := s.deps.Authenticate(r.Context(), email, password)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), principalKey{}, access.Principal{ID: u.ID, Admin: u.Admin})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if token, ok := bearerToken(r); ok {
			u, err := s.deps.VerifyToken(r.Context(), token)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), principalKey{}, access.Principal{ID: u.ID, Admin: u.Admin})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		writeUnauthorized(w)
	}
}

// requireAdmin rejects authenticated callers that lack the admin role.
func requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			writeUnauthorized(w)
			return
		}
		if !p.Admin {
			writeForbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):], true
	}
	return "", false
}

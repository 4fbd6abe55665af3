package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"moments/apperr"
	"moments/model"
	"moments/pkg/jwt"
)

type contextKey string

const requesterKey contextKey = "requester"

// Auth authenticates requests from a Bearer token. Handlers read the result
// with RequesterFromContext; a missing requester means anonymous.
type Auth struct {
	jwtManager *jwt.Manager
}

func NewAuth(jwtManager *jwt.Manager) *Auth {
	return &Auth{jwtManager: jwtManager}
}

// Optional resolves the requester when a token is supplied and lets
// anonymous requests through. A malformed or expired token is still
// rejected rather than silently downgraded to anonymous.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		requester, err := a.authorize(header)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withRequester(r.Context(), requester)))
	})
}

// Required rejects anonymous requests.
func (a *Auth) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeAuthError(w, apperr.ErrUnauthenticated)
			return
		}

		requester, err := a.authorize(header)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withRequester(r.Context(), requester)))
	})
}

func (a *Auth) authorize(header string) (*models.Requester, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, apperr.ErrUnauthenticated
	}
	token := strings.TrimPrefix(header, "Bearer ")

	claims, err := a.jwtManager.Verify(token)
	if err != nil {
		return nil, apperr.ErrUnauthenticated
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperr.ErrUnauthenticated
	}

	return &models.Requester{ID: userID, Username: claims.Username}, nil
}

func withRequester(ctx context.Context, requester *models.Requester) context.Context {
	return context.WithValue(ctx, requesterKey, requester)
}

// RequesterFromContext returns the authenticated requester, or nil for an
// anonymous request.
func RequesterFromContext(ctx context.Context) *models.Requester {
	requester, ok := ctx.Value(requesterKey).(*models.Requester)
	if !ok {
		return nil
	}
	return requester
}

func writeAuthError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperr.Status(err))
	json.NewEncoder(w).Encode(apperr.Body(err))
}

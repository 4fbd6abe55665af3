package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"moments/model"
	"moments/pkg/jwt"
)

func testToken(t *testing.T, manager *jwt.Manager, userID uuid.UUID, username string) string {
	t.Helper()
	token, err := manager.Generate(userID.String(), username, time.Hour)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return token
}

func captureRequester(got **models.Requester) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = RequesterFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestOptionalAllowsAnonymous(t *testing.T) {
	auth := NewAuth(jwt.NewManager("test-secret"))

	var requester *models.Requester
	rec := httptest.NewRecorder()
	auth.Optional(captureRequester(&requester)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if requester != nil {
		t.Errorf("requester = %+v, want nil for anonymous request", requester)
	}
}

func TestOptionalResolvesRequester(t *testing.T) {
	manager := jwt.NewManager("test-secret")
	auth := NewAuth(manager)
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, manager, userID, "alice"))

	var requester *models.Requester
	rec := httptest.NewRecorder()
	auth.Optional(captureRequester(&requester)).ServeHTTP(rec, req)

	if requester == nil {
		t.Fatal("expected a resolved requester")
	}
	if requester.ID != userID || requester.Username != "alice" {
		t.Errorf("requester = %+v, want %s/alice", requester, userID)
	}
}

func TestOptionalRejectsBadToken(t *testing.T) {
	auth := NewAuth(jwt.NewManager("test-secret"))

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	rec := httptest.NewRecorder()
	auth.Optional(captureRequester(new(*models.Requester))).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for a malformed token", rec.Code)
	}
}

func TestRequiredRejectsAnonymous(t *testing.T) {
	auth := NewAuth(jwt.NewManager("test-secret"))

	rec := httptest.NewRecorder()
	auth.Required(captureRequester(new(*models.Requester))).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequiredRejectsNonBearerScheme(t *testing.T) {
	auth := NewAuth(jwt.NewManager("test-secret"))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic abc")

	rec := httptest.NewRecorder()
	auth.Required(captureRequester(new(*models.Requester))).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequiredRejectsTokenFromWrongSecret(t *testing.T) {
	auth := NewAuth(jwt.NewManager("test-secret"))
	other := jwt.NewManager("other-secret")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, other, uuid.New(), "mallory"))

	rec := httptest.NewRecorder()
	auth.Required(captureRequester(new(*models.Requester))).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

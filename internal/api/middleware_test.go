package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func TestBearerAuthRequired(t *testing.T) {
	router, _, _ := setupRouter("secret-token")

	w := doRequest(router, http.MethodGet, "/psa/backlog/"+uuid.NewString(), "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/psa/backlog/"+uuid.NewString(), "", "wrong-token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/psa/backlog/"+uuid.NewString(), "", "secret-token")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", w.Code)
	}
}

func TestBearerAuthDisabledWhenEmpty(t *testing.T) {
	router, _, _ := setupRouter("")

	w := doRequest(router, http.MethodGet, "/psa/backlog/"+uuid.NewString(), "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with auth disabled, got %d", w.Code)
	}
}

func TestBearerAuthCoversLMSRoutes(t *testing.T) {
	router, _, _ := setupRouter("secret-token")

	w := doRequest(router, http.MethodGet, "/lms/courses", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	ms := newMockStore()
	router := NewRouter(ms, nil, nil, "", 3, discardLogger())

	path := "/psa/backlog/" + uuid.NewString()
	for i := 0; i < 3; i++ {
		w := doRequest(router, http.MethodGet, path, "", "")
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	w := doRequest(router, http.MethodGet, path, "", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Success {
		t.Error("rate limit response should carry success=false")
	}
}

func TestRateLimitKeyedByToken(t *testing.T) {
	ms := newMockStore()
	router := NewRouter(ms, nil, nil, "", 2, discardLogger())

	path := "/psa/backlog/" + uuid.NewString()
	for i := 0; i < 2; i++ {
		if w := doRequest(router, http.MethodGet, path, "", "client-a"); w.Code != http.StatusOK {
			t.Fatalf("client-a request %d: got %d", i+1, w.Code)
		}
	}
	if w := doRequest(router, http.MethodGet, path, "", "client-a"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("client-a should be limited, got %d", w.Code)
	}

	// A different bearer token gets its own bucket.
	if w := doRequest(router, http.MethodGet, path, "", "client-b"); w.Code != http.StatusOK {
		t.Fatalf("client-b should not be limited, got %d", w.Code)
	}
}

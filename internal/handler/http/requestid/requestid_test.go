package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestFromContext(t *testing.T) {
	t.Run("returns stored request ID", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-123")
		if got := FromContext(ctx); got != "req-123" {
			t.Errorf("FromContext() = %q, want %q", got, "req-123")
		}
	})

	t.Run("returns empty string when absent", func(t *testing.T) {
		if got := FromContext(context.Background()); got != "" {
			t.Errorf("FromContext() = %q, want empty", got)
		}
	})
}

func TestMiddlewareGeneratesID(t *testing.T) {
	var seenID string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/voter-guides", nil)
	handler.ServeHTTP(rec, req)

	if seenID == "" {
		t.Fatal("expected a generated request ID in context")
	}
	if _, err := uuid.Parse(seenID); err != nil {
		t.Errorf("generated ID %q is not a valid UUID: %v", seenID, err)
	}
	if got := rec.Header().Get(RequestIDHeader); got != seenID {
		t.Errorf("response header = %q, want %q", got, seenID)
	}
}

func TestMiddlewarePropagatesExistingID(t *testing.T) {
	var seenID string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/voter-guides", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	handler.ServeHTTP(rec, req)

	if seenID != "client-supplied-id" {
		t.Errorf("context ID = %q, want client-supplied-id", seenID)
	}
	if got := rec.Header().Get(RequestIDHeader); got != "client-supplied-id" {
		t.Errorf("response header = %q, want client-supplied-id", got)
	}
}

func TestMiddlewareReplacesOversizedID(t *testing.T) {
	var seenID string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = FromContext(r.Context())
	}))

	oversized := strings.Repeat("x", 129)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/voter-guides", nil)
	req.Header.Set(RequestIDHeader, oversized)
	handler.ServeHTTP(rec, req)

	if seenID == oversized {
		t.Fatal("oversized client ID should not be propagated")
	}
	if _, err := uuid.Parse(seenID); err != nil {
		t.Errorf("replacement ID %q is not a valid UUID: %v", seenID, err)
	}
}

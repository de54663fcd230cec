package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWrapDefaultsToOK(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	if _, err := w.Write([]byte("body")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if w.StatusCode() != http.StatusOK {
		t.Errorf("StatusCode() = %d, want %d", w.StatusCode(), http.StatusOK)
	}
	if w.BytesWritten() != 4 {
		t.Errorf("BytesWritten() = %d, want 4", w.BytesWritten())
	}
}

func TestWriteHeaderRecordsStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	w.WriteHeader(http.StatusNotFound)

	if w.StatusCode() != http.StatusNotFound {
		t.Errorf("StatusCode() = %d, want %d", w.StatusCode(), http.StatusNotFound)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("underlying code = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestWriteHeaderOnlyFirstCallCounts(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	w.WriteHeader(http.StatusTooManyRequests)
	w.WriteHeader(http.StatusOK)

	if w.StatusCode() != http.StatusTooManyRequests {
		t.Errorf("StatusCode() = %d, want %d", w.StatusCode(), http.StatusTooManyRequests)
	}
}

func TestBytesWrittenAccumulates(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	_, _ = w.Write([]byte("abc"))
	_, _ = w.Write([]byte("defg"))

	if w.BytesWritten() != 7 {
		t.Errorf("BytesWritten() = %d, want 7", w.BytesWritten())
	}
}

func TestUnwrapReturnsUnderlyingWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	if w.Unwrap() != rec {
		t.Error("Unwrap() did not return the wrapped ResponseWriter")
	}
}

// Package respond writes JSON API responses. Every endpoint returns a JSON
// body, and error bodies never echo storage-level detail back to the caller.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// JSON writes v as the response body with the given status code. A nil v
// writes headers only.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent, all we can do is log.
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// callerSafePhrases marks error messages produced by input validation and
// lookup misses. Anything else is assumed to carry internal detail such as
// driver errors or connection strings.
var callerSafePhrases = []string{
	"required",
	"invalid",
	"not found",
	"already exists",
	"must be",
	"cannot be",
	"too long",
	"too short",
}

func callerSafe(msg string) bool {
	msg = strings.ToLower(msg)
	for _, phrase := range callerSafePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// SafeError writes a JSON error body. Messages that read like validation
// output are returned verbatim. Everything else, and every 5xx regardless of
// wording, is replaced with a generic message; the real error is logged with
// credentials masked.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	if code < 500 && callerSafe(err.Error()) {
		JSON(w, code, map[string]string{"error": err.Error()})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": "internal server error"})
}

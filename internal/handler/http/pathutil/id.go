package pathutil

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ExtractID parses the positive integer ID that follows prefix in path.
// The mux patterns that use it match whole subtrees, so a remainder with
// further path segments is rejected rather than parsed.
//
//	id, err := ExtractID("/voter-guides/123", "/voter-guides/")
//	// 123, nil
func ExtractID(path, prefix string) (int64, error) {
	rest, found := strings.CutPrefix(path, prefix)
	if !found || rest == "" || strings.Contains(rest, "/") {
		return 0, ErrInvalidID
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

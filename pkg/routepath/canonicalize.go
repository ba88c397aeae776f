// Package routepath normalizes request paths before they reach the route
// table. Canonicalization keeps matching independent of slash and dot-segment
// noise and rejects inputs that smell like path smuggling.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Canonicalization errors.
var (
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// Result is the outcome of canonicalizing a request path.
type Result struct {
	// Path is the canonical path, without query string.
	Path string

	// Query is the query string without the leading "?", preserved verbatim.
	Query string

	// Changed reports whether canonicalization modified the path.
	Changed bool
}

// Canonicalize normalizes a request path:
//
//   - ensures a leading "/"
//   - collapses repeated slashes
//   - drops "." segments and resolves ".."
//   - strips the trailing slash (except for root)
//
// It rejects paths containing a backslash, a NUL byte (literal or %00),
// malformed percent escapes, or ".." that would climb above root. The query
// string, if any, is split off and kept untouched.
func Canonicalize(input string) (Result, error) {
	if input == "" {
		return Result{Path: "/", Changed: true}, nil
	}

	path, query, _ := strings.Cut(input, "?")

	if strings.Contains(path, "\\") {
		return Result{}, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Result{}, ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := checkPercentEscapes(path); err != nil {
			return Result{}, err
		}
	}

	original := path

	var segments []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segments) == 0 {
				return Result{}, ErrPathEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	path = "/" + strings.Join(segments, "/")

	return Result{
		Path:    path,
		Query:   query,
		Changed: path != original,
	}, nil
}

// DecodeSegments percent-decodes each segment of a canonical path. Segments
// whose decoded form contains "/" are rejected as smuggled separators.
func DecodeSegments(path string) ([]string, error) {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil, nil
	}

	segments := strings.Split(path, "/")
	decoded := make([]string, 0, len(segments))
	for _, seg := range segments {
		d, err := url.PathUnescape(seg)
		if err != nil {
			return nil, ErrInvalidPercentEscape
		}
		if strings.Contains(d, "/") {
			return nil, ErrInvalidPercentEscape
		}
		decoded = append(decoded, d)
	}
	return decoded, nil
}

func checkPercentEscapes(path string) error {
	for i := 0; i < len(path); {
		if path[i] != '%' {
			i++
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 3
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

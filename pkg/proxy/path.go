package proxy

import (
	"net/http"
	"strings"
	"unicode"

	"wgportal/gateway/pkg/proxy/types"
)

// allowedMethods are the only HTTP methods the dispatcher relays.
var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// NormalizeMethod upper-cases method, defaulting to GET when empty.
func NormalizeMethod(method string) (string, error) {
	m := strings.ToUpper(strings.TrimSpace(method))
	if m == "" {
		return http.MethodGet, nil
	}
	if !allowedMethods[m] {
		return "", &InvalidRequestError{
			Field:   "method",
			Message: "unsupported HTTP method " + quoteShort(method),
			Code:    types.CodeUnsupportedMethod,
		}
	}
	return m, nil
}

// IsMutating reports whether method changes router state.
func IsMutating(method string) bool {
	return method != http.MethodGet
}

// ValidatePath checks that path is a plain absolute REST path under root.
//
// Rejected: paths not starting with "/", "." or ".." segments, empty
// segments ("//"), backslashes, control characters and whitespace, query or
// fragment delimiters, and percent-encoding (which could smuggle any of the
// above past this check). Item ids such as "*1A" and hyphenated menus such
// as "dhcp-server" are allowed.
func ValidatePath(path, root string) error {
	if path == "" {
		return &InvalidRequestError{Field: "path", Message: "is required", Code: types.CodeInvalidRequest}
	}
	if !strings.HasPrefix(path, "/") {
		return &InvalidRequestError{Field: "path", Message: "must start with /", Code: types.CodeInvalidRequest}
	}

	for _, r := range path {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return &InvalidRequestError{Field: "path", Message: "must not contain whitespace or control characters", Code: types.CodeInvalidRequest}
		}
		switch r {
		case '\\', '?', '#', '%':
			return &InvalidRequestError{Field: "path", Message: "must not contain " + string(r), Code: types.CodeInvalidRequest}
		}
	}

	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, seg := range segments {
		switch seg {
		case ".", "..":
			return &InvalidRequestError{Field: "path", Message: "must not contain relative segments", Code: types.CodeInvalidRequest}
		case "":
			// A single trailing slash is tolerated.
			if i != len(segments)-1 || i == 0 {
				return &InvalidRequestError{Field: "path", Message: "must not contain empty segments", Code: types.CodeInvalidRequest}
			}
		}
	}

	if root != "" && path != root && !strings.HasPrefix(path, root+"/") {
		return &InvalidRequestError{Field: "path", Message: "must be under " + root, Code: types.CodeInvalidRequest}
	}

	return nil
}

func quoteShort(s string) string {
	const max = 16
	if len(s) > max {
		s = s[:max] + "..."
	}
	return `"` + s + `"`
}

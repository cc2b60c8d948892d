package proxy

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"wgportal/gateway/pkg/proxy/types"
	"wgportal/gateway/pkg/routers"
)

// InvalidRequestError reports a relay request that is well-formed JSON but
// cannot be sent: a bad path or method, or a body that failed to decode.
type InvalidRequestError struct {
	// Field is the offending request field.
	Field string

	// Message describes the problem.
	Message string

	// Code is the envelope error code.
	Code string
}

// Error implements the error interface.
func (e *InvalidRequestError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Message)
}

// coder is implemented by every typed error that carries an envelope code.
type coder interface {
	Code() string
}

// ErrorCode maps an error onto its envelope code.
func ErrorCode(err error) string {
	var reqErr *InvalidRequestError
	if errors.As(err, &reqErr) {
		if reqErr.Code != "" {
			return reqErr.Code
		}
		return types.CodeInvalidRequest
	}

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}

	return types.CodeInternalError
}

// ErrorStatus returns the router status carried by err, if any. Only
// upstream errors have one.
func ErrorStatus(err error) *int {
	var upstream *routers.UpstreamError
	if errors.As(err, &upstream) {
		return types.IntPtr(upstream.StatusCode)
	}
	return nil
}

var (
	authHeaderPattern = regexp.MustCompile(`(?i)\b(basic|bearer)\s+[A-Za-z0-9+/=._~-]+`)
	userinfoPattern   = regexp.MustCompile(`(?i)([a-z][a-z0-9+.-]*://)[^/@\s]+@`)
)

// SanitizeError renders err for callers with every secret removed. Each
// non-empty secret is replaced by "***", as are Authorization header values
// and URL userinfo.
func SanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}
	return SanitizeMessage(err.Error(), secrets...)
}

// SanitizeMessage applies the SanitizeError rules to a plain string.
func SanitizeMessage(msg string, secrets ...string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		msg = strings.ReplaceAll(msg, secret, "***")
	}
	msg = authHeaderPattern.ReplaceAllString(msg, "$1 ***")
	msg = userinfoPattern.ReplaceAllString(msg, "${1}***@")
	return msg
}

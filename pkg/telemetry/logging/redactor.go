package logging

import (
	"log/slog"
	"regexp"
	"strings"

	"wgportal/gateway/pkg/config"
)

// Redactor removes credentials from log fields.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternBasicAuth   = "basic_auth"
	PatternBearerToken = "bearer_token"
	PatternPassword    = "password"
	PatternPrivateKey  = "private_key"
	PatternURLUserinfo = "url_userinfo"
)

// redacted replaces every sensitive value in full. Unlike API keys, a
// password prefix is itself sensitive.
const redacted = "***"

// sensitiveKeys are matched as substrings of lower-cased attribute keys.
var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"secret", "token",
	"authorization", "auth_header", "credential",
	"private_key", "privatekey", "private-key",
	"preshared_key", "presharedkey", "preshared-key",
	"encryption_key",
}

// NewRedactor creates a Redactor with the built-in patterns followed by
// customPatterns. Invalid custom patterns are skipped.
func NewRedactor(customPatterns []config.RedactPattern) *Redactor {
	r := &Redactor{}

	r.add(PatternBasicAuth, `(?i)\bBasic\s+[A-Za-z0-9+/]+=*`, "Basic ***")
	r.add(PatternBearerToken, `(?i)\bBearer\s+[A-Za-z0-9\-._~+/]+=*`, "Bearer ***")
	r.add(PatternPassword, `(?i)("?(?:password|passwd|pwd)"?\s*[:=]\s*)"?[^\s",}&]+"?`, "${1}***")
	r.add(PatternPrivateKey, `(?i)("?private[-_]?key"?\s*[:=]\s*)"?[^\s",}&]+"?`, "${1}***")
	r.add(PatternURLUserinfo, `(?i)([a-z][a-z0-9+.-]*://)[^/@\s]+@`, "${1}***@")

	for _, p := range customPatterns {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		r.patterns = append(r.patterns, &redactPattern{name: p.Name, regex: regex, replacement: p.Replacement})
	}

	return r
}

func (r *Redactor) add(name, pattern, replacement string) {
	r.patterns = append(r.patterns, &redactPattern{
		name:        name,
		regex:       regexp.MustCompile(pattern),
		replacement: replacement,
	})
}

// RedactString redacts credential-looking substrings from value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// RedactArgs redacts variadic key-value log arguments.
func (r *Redactor) RedactArgs(args ...any) []any {
	if len(args) == 0 {
		return args
	}

	out := make([]any, len(args))
	copy(out, args)

	for i := 0; i < len(out); i++ {
		switch v := out[i].(type) {
		case slog.Attr:
			out[i] = r.RedactAttr(v)
		case string:
			if i+1 >= len(out) {
				continue
			}
			if IsSensitiveKey(v) {
				out[i+1] = redacted
			} else if s, ok := out[i+1].(string); ok {
				out[i+1] = r.RedactString(s)
			}
			i++
		}
	}

	return out
}

// RedactAttr redacts a single attribute, descending into groups.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	if IsSensitiveKey(a.Key) && a.Value.Kind() != slog.KindGroup {
		return slog.String(a.Key, redacted)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.RedactString(a.Value.String()))
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			out[i] = r.RedactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	case slog.KindLogValuer:
		return r.RedactAttr(slog.Attr{Key: a.Key, Value: a.Value.Resolve()})
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}

	return a
}

// IsSensitiveKey reports whether key names a credential.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

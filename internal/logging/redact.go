// Package logging provides the zap backed logger used by ghostctl and the
// redaction helpers applied to every field before it is written.
package logging

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
)

// Sensitive key patterns that should be redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"key",
	"credential",
	"authorization",
	"cookie",
	"bearer",
}

var (
	// Three base64url segments, as in a signed admin token.
	jwtPattern = regexp.MustCompile(`eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*`)
	// "<id>:<hex secret>" admin keys.
	adminKeyPattern = regexp.MustCompile(`\b([0-9a-fA-F]{24}):[0-9a-fA-F]{32,}\b`)
	// Authorization values embedded in free text.
	schemePattern = regexp.MustCompile(`(?i)\b(Bearer|Ghost)\s+[A-Za-z0-9._~+/=-]+`)
	// Credential query parameters inside URLs quoted in free text, e.g. transport errors.
	queryParamPattern = regexp.MustCompile(`(?i)([?&][^=&#\s"]*(?:key|token|secret|password|credential)[^=&#\s"]*=)[^&#\s"]+`)
)

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}

	return false
}

// RedactString masks tokens, admin keys and Authorization values found inside value.
func RedactString(value string) string {
	value = schemePattern.ReplaceAllString(value, "$1 "+constants.RedactedValue)
	value = jwtPattern.ReplaceAllString(value, constants.RedactedValue)
	value = adminKeyPattern.ReplaceAllString(value, "$1:"+constants.RedactedValue)
	value = queryParamPattern.ReplaceAllString(value, "${1}"+constants.RedactedValue)

	return value
}

// RedactURL drops userinfo passwords and masks the values of query parameters
// whose names look sensitive. Parameter order and the remaining values are kept.
func RedactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return RedactString(raw)
	}

	if _, ok := parsed.User.Password(); ok {
		parsed.User = url.User(parsed.User.Username())
	}

	if parsed.RawQuery != "" {
		pairs := strings.Split(parsed.RawQuery, "&")

		for i, pair := range pairs {
			name, _, found := strings.Cut(pair, "=")
			if !found {
				continue
			}

			decoded, err := url.QueryUnescape(name)
			if err != nil {
				decoded = name
			}

			if IsSensitiveKey(decoded) {
				pairs[i] = name + "=" + constants.RedactedValue
			}
		}

		parsed.RawQuery = strings.Join(pairs, "&")
	}

	return RedactString(parsed.String())
}

// RedactHeader returns a copy of header with credential bearing values replaced.
func RedactHeader(header http.Header) http.Header {
	if header == nil {
		return nil
	}

	out := make(http.Header, len(header))

	for name, values := range header {
		redacted := make([]string, len(values))

		for i, value := range values {
			if IsSensitiveKey(name) && value != "" {
				redacted[i] = constants.RedactedValue

				continue
			}

			redacted[i] = RedactString(value)
		}

		out[name] = redacted
	}

	return out
}

// RedactFields returns a copy of fields safe to log. Nested maps and headers are walked.
func RedactFields(fields map[string]interface{}) map[string]interface{} {
	if fields == nil {
		return nil
	}

	out := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		out[key] = redactValue(key, value)
	}

	return out
}

func redactValue(key string, value interface{}) interface{} {
	switch typed := value.(type) {
	case string:
		if IsSensitiveKey(key) && typed != "" {
			return constants.RedactedValue
		}

		return RedactString(typed)
	case []byte:
		return RedactString(string(typed))
	case http.Header:
		return RedactHeader(typed)
	case map[string]string:
		out := make(map[string]string, len(typed))
		for k, v := range typed {
			if IsSensitiveKey(k) && v != "" {
				out[k] = constants.RedactedValue
			} else {
				out[k] = RedactString(v)
			}
		}

		return out
	case map[string]interface{}:
		return RedactFields(typed)
	case error:
		return RedactString(typed.Error())
	default:
		return value
	}
}

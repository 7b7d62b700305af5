// Package redact scrubs sensitive information from strings before they reach
// logs or error responses. Error text in this codebase can carry database
// connection URLs, engine basic-auth credentials, session tokens, and raw SQL
// fragments; everything that logs an error funnels its message through here.
package redact

import "regexp"

// Redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
)

// Precompiled patterns, ordered so the more specific credential forms win
// before the generic host pattern rewrites the URL they live in.
var (
	// postgres:// and friends with inline user:pass
	connStringRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql|amqp|redis)://[^@\s]+@`)

	// user:pass@ in any other URL, e.g. the engine's basic-auth endpoint
	basicAuthRegex = regexp.MustCompile(`(?i)\b(https?)://[^/@\s]+:[^/@\s]+@`)

	// password=... / pwd: ... key-value fragments
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?|['"]?[=:])[^'"&\s]{3,}`)

	// secret/key/token key-value fragments
	secretRegex = regexp.MustCompile(`(?i)(secret|api[_-]?key|token|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`)

	// three-part base64url JWT
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// absolute unix paths with at least two components
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)

	// SQL statement fragments leaked out of database/sql errors
	sqlRegex = regexp.MustCompile(
		`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()]+(?:FROM|INTO|SET|TABLE)(?:[\s\w,*()='"$]+)?`,
	)

	// bare host:port endpoints
	hostPortRegex = regexp.MustCompile(
		`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`,
	)

	patterns = []struct {
		re          *regexp.Regexp
		placeholder string
	}{
		{connStringRegex, RedactedCredentialPlaceholder},
		{basicAuthRegex, RedactedCredentialPlaceholder},
		{passwordRegex, RedactedCredentialPlaceholder},
		{secretRegex, RedactedTokenPlaceholder},
		{jwtTokenRegex, RedactedTokenPlaceholder},
		{unixPathRegex, RedactedPathPlaceholder},
		{sqlRegex, RedactedSQLPlaceholder},
		{hostPortRegex, RedactedHostPlaceholder},
	}
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, p := range patterns {
		result = p.re.ReplaceAllString(result, p.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

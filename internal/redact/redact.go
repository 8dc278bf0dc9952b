// Package redact scrubs sensitive values from strings before they are logged
// or echoed back in error responses. Backend SDK errors routinely quote
// request URLs, headers and payload fragments, so everything that reaches a
// log line from an adapter is passed through Error first.
package redact

import "regexp"

// Placeholders substituted for redacted values.
const (
	Placeholder           = "[REDACTED]"
	KeyPlaceholder        = "[REDACTED_KEY]"
	TokenPlaceholder      = "[REDACTED_TOKEN]"
	JWTPlaceholder        = "[REDACTED_JWT]"
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	DataPlaceholder       = "[REDACTED_DATA]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules are applied in order; earlier rules take the most specific shapes.
var rules = []rule{
	{
		pattern:     regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
		replacement: JWTPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`data:[\w/+.-]+;base64,[A-Za-z0-9+/=]+`),
		replacement: "data:" + DataPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._~+/=-]+`),
		replacement: "${1}" + TokenPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{16,}`),
		replacement: KeyPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`\bAIza[0-9A-Za-z_-]{30,}`),
		replacement: KeyPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(postgres(?:ql)?|rediss?)://[^@\s/]+@`),
		replacement: "${1}://" + CredentialPlaceholder + "@",
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(api[_-]?key|secret|password|passwd|token)(\s*[=:]\s*)['"]?[^'"\s&,]+['"]?`),
		replacement: "${1}${2}" + Placeholder,
	},
	{
		pattern:     regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: EmailPlaceholder,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
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

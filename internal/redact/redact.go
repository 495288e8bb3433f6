// Package redact masks credential material before it is logged.
package redact

import "strings"

// Email keeps the first two characters of the local part and the domain.
func Email(s string) string {
	local, domain, ok := strings.Cut(s, "@")
	if !ok || domain == "" {
		return "***"
	}
	if len(local) > 2 {
		local = local[:2] + "***"
	} else {
		local = "***"
	}
	return local + "@" + domain
}

func Token() string    { return "[REDACTED_TOKEN]" }
func Password() string { return "[REDACTED_PASSWORD]" }

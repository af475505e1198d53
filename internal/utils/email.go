package utils

import "strings"

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MaskEmail hides most of the local part for logs: "someone@example.com"
// becomes "so*****@example.com".
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	visible := 2
	if at < visible {
		visible = at
	}
	return email[:visible] + strings.Repeat("*", at-visible) + email[at:]
}

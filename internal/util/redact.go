package util

import "regexp"

var (
	reEmail = regexp.MustCompile(`([A-Za-z0-9])[A-Za-z0-9._%+-]*@([A-Za-z0-9.-]+\.[A-Za-z]{2,})`)
	reToken = regexp.MustCompile(`(?i)((?:api|secret|token|key|password)[=:]\s*)[A-Za-z0-9-_]{8,}`)
	rePhone = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
)

// RedactPII masks emails, phone numbers and credential-looking values so
// user listings can be shown on shared screens. Email domains stay visible.
func RedactPII(s string) string {
	s = reEmail.ReplaceAllString(s, "$1***@$2")
	s = reToken.ReplaceAllString(s, "${1}[redacted]")
	s = rePhone.ReplaceAllString(s, "[redacted-phone]")
	return s
}

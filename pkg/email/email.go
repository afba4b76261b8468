// Package email holds small address helpers shared by the directory service
// and the welcome mailer.
package email

import (
	"net/mail"
	"strings"
	"unicode"
)

// Valid reports whether addr is a syntactically valid address consisting of a
// bare addr-spec (no display name, no angle brackets).
func Valid(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return false
	}
	return parsed.Address == addr
}

// DeriveDisplayName extracts a readable name from the local part of an
// address, for greetings when no better name is available.
func DeriveDisplayName(addr string) string {
	localPart := addr
	if at := strings.IndexByte(addr, '@'); at > 0 {
		localPart = addr[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "User"
	}

	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

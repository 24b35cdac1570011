package intent

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Intent string

const (
	Confirm Intent = "CONFIRM"
	Cancel  Intent = "CANCEL"
	Unknown Intent = "UNKNOWN"
)

var confirmTokens = map[string]struct{}{
	"sim":        {},
	"ok":         {},
	"confirmo":   {},
	"confirmado": {},
	"certo":      {},
}

var cancelSubstrings = []string{"cancel", "desmarcar"}

// Normalize lower-cases, strips combining marks and trims surrounding space.
func Normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = text
	}
	return strings.TrimSpace(strings.ToLower(out))
}

// Classify never fails; anything it does not recognise is Unknown.
func Classify(text string) Intent {
	s := Normalize(text)
	if s == "" {
		return Unknown
	}
	if _, ok := confirmTokens[s]; ok {
		return Confirm
	}
	if s == "nao" {
		return Cancel
	}
	for _, sub := range cancelSubstrings {
		if strings.Contains(s, sub) {
			return Cancel
		}
	}
	return Unknown
}

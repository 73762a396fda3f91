package feed

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizeText lower-cases s, strips diacritics and removes all whitespace,
// so "Nguyễn Văn A" and "nguyenvana" compare equal.
func normalizeText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, folded)
}

// FilterUsers returns the users whose name or email contains search after
// normalisation. A blank search returns all users.
func FilterUsers(users []*User, search string) []*User {
	q := normalizeText(search)
	if q == "" {
		return users
	}

	var out []*User
	for _, u := range users {
		if strings.Contains(normalizeText(u.Name), q) || strings.Contains(normalizeText(u.Email), q) {
			out = append(out, u)
		}
	}
	return out
}

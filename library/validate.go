package library

import (
	"regexp"
	"strings"
	"unicode"
)

// A deliberately simple address check. Full RFC 5322 parsing buys nothing
// here; the gateway's form validation is the first line of defense anyway.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPhoneDigits = 7

// validateBookParams trims and checks book fields, returning the normalized
// params or an InvalidArgument error.
func validateBookParams(op string, p BookParams) (BookParams, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return p, invalidArgf(op, "title must not be blank")
	}
	p.Author = strings.TrimSpace(p.Author)
	p.ISBN = strings.TrimSpace(p.ISBN)
	p.Publisher = strings.TrimSpace(p.Publisher)
	return p, nil
}

// validateMemberParams trims and checks member fields. Phone numbers are
// normalized to bare digits so "+1 (555) 010-9999" and "15550109999" reserve
// identically; anything shorter than 7 digits is rejected.
func validateMemberParams(op string, p MemberParams) (MemberParams, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return p, invalidArgf(op, "name must not be blank")
	}

	p.Email = strings.TrimSpace(p.Email)
	if p.Email != "" && !emailPattern.MatchString(p.Email) {
		return p, invalidArgf(op, "invalid email address %q", p.Email)
	}

	if p.Phone != "" {
		digits := digitsOnly(p.Phone)
		if len(digits) < minPhoneDigits {
			return p, invalidArgf(op, "phone must contain at least %d digits", minPhoneDigits)
		}
		p.Phone = digits
	}

	p.Address = strings.TrimSpace(p.Address)
	return p, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

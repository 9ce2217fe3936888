package pathguard

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxTokenLength bounds name tokens unless a policy overrides it.
const DefaultMaxTokenLength = 50

// Token is a validated name token, safe to interpolate into a path as a
// single component. The zero value is invalid; TokenPolicy.Validate is
// the only constructor.
type Token struct {
	value string
}

// String returns the validated token text.
func (t Token) String() string {
	return t.value
}

// TokenPolicy validates short identifier strings (template names,
// component types) with no filesystem interaction. The zero value uses
// DefaultMaxTokenLength and no observer.
type TokenPolicy struct {
	// MaxLength caps the token length; zero means DefaultMaxTokenLength.
	MaxLength int
	// Observer receives rejection events. May be nil.
	Observer Observer
}

// Validate applies the token policy in order, short-circuiting on the
// first failure: empty, length, character allow-list, and a redundant
// separator/traversal scan. The last gate keeps the safety property
// verifiable even if the allow-list is ever loosened.
func (p TokenPolicy) Validate(raw string) (Token, error) {
	if raw == "" {
		return Token{}, p.reject(raw, KindEmpty)
	}
	max := p.MaxLength
	if max <= 0 {
		max = DefaultMaxTokenLength
	}
	// Length is measured in characters, not bytes, so multibyte input
	// falls through to the allow-list gate.
	if utf8.RuneCountInString(raw) > max {
		return Token{}, p.reject(raw, KindTooLong)
	}
	for _, r := range raw {
		if !isTokenRune(r) {
			return Token{}, p.reject(raw, KindInvalidCharacter)
		}
	}
	if strings.Contains(raw, "..") || strings.ContainsAny(raw, `/\`) {
		return Token{}, p.reject(raw, KindTraversalAttempt)
	}
	return Token{value: raw}, nil
}

// ValidateToken validates a token with the default policy.
func ValidateToken(raw string) (Token, error) {
	return TokenPolicy{}.Validate(raw)
}

// reject notifies the observer and builds the rejection error.
func (p TokenPolicy) reject(raw string, kind Kind) error {
	notify(p.Observer, raw, kind)
	return &RejectionError{Kind: kind, Input: raw}
}

// isTokenRune reports whether a rune is in the token allow-list:
// ASCII letters, digits, hyphen, underscore.
func isTokenRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	default:
		return false
	}
}

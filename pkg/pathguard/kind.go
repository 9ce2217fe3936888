package pathguard

import (
	"errors"
	"fmt"
)

// Kind identifies why a candidate path or name token was rejected.
type Kind int

const (
	// KindEmpty marks an empty candidate or token.
	KindEmpty Kind = iota
	// KindTooLong marks a token over the configured maximum length.
	KindTooLong
	// KindInvalidCharacter marks a character outside the allow-list.
	KindInvalidCharacter
	// KindTraversalAttempt marks a parent-directory reference or an
	// explicit separator inside a token.
	KindTraversalAttempt
	// KindNotFound marks a path that failed to canonicalize.
	KindNotFound
	// KindOutOfBounds marks a path that canonicalized outside the root.
	KindOutOfBounds
	// KindNotAFile marks a resolved entry that is not a regular file.
	KindNotAFile
)

var kindNames = map[Kind]string{
	KindEmpty:            "empty",
	KindTooLong:          "too_long",
	KindInvalidCharacter: "invalid_character",
	KindTraversalAttempt: "traversal_attempt",
	KindNotFound:         "not_found",
	KindOutOfBounds:      "out_of_bounds",
	KindNotAFile:         "not_a_file",
}

// String renders the kind as a stable snake_case code.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a snake_case code back to its kind.
func ParseKind(code string) (Kind, bool) {
	for kind, name := range kindNames {
		if name == code {
			return kind, true
		}
	}
	return 0, false
}

// RejectionError reports a rejected candidate together with its kind.
// The raw input is preserved for auditing; a resolved path never appears
// here because rejection happens before one exists.
type RejectionError struct {
	Kind  Kind
	Input string
}

// Error renders the rejection with its kind code.
func (e *RejectionError) Error() string {
	return fmt.Sprintf("pathguard: %s: %q", e.Kind, e.Input)
}

// KindOf extracts the rejection kind from an error, if it carries one.
func KindOf(err error) (Kind, bool) {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return rejection.Kind, true
	}
	return 0, false
}

package cli

import (
	"bytes"
	"strings"
	"testing"
)

// TestTokenValidatesEachName verifies per-token outcomes and exit code.
func TestTokenValidatesEachName(t *testing.T) {
	var out, errBuf bytes.Buffer
	code := Run([]string{"token", "card_view", "../../etc", "a b"}, &out, &errBuf)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	output := out.String()
	if !strings.Contains(output, "OK     card_view") {
		t.Fatalf("expected accepted token, got %q", output)
	}
	if !strings.Contains(output, "invalid_character") {
		t.Fatalf("expected invalid_character rejection, got %q", output)
	}
}

// TestTokenMaxLengthFlag verifies the length cap is configurable.
func TestTokenMaxLengthFlag(t *testing.T) {
	var out, errBuf bytes.Buffer
	code := Run([]string{"token", "--max-length", "3", "abcd"}, &out, &errBuf)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(out.String(), "too_long") {
		t.Fatalf("expected too_long rejection, got %q", out.String())
	}
}

// TestTokenRequiresNames verifies missing arguments exit 2.
func TestTokenRequiresNames(t *testing.T) {
	var out, errBuf bytes.Buffer
	if code := Run([]string{"token"}, &out, &errBuf); code != ExitUsage {
		t.Fatalf("expected usage exit, got %d", code)
	}
}

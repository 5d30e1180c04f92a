package graph

import (
	"errors"
	"testing"

	coreerrors "github.com/easyops/medcontext-go/pkg/core/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		want    string
	}{
		{"plain", "Aspirin", "Aspirin"},
		{"leading and trailing spaces", "  Aspirin  ", "Aspirin"},
		{"internal whitespace collapsed", "Aspirin   extra", "Aspirin extra"},
		{"tabs and newlines", "\tAspirin\n extra ", "Aspirin extra"},
		{"case preserved", "ASPIRIN", "ASPIRIN"},
		{"empty", "", ""},
		{"only whitespace", "   \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.subject)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.subject, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	subjects := []string{"  Aspirin  extra ", "Warfarin", " a b c "}
	for _, s := range subjects {
		once := Normalize(s)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent: %q -> %q -> %q", s, once, twice)
		}
	}
}

func TestValidateSubject(t *testing.T) {
	got, err := ValidateSubject("  Aspirin  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Aspirin" {
		t.Errorf("expected 'Aspirin', got %q", got)
	}
}

func TestValidateSubjectEmpty(t *testing.T) {
	for _, subject := range []string{"", "   ", "\t\n"} {
		_, err := ValidateSubject(subject)
		if !errors.Is(err, coreerrors.ErrInvalidSubject) {
			t.Errorf("ValidateSubject(%q): expected ErrInvalidSubject, got %v", subject, err)
		}
	}
}

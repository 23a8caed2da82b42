package otpcode

import (
	"errors"
	"testing"
)

func TestNewNumericDefaultsLength(t *testing.T) {
	gen, err := NewNumeric(0)
	if err != nil {
		t.Fatalf("NewNumeric: %v", err)
	}

	code, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(code) != DefaultLength {
		t.Fatalf("expected %d digits, got %q", DefaultLength, code)
	}
}

func TestNewNumericRejectsOversizedLength(t *testing.T) {
	if _, err := NewNumeric(19); !errors.Is(err, ErrLengthTooLarge) {
		t.Fatalf("expected ErrLengthTooLarge, got %v", err)
	}
}

func TestGenerateDigitsOnlyAndPadded(t *testing.T) {
	for _, length := range []int{4, 6, 8, 18} {
		gen, err := NewNumeric(length)
		if err != nil {
			t.Fatalf("NewNumeric(%d): %v", length, err)
		}

		for i := 0; i < 50; i++ {
			code, err := gen.Generate()
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if len(code) != length {
				t.Fatalf("expected %d digits, got %q", length, code)
			}
			for _, r := range code {
				if r < '0' || r > '9' {
					t.Fatalf("code contains non-digit: %q", code)
				}
			}
		}
	}
}

func TestGenerateVaries(t *testing.T) {
	gen, err := NewNumeric(6)
	if err != nil {
		t.Fatalf("NewNumeric: %v", err)
	}

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		seen[code] = struct{}{}
	}
	if len(seen) < 2 {
		t.Fatal("expected different codes across generations")
	}
}

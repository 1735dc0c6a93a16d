package verify

import (
	"testing"
)

func TestGenerateCodeLength(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		code, err := GenerateCode(length)
		if err != nil {
			t.Fatalf("GenerateCode(%d) failed: %v", length, err)
		}
		if len(code) != length {
			t.Errorf("expected %d digits, got %d (%q)", length, len(code), code)
		}
	}
}

func TestGenerateCodeDigitsOnly(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateCode(6)
		if err != nil {
			t.Fatalf("GenerateCode failed: %v", err)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("non-digit character %q in code %q", c, code)
			}
		}
	}
}

func TestGenerateCodeRejectsNonPositiveLength(t *testing.T) {
	for _, length := range []int{0, -1} {
		if _, err := GenerateCode(length); err == nil {
			t.Errorf("expected error for length %d", length)
		}
	}
}

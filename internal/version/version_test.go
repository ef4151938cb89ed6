// ABOUTME: Tests for version constants
// ABOUTME: Ensures product identification is properly defined
package version

import (
	"strings"
	"testing"
)

func TestIdentificationDefined(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if Product == "" {
		t.Error("Product should not be empty")
	}
	if Manufacturer == "" {
		t.Error("Manufacturer should not be empty")
	}
}

func TestVersionIsDotted(t *testing.T) {
	parts := strings.Split(Version, ".")
	if len(parts) != 3 {
		t.Fatalf("expected a three-part version, got %q", Version)
	}
	for _, p := range parts {
		if p == "" {
			t.Errorf("empty version component in %q", Version)
		}
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, Product) {
		t.Errorf("identification %q should start with the product name", s)
	}
	if !strings.HasSuffix(s, Version) {
		t.Errorf("identification %q should end with the version", s)
	}
}

func TestVersionNotPlaceholder(t *testing.T) {
	placeholders := []string{"TODO", "FIXME", "XXX", "placeholder"}
	for _, placeholder := range placeholders {
		if Version == placeholder || Product == placeholder || Manufacturer == placeholder {
			t.Errorf("placeholder value %q in version identification", placeholder)
		}
	}
}

package color

import (
	"regexp"
	"testing"
)

var hexColorRe = regexp.MustCompile(`^#[0-9A-F]{6}$`)

func TestForNameDeterministic(t *testing.T) {
	a := ForName("Noa Levi")
	b := ForName("Noa Levi")
	if a != b {
		t.Errorf("ForName not deterministic: %q vs %q", a, b)
	}
}

func TestForNameFormat(t *testing.T) {
	for _, name := range []string{"Noa Levi", "דנה כהן", "", "x"} {
		c := ForName(name)
		if !hexColorRe.MatchString(c) {
			t.Errorf("ForName(%q) = %q, not a hex color", name, c)
		}
	}
}

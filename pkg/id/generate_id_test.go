package id

import (
	"regexp"
	"testing"
)

var reHex = regexp.MustCompile(`^[a-f0-9]+$`)

func TestNewID32(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		v := NewID32()
		if len(v) != 32 {
			t.Fatalf("len=%d", len(v))
		}
		if !reHex.MatchString(v) {
			t.Fatalf("not lowercase hex: %q", v)
		}
		if seen[v] {
			t.Fatalf("duplicate id: %q", v)
		}
		seen[v] = true
	}
}

func TestNewHex(t *testing.T) {
	v := NewHex(32)
	if len(v) != 64 {
		t.Fatalf("len=%d", len(v))
	}
	if !reHex.MatchString(v) {
		t.Fatalf("not lowercase hex: %q", v)
	}
}

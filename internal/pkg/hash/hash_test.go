package hash

import (
	"strings"
	"testing"
)

func TestSHA256(t *testing.T) {
	tests := []struct {
		input []byte
		want  string
	}{
		{
			[]byte("hello"),
			"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		},
		{
			[]byte(""),
			"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			got := SHA256(tt.input)
			if got != tt.want {
				t.Errorf("SHA256(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestSHA256String(t *testing.T) {
	got := SHA256String("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

	if got != want {
		t.Errorf("SHA256String(hello) = %s, want %s", got, want)
	}
}

func TestSHA256Short(t *testing.T) {
	hash := SHA256([]byte("hello"))

	tests := []struct {
		n    int
		want string
	}{
		{8, hash[:8]},
		{16, hash[:16]},
		{64, hash},
		{100, hash}, // longer than the hash itself
	}

	for _, tt := range tests {
		got := SHA256Short([]byte("hello"), tt.n)
		if got != tt.want {
			t.Errorf("SHA256Short(hello, %d) = %s, want %s", tt.n, got, tt.want)
		}
		if tt.n <= 64 && len(got) != tt.n {
			t.Errorf("SHA256Short length = %d, want %d", len(got), tt.n)
		}
	}

	if !strings.HasPrefix(hash, SHA256Short([]byte("hello"), 16)) {
		t.Error("SHA256Short is not a prefix of the full hash")
	}
}

func TestPointID(t *testing.T) {
	a := PointID("Verify Numerical Ability")
	b := PointID("Verify Numerical Ability")
	c := PointID("Verify Verbal Ability")

	if a != b {
		t.Errorf("PointID is not deterministic: %d != %d", a, b)
	}
	if a == c {
		t.Errorf("PointID collision for distinct names: %d", a)
	}
	if PointID("") == 0 {
		t.Error("PointID(\"\") = 0, want non-zero")
	}
}

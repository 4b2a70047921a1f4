package helper

import (
	"errors"
	"testing"
)

func TestSanitizeURL(t *testing.T) {
	valid := map[string]string{
		"https://example.com":             "https://example.com",
		"https://example.com/a/b?c=d#e":   "https://example.com/a/b?c=d#e",
		"https://docs.example.com/path/x": "https://docs.example.com/path/x",
	}
	for in, want := range valid {
		got, err := SanitizeURL(in)
		if err != nil || got != want {
			t.Errorf("SanitizeURL(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	for _, in := range []string{
		"http://example.com",
		"file:///etc/passwd",
		"https://example.com/../secret",
		"https://example.com/a b",
		"https://example.com/;rm -rf",
		"https://example.com/$(id)",
		"https://",
		"javascript:alert(1)",
	} {
		if _, err := SanitizeURL(in); !errors.Is(err, ErrUnsafeURL) {
			t.Errorf("SanitizeURL(%q) error = %v, want ErrUnsafeURL", in, err)
		}
	}
}

package helper

import (
	"errors"
	"net/url"
	"os/exec"
	"strings"

	"github.com/sag-enhanced/webshell/src/options"
)

var ErrUnsafeURL = errors.New("refusing to open url")

// SanitizeURL accepts only plain https URLs without shell metacharacters or
// path traversal and returns the re-assembled form.
func SanitizeURL(target string) (string, error) {
	if strings.ContainsAny(target, "\n\r'\"` {}$|;") {
		return "", ErrUnsafeURL
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" || strings.Contains(parsed.Path, "..") {
		return "", ErrUnsafeURL
	}
	return parsed.String(), nil
}

func Open(url string, options *options.Options) error {
	args := append(append([]string{}, options.OpenCommand...), url)
	return exec.Command(args[0], args[1:]...).Run()
}

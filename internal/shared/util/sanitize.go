package util

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidFileName is returned for upload names that cannot be stored.
var ErrInvalidFileName = errors.New("invalid file name")

// MaxFileNameLen caps a sanitized name in bytes. Longer names are cut before
// the extension so the content type can still be inferred from it.
const MaxFileNameLen = 128

// SanitizeFileName turns an uploaded resume's name into a single safe path
// segment. Path separators become '_', control characters are dropped and
// whitespace runs collapse to one space. Names containing ".." or made only
// of dots are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}

	var b strings.Builder
	space := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '/' || r == '\\':
			b.WriteByte('_')
			space = false
		case unicode.IsSpace(r):
			if !space {
				b.WriteByte(' ')
			}
			space = true
		case unicode.IsControl(r) || r == utf8.RuneError:
		default:
			b.WriteRune(r)
			space = false
		}
	}

	s := strings.TrimSpace(b.String())
	if strings.Trim(s, ".") == "" {
		return "", ErrInvalidFileName
	}
	return truncateName(s, MaxFileNameLen), nil
}

func truncateName(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	ext := filepath.Ext(s)
	if len(ext) >= limit/2 {
		ext = ""
	}
	stem := s[:len(s)-len(ext)]
	keep := limit - len(ext)
	for keep > 0 && !utf8.RuneStart(stem[keep]) {
		keep--
	}
	return stem[:keep] + ext
}

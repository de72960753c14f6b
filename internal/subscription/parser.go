// Package subscription splits subscription bodies into individual node URIs.
// Fetching the body is the caller's business.
package subscription

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyBody is returned for blank subscription content.
	ErrEmptyBody = errors.New("subscription: empty body")
	// ErrNoNodeURIs is returned when no line looks like a node URI.
	ErrNoNodeURIs = errors.New("subscription: no node uris found")
)

// SplitNodeURIs returns the node URI lines of a subscription body, in order.
// The body may be plain text (one URI per line) or a Base64-wrapped copy of
// it. Blank lines, '#' comment lines and lines without "://" are skipped.
func SplitNodeURIs(data []byte) ([]string, error) {
	normalized := normalizeInput(data)
	if len(normalized) == 0 {
		return nil, ErrEmptyBody
	}

	text := normalizeTextContent(string(normalized))
	if uris := uriLines(text); len(uris) > 0 {
		return uris, nil
	}

	if decodedText, ok := tryDecodeBase64ToText(normalized); ok {
		if uris := uriLines(normalizeTextContent(decodedText)); len(uris) > 0 {
			return uris, nil
		}
	}

	return nil, ErrNoNodeURIs
}

func uriLines(text string) []string {
	var uris []string
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, "://") {
			continue
		}
		uris = append(uris, line)
	}
	return uris
}

func decodeBase64Relaxed(input string) ([]byte, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, false
	}

	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	if decoded, err := base64.StdEncoding.DecodeString(s); err == nil {
		return decoded, true
	}
	if decoded, err := base64.URLEncoding.DecodeString(s); err == nil {
		return decoded, true
	}
	return nil, false
}

func tryDecodeBase64ToText(data []byte) (string, bool) {
	compact := strings.Join(strings.Fields(string(data)), "")
	if !looksLikeBase64(compact) {
		return "", false
	}

	decoded, ok := decodeBase64Relaxed(compact)
	if !ok || !utf8.Valid(decoded) {
		return "", false
	}
	return string(decoded), true
}

func looksLikeBase64(s string) bool {
	if len(s) < 8 || len(s)%4 == 1 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '+' || r == '/' || r == '-' || r == '_' || r == '=':
		default:
			return false
		}
	}
	return true
}

func normalizeInput(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)
	return bytes.TrimPrefix(trimmed, []byte{0xEF, 0xBB, 0xBF})
}

// normalizeTextContent drops a leading BOM, zero-width characters and
// control characters other than line breaks and tabs.
func normalizeTextContent(content string) string {
	content = strings.TrimPrefix(content, "\uFEFF")

	var b strings.Builder
	b.Grow(len(content))
	for _, r := range content {
		switch r {
		case '\u200B', '\u200C', '\u200D':
			continue
		}
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

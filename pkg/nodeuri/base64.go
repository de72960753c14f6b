package nodeuri

import (
	"encoding/base64"
	"net/url"
	"strings"
	"unicode/utf8"
)

// decodeBase64Relaxed pads input with '=' to a multiple of four and tries the
// standard alphabet first, then the URL-safe one.
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

// decodeBase64Text is decodeBase64Relaxed restricted to UTF-8 payloads.
func decodeBase64Text(input string) (string, bool) {
	decoded, ok := decodeBase64Relaxed(input)
	if !ok || !utf8.Valid(decoded) {
		return "", false
	}
	return string(decoded), true
}

// decodeWrappedText unwraps a Base64 body that may itself have been
// percent-encoded by a subscription export.
func decodeWrappedText(body string) (string, bool) {
	if strings.Contains(body, "%") {
		unescaped, err := url.PathUnescape(body)
		if err != nil {
			return "", false
		}
		body = unescaped
	}
	return decodeBase64Text(body)
}

// percentDecode decodes %XX escapes without treating '+' as a space and
// rejects results that are not valid UTF-8.
func percentDecode(s string) (string, bool) {
	decoded, err := url.PathUnescape(s)
	if err != nil || !utf8.ValidString(decoded) {
		return "", false
	}
	return decoded, true
}

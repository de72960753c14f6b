package nodeuri

import (
	"net/url"
	"strings"
)

// unwrapBody decodes a Base64-wrapped ss/ssr body. Legacy exports sometimes
// append "?plugin=..." or "/?..." outside the Base64 payload, so the second
// attempt retries without it.
var unwrapBody = firstOf[string](
	decodeWrappedText,
	func(body string) (string, bool) {
		stripped, _, _ := strings.Cut(body, "?")
		stripped = strings.TrimSuffix(stripped, "/")
		if stripped == body {
			return "", false
		}
		return decodeWrappedText(stripped)
	},
)

// lastAuthority returns the text after the last '@'. Shadowsocks passwords
// are allowed to contain '@'; hosts are not.
func lastAuthority(s string) (string, bool) {
	i := strings.LastIndexByte(s, '@')
	if i < 0 {
		return "", false
	}
	return s[i+1:], true
}

// ssDecoder handles "method:password@host:port" (plain or SIP002 with a
// Base64 userinfo) and the legacy fully Base64-wrapped form.
type ssDecoder struct{}

func (ssDecoder) authority(body string) (string, bool) {
	if authority, ok := lastAuthority(body); ok {
		return authority, true
	}
	text, ok := unwrapBody(body)
	if !ok {
		return "", false
	}
	return lastAuthority(text)
}

func (d ssDecoder) name(body string) (string, bool) {
	authority, ok := d.authority(body)
	if !ok {
		return "", false
	}
	return hostLabel(authority), true
}

func (d ssDecoder) hostPort(body string) (HostPort, bool) {
	authority, ok := d.authority(body)
	if !ok {
		return HostPort{}, false
	}
	return splitAuthority(authority)
}

// ssrDecoder handles ssr://, whose Base64 payload is the colon-delimited
// record host:port:protocol:method:obfs:password[/?params]. A body that
// already contains '@' is treated like a plain ss authority.
type ssrDecoder struct{}

type ssrRecord struct {
	fields []string
	params url.Values
}

func (ssrDecoder) record(body string) (ssrRecord, bool) {
	text, ok := unwrapBody(body)
	if !ok {
		return ssrRecord{}, false
	}
	fields := strings.Split(text, ":")
	if len(fields) < 2 {
		return ssrRecord{}, false
	}
	rec := ssrRecord{fields: fields}
	if _, rawParams, found := strings.Cut(text, "/?"); found {
		if params, err := url.ParseQuery(rawParams); err == nil {
			rec.params = params
		}
	}
	return rec, true
}

func (d ssrDecoder) name(body string) (string, bool) {
	if authority, ok := lastAuthority(body); ok {
		return hostLabel(authority), true
	}
	rec, ok := d.record(body)
	if !ok {
		return "", false
	}
	if remarks := rec.params.Get("remarks"); remarks != "" {
		if decoded, ok := decodeBase64Text(remarks); ok && strings.TrimSpace(decoded) != "" {
			return strings.TrimSpace(decoded), true
		}
	}
	return rec.fields[0], true
}

func (d ssrDecoder) hostPort(body string) (HostPort, bool) {
	if authority, ok := lastAuthority(body); ok {
		return splitAuthority(authority)
	}
	rec, ok := d.record(body)
	if !ok {
		return HostPort{}, false
	}
	return HostPort{Host: rec.fields[0], Port: rec.fields[1]}, true
}

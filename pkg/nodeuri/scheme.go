package nodeuri

import "strings"

// Scheme is the protocol tag in front of "://".
type Scheme string

const (
	SchemeVMess   Scheme = "vmess"
	SchemeVLESS   Scheme = "vless"
	SchemeTrojan  Scheme = "trojan"
	SchemeSS      Scheme = "ss"
	SchemeSSR     Scheme = "ssr"
	SchemeHTTP    Scheme = "http"
	SchemeHTTPS   Scheme = "https"
	SchemeUnknown Scheme = "unknown"
)

// ParseScheme returns the scheme of uri. The tag must match exactly; no case
// folding is applied, so "VMESS://" is SchemeUnknown.
func ParseScheme(uri string) Scheme {
	tag, _, ok := strings.Cut(strings.TrimSpace(uri), "://")
	if !ok {
		return SchemeUnknown
	}
	switch s := Scheme(tag); s {
	case SchemeVMess, SchemeVLESS, SchemeTrojan, SchemeSS, SchemeSSR, SchemeHTTP, SchemeHTTPS:
		return s
	}
	return SchemeUnknown
}

// protocolDecoder is implemented once per protocol family. Both methods take
// the URI body (between "://" and the first '#') and report ok=false when the
// body cannot be decoded.
type protocolDecoder interface {
	name(body string) (string, bool)
	hostPort(body string) (HostPort, bool)
}

func defaultProtocolDecoders() map[Scheme]protocolDecoder {
	return map[Scheme]protocolDecoder{
		SchemeVMess:  vmessDecoder{},
		SchemeVLESS:  userinfoDecoder{},
		SchemeTrojan: userinfoDecoder{},
		SchemeSS:     ssDecoder{},
		SchemeSSR:    ssrDecoder{},
	}
}

// splitURI splits "scheme://body#fragment" into the raw scheme tag and body.
func splitURI(uri string) (tag string, body string, ok bool) {
	tag, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return "", "", false
	}
	body, _, _ = strings.Cut(rest, "#")
	return tag, body, true
}

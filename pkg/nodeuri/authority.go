package nodeuri

import "strings"

// splitAuthority separates a "host[:port]" authority that may carry a
// bracketed IPv6 host and a trailing ?query or /path. ok is false when
// nothing is left after stripping.
//
// An unbracketed token with more than one colon is returned whole as the
// host with an empty port; it cannot be told apart from a malformed
// host:port, so no port is guessed.
func splitAuthority(authority string) (HostPort, bool) {
	s := authority
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return HostPort{}, false
	}

	lastColon := strings.LastIndexByte(s, ':')

	if strings.HasPrefix(s, "[") && strings.Contains(s, "]") {
		closing := strings.LastIndexByte(s, ']')
		hp := HostPort{Host: s[1:closing]}
		if lastColon > closing {
			hp.Port = s[lastColon+1:]
		}
		return hp, true
	}

	if lastColon < 0 {
		return HostPort{Host: s}, true
	}

	host := s[:lastColon]
	if strings.Contains(host, ":") {
		return HostPort{Host: s}, true
	}
	return HostPort{Host: host, Port: s[lastColon+1:]}, true
}

// hostLabel is the display form of an authority used when a URI carries no
// fragment: everything up to the first colon.
func hostLabel(authority string) string {
	host, _, _ := strings.Cut(authority, ":")
	return host
}

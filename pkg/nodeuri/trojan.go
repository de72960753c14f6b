package nodeuri

import "strings"

// userinfoDecoder handles trojan:// and vless://, which share the
// "secret@host:port?params" layout.
type userinfoDecoder struct{}

func (userinfoDecoder) authority(body string) (string, bool) {
	_, authority, ok := strings.Cut(body, "@")
	return authority, ok
}

func (d userinfoDecoder) name(body string) (string, bool) {
	authority, ok := d.authority(body)
	if !ok {
		return "", false
	}
	return hostLabel(authority), true
}

func (d userinfoDecoder) hostPort(body string) (HostPort, bool) {
	authority, ok := d.authority(body)
	if !ok {
		return HostPort{}, false
	}
	return splitAuthority(authority)
}

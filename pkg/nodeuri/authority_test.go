package nodeuri

import "testing"

func TestSplitAuthority(t *testing.T) {
	tests := []struct {
		in     string
		want   HostPort
		wantOK bool
	}{
		{"example.com:443", HostPort{"example.com", "443"}, true},
		{"1.2.3.4:8388", HostPort{"1.2.3.4", "8388"}, true},
		{"[2001:db8::1]:8443", HostPort{"2001:db8::1", "8443"}, true},
		{"[2001:db8::1]", HostPort{"2001:db8::1", ""}, true},
		{"[::1]x", HostPort{"::1", ""}, true},
		{"2001:db8::1", HostPort{"2001:db8::1", ""}, true},
		{"example.com", HostPort{"example.com", ""}, true},
		{"example.com:", HostPort{"example.com", ""}, true},
		{"example.com:443?sni=a.com", HostPort{"example.com", "443"}, true},
		{"example.com:443/path?x=1", HostPort{"example.com", "443"}, true},
		{"example.com:443/?plugin=a/b", HostPort{"example.com", "443"}, true},
		{"[2001:db8::1]:443/ws", HostPort{"2001:db8::1", "443"}, true},
		{"", HostPort{}, false},
		{"?sni=a.com", HostPort{}, false},
		{"/path", HostPort{}, false},
	}
	for _, tt := range tests {
		got, ok := splitAuthority(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("splitAuthority(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestHostLabel(t *testing.T) {
	tests := map[string]string{
		"example.com:443":      "example.com",
		"example.com":          "example.com",
		":443":                 "",
		"edge.example.net?x=1": "edge.example.net?x=1",
	}
	for in, want := range tests {
		if got := hostLabel(in); got != want {
			t.Fatalf("hostLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

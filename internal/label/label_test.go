package label

import "testing"

func TestPrefixed(t *testing.T) {
	tests := []struct {
		prefix string
		name   string
		want   string
	}{
		{"MySub", "HK 01", "MySub - HK 01"},
		{"  MySub ", "HK 01", "MySub - HK 01"},
		{"", "HK 01", "HK 01"},
		{"   ", "HK 01", "HK 01"},
		{"MySub", "", "MySub"},
		{"MySub", "MySub - HK 01", "MySub - HK 01"},
		{"MySub", "MySubscription node", "MySub - MySubscription node"},
		{"MySub", "MySub", "MySub"},
		{"订阅", "香港节点", "订阅 - 香港节点"},
	}
	for _, tt := range tests {
		if got := Prefixed(tt.prefix, tt.name); got != tt.want {
			t.Fatalf("Prefixed(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}

// Package netutil holds small host-name helpers shared by the CLI.
package netutil

import (
	"net/netip"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ProviderDomain maps a decoded node host to the registrable domain
// (eTLD+1) used to group nodes by provider.
//
// Examples:
//
//	"hk-01.edge.example.co.uk" -> "example.co.uk"
//	"jp.node.example.com."     -> "example.com"
//	"1.2.3.4"                  -> "1.2.3.4"
//	"2001:db8::1"              -> "2001:db8::1"
//	"localhost"                -> "localhost"
//
// Empty input returns "".
func ProviderDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if host == "" {
		return ""
	}
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.String()
	}

	// Errors for bare TLDs and single-label names.
	if domain, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return domain
	}
	return host
}

// Package nodeuri decodes proxy node descriptors (vmess://, vless://,
// trojan://, ss://, ssr://) into a display name and a host/port pair.
//
// Decoding never fails outward: malformed input degrades to an empty result
// (or, for names, to a truncated copy of the input when a decoder panics).
// A Decoder holds no mutable state and is safe for concurrent use.
package nodeuri

import (
	"io"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// fallbackNameRunes bounds the degraded name returned after a decoder panic.
const fallbackNameRunes = 50

// HostPort is a decoded server address. Port stays textual since it is only
// ever displayed or copied into configs. Bracketed IPv6 hosts are stored
// without brackets.
type HostPort struct {
	Host string `json:"host" yaml:"host"`
	Port string `json:"port" yaml:"port"`
}

// IsZero reports whether hp is the empty "could not parse" result.
func (hp HostPort) IsZero() bool {
	return hp.Host == "" && hp.Port == ""
}

// Node is the combined result of both extractions for one URI.
type Node struct {
	Scheme Scheme `json:"scheme" yaml:"scheme"`
	Name   string `json:"name" yaml:"name"`
	HostPort `yaml:",inline"`
}

// Decoder extracts names and addresses from node URIs.
type Decoder struct {
	log      logrus.FieldLogger
	decoders map[Scheme]protocolDecoder
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the diagnostic sink. A nil logger discards diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Decoder) {
		if l == nil {
			discard := logrus.New()
			discard.SetOutput(io.Discard)
			l = discard
		}
		d.log = l
	}
}

// NewDecoder creates a Decoder. Without options it logs to
// logrus.StandardLogger().
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		log:      logrus.StandardLogger(),
		decoders: defaultProtocolDecoders(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var defaultDecoder = NewDecoder()

// ExtractNodeName returns the display name of uri using the default Decoder.
func ExtractNodeName(uri string) string {
	return defaultDecoder.ExtractNodeName(uri)
}

// ExtractHostAndPort returns the server address of uri using the default
// Decoder.
func ExtractHostAndPort(uri string) HostPort {
	return defaultDecoder.ExtractHostAndPort(uri)
}

// Describe runs both extractions with the default Decoder.
func Describe(uri string) Node {
	return defaultDecoder.Describe(uri)
}

// ExtractNodeName returns the best available display name for uri:
// the percent-decoded fragment when present, otherwise a name derived from
// the protocol body, otherwise "".
func (d *Decoder) ExtractNodeName(uri string) (name string) {
	trimmed := strings.TrimSpace(uri)
	if trimmed == "" {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			d.log.WithFields(logrus.Fields{
				"scheme": string(ParseScheme(trimmed)),
				"panic":  r,
			}).Error("[nodeuri] extract node name failed")
			name = truncateRunes(trimmed, fallbackNameRunes)
		}
	}()

	if fragment, ok := fragmentName(trimmed); ok {
		return fragment
	}
	return d.schemeName(trimmed)
}

func (d *Decoder) schemeName(uri string) string {
	tag, body, ok := splitURI(uri)
	if !ok {
		return ""
	}

	if dec, found := d.decoders[Scheme(tag)]; found {
		decoded, ok := dec.name(body)
		if !ok {
			d.logUndecodable(tag, "name")
			return ""
		}
		return decoded
	}

	if strings.HasPrefix(uri, "http") {
		u, err := url.Parse(uri)
		if err != nil {
			d.logUndecodable(tag, "url")
			return ""
		}
		return u.Hostname()
	}
	return ""
}

// ExtractHostAndPort returns the server address encoded in uri. The fragment
// is ignored. Any failure yields the zero HostPort.
func (d *Decoder) ExtractHostAndPort(uri string) (hp HostPort) {
	trimmed := strings.TrimSpace(uri)
	if trimmed == "" {
		return HostPort{}
	}
	defer func() {
		if r := recover(); r != nil {
			d.log.WithFields(logrus.Fields{
				"scheme": string(ParseScheme(trimmed)),
				"panic":  r,
			}).Error("[nodeuri] extract host and port failed")
			hp = HostPort{}
		}
	}()

	tag, body, ok := splitURI(trimmed)
	if !ok {
		d.logUndecodable("", "scheme")
		return HostPort{}
	}
	dec, found := d.decoders[Scheme(tag)]
	if !found {
		return HostPort{}
	}
	decoded, ok := dec.hostPort(body)
	if !ok {
		d.logUndecodable(tag, "host_port")
		return HostPort{}
	}
	return decoded
}

// Describe runs both extractions on uri.
func (d *Decoder) Describe(uri string) Node {
	return Node{
		Scheme:   ParseScheme(uri),
		Name:     d.ExtractNodeName(uri),
		HostPort: d.ExtractHostAndPort(uri),
	}
}

func (d *Decoder) logUndecodable(scheme, stage string) {
	d.log.WithFields(logrus.Fields{
		"scheme": scheme,
		"stage":  stage,
	}).Debug("[nodeuri] undecodable node uri")
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

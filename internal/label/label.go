// Package label builds display labels for decoded nodes.
//
// Labels are derived values only. The node URI itself is never rewritten, so
// the same URI always decodes to the same name regardless of which
// subscription it was listed under.
package label

import "strings"

// Separator joins a prefix and a node name.
const Separator = " - "

// Prefixed returns name labelled with prefix, e.g. "MySub - HK 01".
// It returns name unchanged when prefix is blank or name is already labelled
// with prefix, and prefix alone when name is empty.
func Prefixed(prefix, name string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return name
	}
	if name == "" {
		return prefix
	}
	if name == prefix || strings.HasPrefix(name, prefix+Separator) {
		return name
	}
	return prefix + Separator + name
}

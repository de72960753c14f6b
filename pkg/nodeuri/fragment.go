package nodeuri

import "strings"

// fragmentName returns the decoded, trimmed text after the first '#'.
// ok is false when there is no fragment, the fragment is empty, or its
// percent-encoding is malformed.
func fragmentName(uri string) (string, bool) {
	i := strings.IndexByte(uri, '#')
	if i < 0 || i == len(uri)-1 {
		return "", false
	}
	decoded, ok := percentDecode(uri[i+1:])
	if !ok {
		return "", false
	}
	return strings.TrimSpace(decoded), true
}

package host

import (
	"path"
	"strings"
)

// canonicalizePath normalises a path key so every boundary method sees
// the same representation regardless of which convention the caller
// used to spell it: a client may send backslash-separated paths (a
// Windows-hosted TGT service) while the host's own resolver always
// builds candidates with the forward-slash "path" package. Both must
// land on the same map key, or a resolved candidate never matches a
// stored document.
func canonicalizePath(p string) string {
	if p == "" {
		return p
	}
	return path.Clean(strings.ReplaceAll(p, `\`, "/"))
}

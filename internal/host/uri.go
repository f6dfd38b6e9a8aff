package host

import (
	"net/url"
)

// URIToPath converts a file:// URI, as a language-service client
// addresses documents over its own transport, into the canonical path
// form every Host boundary method keys its state on. A non-file scheme
// or an unparsable URI yields "". Unlike a plain filesystem-path
// resolver, this never shells out to the process's working directory:
// a document path is a key into the host's in-memory store, not a real
// file, so making it "absolute" relative to cwd would tie a virtual
// document's identity to state that has nothing to do with it.
func URIToPath(uri string) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "" && parsed.Scheme != "file" {
		return ""
	}
	raw := parsed.Path
	if parsed.Scheme == "" {
		raw = uri
	}
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	return canonicalizePath(raw)
}

// PathToURI is URIToPath's inverse, rendering a document path in the
// file:// form a client expects back. It runs the path through the
// same canonicalisation URIToPath does, so a round trip through both
// always converges on one spelling regardless of how the path arrived.
func PathToURI(p string) string {
	if p == "" {
		return ""
	}
	u := url.URL{Scheme: "file", Path: canonicalizePath(p)}
	return u.String()
}

package host

import (
	"testing"
)

func TestURIToPathRoundTrip(t *testing.T) {
	p := URIToPath("file:///tmp/project/a.src")
	if p != "/tmp/project/a.src" {
		t.Fatalf("got %q", p)
	}
	back := PathToURI(p)
	if back != "file:///tmp/project/a.src" {
		t.Fatalf("expected a stable round trip, got %q", back)
	}
}

func TestURIToPathCanonicalizesRedundantSegments(t *testing.T) {
	p := URIToPath("file:///proj/./sub/../a.src")
	if p != "/proj/a.src" {
		t.Fatalf("expected cleaned path, got %q", p)
	}
}

func TestURIToPathRejectsNonFileScheme(t *testing.T) {
	if got := URIToPath("http://example.com/a.src"); got != "" {
		t.Fatalf("expected empty path for non-file scheme, got %q", got)
	}
}

func TestURIToPathEmpty(t *testing.T) {
	if got := URIToPath(""); got != "" {
		t.Fatalf("expected empty result for empty input, got %q", got)
	}
}

package host

import (
	"testing"

	"tsbridge/internal/hostconfig"
)

func TestResolverRelativeSpecifier(t *testing.T) {
	known := map[string]bool{"/proj/sub/b.src": true}
	r := NewResolver(hostconfig.Default(), "/proj", func(p string) bool { return known[p] })
	got := r.Resolve("./sub/b", "/proj/a.src")
	if got != "/proj/sub/b.src" {
		t.Fatalf("got %q, want /proj/sub/b.src", got)
	}
}

func TestResolverBaseURLFallback(t *testing.T) {
	cfg := hostconfig.Config{Transpilers: []hostconfig.Transpiler{{SourceExt: ".src", TargetExt: ".ts"}}, BaseURL: "lib", Paths: map[string][]string{}}
	known := map[string]bool{"/proj/lib/utils.src": true}
	r := NewResolver(cfg, "/proj", func(p string) bool { return known[p] })
	got := r.Resolve("utils", "/proj/a.src")
	if got != "/proj/lib/utils.src" {
		t.Fatalf("got %q, want /proj/lib/utils.src", got)
	}
}

func TestResolverPathsMapping(t *testing.T) {
	cfg := hostconfig.Config{
		Transpilers: []hostconfig.Transpiler{{SourceExt: ".src", TargetExt: ".ts"}},
		Paths:       map[string][]string{"@app/*": {"src/app/*"}},
	}
	known := map[string]bool{"/proj/src/app/widget.src": true}
	r := NewResolver(cfg, "/proj", func(p string) bool { return known[p] })
	got := r.Resolve("@app/widget", "/proj/a.src")
	if got != "/proj/src/app/widget.src" {
		t.Fatalf("got %q, want /proj/src/app/widget.src", got)
	}
}

func TestResolverPathsMappingPrefersLongestPattern(t *testing.T) {
	cfg := hostconfig.Config{
		Transpilers: []hostconfig.Transpiler{{SourceExt: ".src", TargetExt: ".ts"}},
		Paths: map[string][]string{
			"@*":     {"generic/*"},
			"@app/*": {"src/app/*"},
		},
	}
	known := map[string]bool{"/proj/src/app/widget.src": true, "/proj/generic/app/widget.src": true}
	r := NewResolver(cfg, "/proj", func(p string) bool { return known[p] })
	got := r.Resolve("@app/widget", "/proj/a.src")
	if got != "/proj/src/app/widget.src" {
		t.Fatalf("got %q, want the longest-pattern match /proj/src/app/widget.src", got)
	}
}

func TestResolverUnresolvedReturnsEmpty(t *testing.T) {
	r := NewResolver(hostconfig.Default(), "/proj", func(p string) bool { return false })
	got := r.Resolve("nope", "/proj/a.src")
	if got != "" {
		t.Fatalf("expected empty resolution, got %q", got)
	}
}

func TestResolverCachesUntilInvalidated(t *testing.T) {
	exists := false
	calls := 0
	r := NewResolver(hostconfig.Default(), "/proj", func(p string) bool {
		calls++
		return exists && p == "/proj/b.src"
	})
	r.Resolve("./b", "/proj/a.src")
	r.Resolve("./b", "/proj/a.src")
	callsAfterCacheHit := calls
	exists = true
	r.Invalidate("/proj/b.src")
	got := r.Resolve("./b", "/proj/a.src")
	if got != "/proj/b.src" {
		t.Fatalf("expected resolution after invalidation, got %q", got)
	}
	if callsAfterCacheHit == 0 {
		t.Fatalf("expected at least one probe before caching")
	}
}

package host

import (
	"strings"
	"testing"

	"tsbridge/internal/hostconfig"
	"tsbridge/internal/sourcemap"
)

// stubTranspiler uppercases its input and records every path it was
// asked to compile, so tests can assert on both output and call count.
type stubTranspiler struct {
	calls []string
}

func (s *stubTranspiler) Compile(path, source string) Result {
	s.calls = append(s.calls, path)
	b := sourcemap.NewBuilder(source)
	zero := uint32(0)
	b.Update(strings.ToUpper(source), &zero, 0)
	return Result{Code: strings.ToUpper(source), SourceMap: b}
}

func testConfig() hostconfig.Config {
	return hostconfig.Config{
		Transpilers: []hostconfig.Transpiler{{SourceExt: ".src", TargetExt: ".ts"}},
		Paths:       map[string][]string{},
	}
}

func TestAddOrUpdateDocumentAndScriptFileNames(t *testing.T) {
	h := New("/proj", testConfig(), &stubTranspiler{})
	h.AddOrUpdateDocument("/proj/a.src", "hello")
	h.AddOrUpdateDocument("/proj/b.src", "world")

	names := h.ScriptFileNames()
	if len(names) != 2 || names[0] != "/proj/a.ts" || names[1] != "/proj/b.ts" {
		t.Fatalf("unexpected script file names: %v", names)
	}
}

func TestGetScriptSnapshotTranspilesLazily(t *testing.T) {
	tp := &stubTranspiler{}
	h := New("/proj", testConfig(), tp)
	h.AddOrUpdateDocument("/proj/a.src", "hello")

	if len(tp.calls) != 0 {
		t.Fatalf("expected no eager transpile, got %v", tp.calls)
	}

	snap, ok := h.GetScriptSnapshot("/proj/a.ts")
	if !ok {
		t.Fatalf("expected a.ts to resolve to a snapshot")
	}
	if snap.GetText(0, snap.GetLength()) != "HELLO" {
		t.Fatalf("unexpected snapshot text: %q", snap.GetText(0, snap.GetLength()))
	}
	if len(tp.calls) != 1 {
		t.Fatalf("expected exactly one transpile call, got %d", len(tp.calls))
	}

	// Requesting again without a content change must not re-transpile.
	_, _ = h.GetScriptSnapshot("/proj/a.ts")
	if len(tp.calls) != 1 {
		t.Fatalf("expected snapshot cache reuse, got %d calls", len(tp.calls))
	}
}

func TestAddOrUpdateDocumentInvalidatesCache(t *testing.T) {
	tp := &stubTranspiler{}
	h := New("/proj", testConfig(), tp)
	h.AddOrUpdateDocument("/proj/a.src", "hello")
	h.GetScriptSnapshot("/proj/a.ts")

	h.AddOrUpdateDocument("/proj/a.src", "goodbye")
	snap, _ := h.GetScriptSnapshot("/proj/a.ts")
	if snap.GetText(0, snap.GetLength()) != "GOODBYE" {
		t.Fatalf("expected re-transpiled content, got %q", snap.GetText(0, snap.GetLength()))
	}
	if len(tp.calls) != 2 {
		t.Fatalf("expected exactly two transpile calls, got %d", len(tp.calls))
	}
}

func TestAddOrUpdateDocumentAlwaysBumpsProjectVersion(t *testing.T) {
	h := New("/proj", testConfig(), &stubTranspiler{})
	h.AddOrUpdateDocument("/proj/a.src", "hello")
	before := h.ProjectVersion()
	h.AddOrUpdateDocument("/proj/a.src", "hello")
	if h.ProjectVersion() <= before {
		t.Fatalf("expected project version to strictly increase even for identical content, got %d then %d", before, h.ProjectVersion())
	}
}

func TestBoundaryMethodsCanonicalizeMixedSlashes(t *testing.T) {
	tp := &stubTranspiler{}
	h := New("/proj", testConfig(), tp)
	h.AddOrUpdateDocument(`/proj/sub/a.src`, "hello")

	// A backslash-separated spelling of the same mirror path must reach
	// the same cached snapshot as the forward-slash form the resolver
	// always constructs.
	snap, ok := h.GetScriptSnapshot(`/proj\sub\a.ts`)
	if !ok {
		t.Fatalf("expected backslash-spelled path to resolve")
	}
	if snap.GetText(0, snap.GetLength()) != "HELLO" {
		t.Fatalf("unexpected snapshot text: %q", snap.GetText(0, snap.GetLength()))
	}
	if len(tp.calls) != 1 {
		t.Fatalf("expected a single transpile shared across both spellings, got %d", len(tp.calls))
	}

	if v := h.GetScriptVersion(`/proj\sub\a.ts`); v != "1" {
		t.Fatalf("expected version 1 for the backslash-spelled path, got %q", v)
	}
}

func TestAddOrUpdateDocumentCleansRedundantSegments(t *testing.T) {
	h := New("/proj", testConfig(), &stubTranspiler{})
	h.AddOrUpdateDocument("/proj/./sub/../a.src", "hello")

	names := h.ScriptFileNames()
	if len(names) != 1 || names[0] != "/proj/a.ts" {
		t.Fatalf("expected a cleaned mirror path, got %v", names)
	}
}

func TestRemoveDocument(t *testing.T) {
	h := New("/proj", testConfig(), &stubTranspiler{})
	h.AddOrUpdateDocument("/proj/a.src", "hello")
	h.RemoveDocument("/proj/a.src")
	if _, ok := h.GetScriptSnapshot("/proj/a.ts"); ok {
		t.Fatalf("expected removed document to be unresolvable")
	}
}

// flakyTranspiler fails on any source containing "boom", otherwise
// behaves like stubTranspiler.
type flakyTranspiler struct{}

func (flakyTranspiler) Compile(path, source string) Result {
	if strings.Contains(source, "boom") {
		return Result{Fatal: true}
	}
	b := sourcemap.NewBuilder(source)
	zero := uint32(0)
	b.Update(strings.ToUpper(source), &zero, 0)
	return Result{Code: strings.ToUpper(source), SourceMap: b}
}

func TestFatalTranspileReusesPreviousSnapshot(t *testing.T) {
	h := New("/proj", testConfig(), flakyTranspiler{})
	h.AddOrUpdateDocument("/proj/a.src", "hello")
	snap, ok := h.GetScriptSnapshot("/proj/a.ts")
	if !ok || snap.GetText(0, snap.GetLength()) != "HELLO" {
		t.Fatalf("expected initial transpile to succeed, got %+v", snap)
	}

	h.AddOrUpdateDocument("/proj/a.src", "boom")
	snap, ok = h.GetScriptSnapshot("/proj/a.ts")
	if !ok {
		t.Fatalf("expected mirror to still resolve after a fatal transpile")
	}
	if snap.GetText(0, snap.GetLength()) != "HELLO" {
		t.Fatalf("expected previous snapshot to be reused, got %q", snap.GetText(0, snap.GetLength()))
	}

	meta, ok := h.GetMeta("/proj/a.ts")
	if !ok || !meta.Fatal {
		t.Fatalf("expected metadata to report the fatal transpile, got %+v", meta)
	}
}

func TestHostSupportsMultipleRegisteredTranspilers(t *testing.T) {
	cfg := hostconfig.Config{
		Transpilers: []hostconfig.Transpiler{
			{SourceExt: ".src", TargetExt: ".ts"},
			{SourceExt: ".jsrc", TargetExt: ".js"},
		},
		Paths: map[string][]string{},
	}
	h := New("/proj", cfg, &stubTranspiler{})
	h.AddOrUpdateDocument("/proj/a.src", "hello")
	h.AddOrUpdateDocument("/proj/b.jsrc", "world")

	names := h.ScriptFileNames()
	if len(names) != 2 || names[0] != "/proj/a.ts" || names[1] != "/proj/b.js" {
		t.Fatalf("expected both dialects to mirror through their own transpiler, got %v", names)
	}
}

func TestNonTranspilableDocumentPassesThroughUnchanged(t *testing.T) {
	h := New("/proj", testConfig(), &stubTranspiler{})
	h.AddOrUpdateDocument("/proj/data.json", `{"a":1}`)

	names := h.ScriptFileNames()
	if len(names) != 1 || names[0] != "/proj/data.json" {
		t.Fatalf("expected the unregistered extension to be visible under its own path, got %v", names)
	}
	snap, ok := h.GetScriptSnapshot("/proj/data.json")
	if !ok || snap.GetText(0, snap.GetLength()) != `{"a":1}` {
		t.Fatalf("expected pass-through content, got %+v ok=%v", snap, ok)
	}
}

func TestGetScriptVersionTracksContentChanges(t *testing.T) {
	h := New("/proj", testConfig(), &stubTranspiler{})
	h.AddOrUpdateDocument("/proj/a.src", "hello")
	v1 := h.GetScriptVersion("/proj/a.ts")
	h.AddOrUpdateDocument("/proj/a.src", "hello2")
	v2 := h.GetScriptVersion("/proj/a.ts")
	if v1 == v2 {
		t.Fatalf("expected version to change after content update, got %q both times", v1)
	}
}

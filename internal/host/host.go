// Package host implements a virtual-file host: an in-memory document
// store that lazily transpiles SRC documents to TGT text on demand,
// caches the result against the source snapshot that produced it, and
// answers the queries a TGT-aware language service needs (script
// version, snapshot, module resolution) without ever touching the real
// filesystem for a document it already knows about.
package host

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"tsbridge/internal/diag"
	"tsbridge/internal/hostconfig"
	"tsbridge/internal/logging"
	"tsbridge/internal/sourcemap"
)

// Transpiler is the external SRC-to-TGT capability the host drives. It
// is not implemented by this package: production hosts wire it to a
// real transpiler, tests wire it to a stub.
type Transpiler interface {
	Compile(path, source string) Result
}

// Result is one transpile's output.
type Result struct {
	Code        string
	SourceMap   *sourcemap.Builder
	Diagnostics []diag.Diagnostic
	Fatal       bool
}

// fileMeta tracks everything the host knows about one SRC document.
type fileMeta struct {
	srcPath       string
	version       int64
	content       string
	scriptSnap    *Snapshot // SRC-side snapshot cache, keyed by version
	tgtSnap       *Snapshot // TGT-side snapshot cache, keyed by transpiledFor
	transpiled    *Result
	transpiledFor int64 // srcPath version the cached Result was computed from
	crCache       map[*Snapshot]ChangeRange
}

// Host is the virtual-file host. All mutation goes through its
// exported methods, which take the lock; callers never observe
// partially updated state.
type Host struct {
	mu sync.Mutex

	cfg      hostconfig.Config
	root     string
	log      *log.Logger
	tp       Transpiler
	files    map[string]*fileMeta // SRC path -> metadata
	byMirror map[string]string    // TGT mirror path -> SRC path
	order    []string             // stable SRC path order
	version  int64                // monotonic project version

	resolver *Resolver
}

// New builds a Host rooted at root, configured by cfg, driving tp for
// transpilation.
func New(root string, cfg hostconfig.Config, tp Transpiler) *Host {
	h := &Host{
		cfg:      cfg,
		root:     canonicalizePath(root),
		tp:       tp,
		log:      logging.Default(),
		files:    make(map[string]*fileMeta),
		byMirror: make(map[string]string),
	}
	h.resolver = NewResolver(cfg, h.root, h.hasDocument)
	return h
}

func (h *Host) hasDocument(p string) bool {
	p = canonicalizePath(p)
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.files[p]
	return ok
}

// AddOrUpdateDocument registers srcPath with new content, bumping both
// the file's own version and the host's project version. This happens
// unconditionally, even when content is unchanged from what's already
// stored: projectVersion strictly increases across every call, which is
// the signal the TGT service relies on to invalidate its own derived
// data. The version bump marks any cached transpile output stale; that
// output and its TGT snapshot are kept until the next transpile
// replaces them, so a fatal transpile can fall back on them. It also
// drops the resolver's cached entries, since a specifier that failed to
// resolve before this document existed must be retried now that it does.
func (h *Host) AddOrUpdateDocument(srcPath, content string) {
	srcPath = canonicalizePath(srcPath)
	h.mu.Lock()
	defer h.mu.Unlock()

	meta, existed := h.files[srcPath]
	if !existed {
		meta = &fileMeta{srcPath: srcPath}
		h.files[srcPath] = meta
		h.byMirror[h.mirrorPath(srcPath)] = srcPath
		h.order = append(h.order, srcPath)
		sort.Strings(h.order)
	}
	meta.content = content
	meta.version++
	meta.scriptSnap = nil
	meta.crCache = nil
	h.version++
	h.resolver.Invalidate(srcPath)
	h.log.Debug("document updated", logging.FieldPath, srcPath, logging.FieldProjectVer, h.version)
}

// RemoveDocument drops srcPath entirely.
func (h *Host) RemoveDocument(srcPath string) {
	srcPath = canonicalizePath(srcPath)
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.files[srcPath]; !ok {
		return
	}
	delete(h.files, srcPath)
	delete(h.byMirror, h.mirrorPath(srcPath))
	for i, p := range h.order {
		if p == srcPath {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	h.version++
	h.resolver.Invalidate(srcPath)
}

// ScriptFileNames returns the TGT-visible mirror path for every known
// SRC document, in stable sorted order.
func (h *Host) ScriptFileNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.order))
	for _, p := range h.order {
		out = append(out, h.mirrorPath(p))
	}
	return out
}

// mirrorPath returns the TGT-visible path for srcPath: the mirror path
// under the first registered transpiler whose source extension matches,
// or srcPath unchanged if none does (a document the TGT service already
// understands natively needs no mirror).
func (h *Host) mirrorPath(srcPath string) string {
	for _, tp := range h.cfg.Transpilers {
		if strings.HasSuffix(srcPath, tp.SourceExt) {
			return trimExt(srcPath, tp.SourceExt) + tp.TargetExt
		}
	}
	return srcPath
}

func (h *Host) isTranspilable(srcPath string) bool {
	for _, tp := range h.cfg.Transpilers {
		if strings.HasSuffix(srcPath, tp.SourceExt) {
			return true
		}
	}
	return false
}

func trimExt(p, ext string) string {
	if ext == "" || len(p) < len(ext) || p[len(p)-len(ext):] != ext {
		return p
	}
	return p[:len(p)-len(ext)]
}

// GetScriptVersion returns the version stamp for a mirrored TGT path,
// as a string per the checker-host convention that treats versions as
// opaque comparison tokens rather than numbers. An unknown path reports
// version "0", matching the version a checker would assign a document
// it has never seen.
func (h *Host) GetScriptVersion(tgtPath string) string {
	tgtPath = canonicalizePath(tgtPath)
	h.mu.Lock()
	defer h.mu.Unlock()
	meta, ok := h.metaForMirror(tgtPath)
	if !ok {
		return "0"
	}
	return fmt.Sprintf("%d", meta.version)
}

// MirrorPath returns the canonicalised TGT-visible mirror path for
// srcPath, the same mapping ScriptFileNames applies to every known
// document.
func (h *Host) MirrorPath(srcPath string) string {
	srcPath = canonicalizePath(srcPath)
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mirrorPath(srcPath)
}

// ProjectVersion returns the monotonic counter bumped by every document
// add, update, or removal.
func (h *Host) ProjectVersion() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.version
}

func (h *Host) metaForMirror(tgtPath string) (*fileMeta, bool) {
	srcPath, ok := h.byMirror[tgtPath]
	if !ok {
		return nil, false
	}
	meta, ok := h.files[srcPath]
	return meta, ok
}

package host

import (
	"tsbridge/internal/diag"
	"tsbridge/internal/sourcemap"
)

// ensureTranspiled runs the transpiler for meta if its cached Result is
// stale or absent. A fatal result never displaces the previously
// produced code or snapshot: only its diagnostics are recorded, so the
// language service never sees a mirror document disappear because of a
// bad edit.
//
// Callers must hold h.mu on entry. The lock is released for the
// duration of the external Compile call and re-acquired before this
// returns, so WarmProject's concurrent callers actually overlap their
// transpiles instead of serializing on the host's single lock. The
// document may have been edited again while Compile ran without the
// lock; the result is only committed if meta's version hasn't moved on
// in the meantime, otherwise it's discarded as stale.
func (h *Host) ensureTranspiled(meta *fileMeta) {
	for {
		if meta.transpiled != nil && meta.transpiledFor == meta.version {
			return
		}
		if !h.isTranspilable(meta.srcPath) {
			meta.transpiled = &Result{Code: meta.content}
			meta.transpiledFor = meta.version
			meta.tgtSnap = nil
			meta.crCache = nil
			return
		}
		srcPath, content, version := meta.srcPath, meta.content, meta.version
		h.mu.Unlock()
		result := h.tp.Compile(srcPath, content)
		h.mu.Lock()

		if meta.version != version {
			// Edited again while Compile ran unlocked; retry against
			// whatever version meta is on now.
			continue
		}
		meta.transpiledFor = version
		if result.Fatal && meta.transpiled != nil {
			stale := *meta.transpiled
			stale.Diagnostics = result.Diagnostics
			stale.Fatal = true
			meta.transpiled = &stale
			return
		}
		meta.transpiled = &result
		meta.tgtSnap = nil
		meta.crCache = nil
		return
	}
}

// GetScriptSnapshot returns the TGT-side snapshot for a mirrored path,
// lazily transpiling and caching it against the SRC version that
// produced it. A later call against an unchanged SRC document reuses
// the cached snapshot rather than re-running the transpiler.
func (h *Host) GetScriptSnapshot(tgtPath string) (*Snapshot, bool) {
	tgtPath = canonicalizePath(tgtPath)
	h.mu.Lock()
	defer h.mu.Unlock()
	meta, ok := h.metaForMirror(tgtPath)
	if !ok {
		return nil, false
	}
	h.ensureTranspiled(meta)
	if meta.tgtSnap == nil {
		meta.tgtSnap = newSnapshot(meta.transpiled.Code, meta.version)
	}
	return meta.tgtSnap, true
}

// GetSourceSnapshot returns the SRC-side snapshot for srcPath, the text
// as the document store holds it, independent of transpilation.
func (h *Host) GetSourceSnapshot(srcPath string) (*Snapshot, bool) {
	srcPath = canonicalizePath(srcPath)
	h.mu.Lock()
	defer h.mu.Unlock()
	meta, ok := h.files[srcPath]
	if !ok {
		return nil, false
	}
	if meta.scriptSnap == nil {
		meta.scriptSnap = newSnapshot(meta.content, meta.version)
	}
	return meta.scriptSnap, true
}

// ChangeRangeSince computes the edit between old and the document's
// current snapshot, for a checker that wants an incremental re-parse
// rather than a full one. The result is memoised per old-snapshot
// identity so a checker that holds onto a snapshot and asks for its
// change range repeatedly doesn't pay for the diff more than once.
func (h *Host) ChangeRangeSince(tgtPath string, old *Snapshot) (ChangeRange, bool) {
	tgtPath = canonicalizePath(tgtPath)
	h.mu.Lock()
	defer h.mu.Unlock()
	meta, ok := h.metaForMirror(tgtPath)
	if !ok {
		return ChangeRange{}, false
	}
	h.ensureTranspiled(meta)
	if meta.tgtSnap == nil {
		meta.tgtSnap = newSnapshot(meta.transpiled.Code, meta.version)
	}
	if cr, hit := meta.crCache[old]; hit {
		return cr, true
	}
	cr := computeChangeRange(old.text, meta.tgtSnap.text)
	if meta.crCache == nil {
		meta.crCache = make(map[*Snapshot]ChangeRange)
	}
	meta.crCache[old] = cr
	return cr, true
}

// Meta is the per-document metadata exposed to callers outside the
// package: the map lines produced by the last successful transpile, the
// diagnostics the last transpile raised, and whether it was fatal.
type Meta struct {
	SourcemapLines []sourcemap.Line
	Diagnostics    []diag.Diagnostic
	Fatal          bool
}

// GetMeta returns the last transpile's diagnostics and fatal flag for a
// mirrored TGT path, transpiling first if the cache is stale.
func (h *Host) GetMeta(tgtPath string) (Meta, bool) {
	tgtPath = canonicalizePath(tgtPath)
	h.mu.Lock()
	defer h.mu.Unlock()
	meta, ok := h.metaForMirror(tgtPath)
	if !ok {
		return Meta{}, false
	}
	h.ensureTranspiled(meta)
	out := Meta{Diagnostics: meta.transpiled.Diagnostics, Fatal: meta.transpiled.Fatal}
	if meta.transpiled.SourceMap != nil {
		out.SourcemapLines = meta.transpiled.SourceMap.Lines()
	}
	return out, true
}

// Resolve exposes the host's module resolver to a language service's
// custom module resolution hook.
func (h *Host) Resolve(specifier, containingTGTPath string) (string, bool) {
	containingTGTPath = canonicalizePath(containingTGTPath)
	h.mu.Lock()
	srcPath, ok := h.byMirror[containingTGTPath]
	h.mu.Unlock()
	if !ok {
		srcPath = containingTGTPath
	}
	resolved := h.resolver.Resolve(specifier, srcPath)
	if resolved == "" {
		return "", false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mirrorPath(canonicalizePath(resolved)), true
}

package host

import (
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"

	"tsbridge/internal/hostconfig"
)

// resolutionCacheKey identifies one resolution request: the specifier
// as written plus the file that imported it, since relative specifiers
// resolve differently depending on the importer.
type resolutionCacheKey struct {
	specifier    string
	containingFile string
}

// Resolver maps SRC/TGT module specifiers to real document paths using
// a baseUrl and a tsconfig-style paths table, mirroring how a
// TypeScript-aware language service resolves bare imports.
type Resolver struct {
	cfg   hostconfig.Config
	root  string
	exist func(path string) bool
	cache map[resolutionCacheKey]string
}

// NewResolver builds a Resolver rooted at root, using exists to probe
// candidate paths on the host's document set (never the real
// filesystem, so resolution only ever sees documents the host knows
// about).
func NewResolver(cfg hostconfig.Config, root string, exists func(path string) bool) *Resolver {
	return &Resolver{cfg: cfg, root: root, exist: exists, cache: make(map[resolutionCacheKey]string)}
}

// Resolve turns a module specifier written inside containingFile into an
// absolute document path, or "" if no candidate exists among known
// documents.
func (r *Resolver) Resolve(specifier, containingFile string) string {
	specifier = norm.NFC.String(specifier)
	key := resolutionCacheKey{specifier: specifier, containingFile: containingFile}
	if hit, ok := r.cache[key]; ok {
		return hit
	}

	resolved := r.resolveUncached(specifier, containingFile)
	r.cache[key] = resolved
	return resolved
}

// Invalidate drops every cached resolution. It is called whenever any
// document is added, updated, or removed: a failed resolution is cached
// as "", so a targeted invalidation keyed on the resolved value can
// never find the entries a newly added document would change. Clearing
// the whole cache costs one relookup per specifier on the next miss,
// which is cheap next to a transpile.
func (r *Resolver) Invalidate(changedPath string) {
	r.cache = make(map[resolutionCacheKey]string)
}

func (r *Resolver) resolveUncached(specifier, containingFile string) string {
	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		dir := path.Dir(containingFile)
		return r.probeCandidates(path.Join(dir, specifier))
	}
	if path.IsAbs(specifier) {
		return r.probeCandidates(specifier)
	}
	if target := r.resolveViaPaths(specifier); target != "" {
		return target
	}
	if r.cfg.BaseURL != "" {
		return r.probeCandidates(path.Join(r.root, r.cfg.BaseURL, specifier))
	}
	return ""
}

// resolveViaPaths walks the paths table for the longest matching
// pattern, mirroring the greediest-prefix-wins semantics of a
// tsconfig paths table: "@app/*" beats "@*" for a specifier "@app/x".
func (r *Resolver) resolveViaPaths(specifier string) string {
	var bestPattern string
	var bestTargets []string
	for pattern, targets := range r.cfg.Paths {
		if !pathPatternMatches(pattern, specifier) {
			continue
		}
		if len(pattern) > len(bestPattern) {
			bestPattern = pattern
			bestTargets = targets
		}
	}
	if bestPattern == "" {
		return ""
	}
	wildcard := extractWildcard(bestPattern, specifier)
	for _, target := range bestTargets {
		candidate := strings.Replace(target, "*", wildcard, 1)
		if resolved := r.probeCandidates(path.Join(r.root, candidate)); resolved != "" {
			return resolved
		}
	}
	return ""
}

func pathPatternMatches(pattern, specifier string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == specifier
	}
	prefix, suffix, _ := strings.Cut(pattern, "*")
	return strings.HasPrefix(specifier, prefix) && strings.HasSuffix(specifier, suffix) &&
		len(specifier) >= len(prefix)+len(suffix)
}

func extractWildcard(pattern, specifier string) string {
	prefix, suffix, _ := strings.Cut(pattern, "*")
	return specifier[len(prefix) : len(specifier)-len(suffix)]
}

// probeCandidates tries base as-is, then with every registered
// transpiler's source and target extensions, then as a directory index
// under each, in registration order — the same fallback order a module
// resolver applies to an extension-less specifier, generalized to a
// project that registers more than one source dialect.
func (r *Resolver) probeCandidates(base string) string {
	candidates := []string{base}
	for _, tp := range r.cfg.Transpilers {
		candidates = append(candidates, base+tp.SourceExt, base+tp.TargetExt)
	}
	for _, tp := range r.cfg.Transpilers {
		candidates = append(candidates, path.Join(base, "index"+tp.SourceExt), path.Join(base, "index"+tp.TargetExt))
	}
	for _, c := range candidates {
		if r.exist(c) {
			return c
		}
	}
	return ""
}

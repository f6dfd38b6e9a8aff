// Package sourcemap builds standard version-3 source maps during
// transpilation and composes them across transpilation stages so a
// position in generated (TGT) code can be projected back through every
// intermediate map to a position in the original (SRC) source.
package sourcemap

// Segment is one anchor in the resolved, in-memory form of a map: a
// generated-column delta within its line, plus either nothing (unmapped),
// an absolute source position (mapped), or an absolute source position
// with an interned name (named). GenColDelta is always a delta from the
// previous segment's generated column on the same line, in both the wire
// and resolved forms; SrcLine and SrcCol are absolute in resolved form,
// even though the wire form only carries deltas for them.
type Segment struct {
	GenColDelta int32
	Mapped      bool
	SrcFileIx   int32
	SrcLine     int32
	SrcCol      int32
	Named       bool
	NameIx      int32
}

// Line is an ordered sequence of segments sorted by increasing generated
// column.
type Line []Segment

// Map is an ordered sequence of generated lines, each a sequence of
// resolved-form segments, plus the interned name table shared across the
// whole map.
type Map struct {
	Lines []Line
	Names []string
}

// Document is the JSON envelope of the standard version-3 source-map
// wire format.
type Document struct {
	Version        int      `json:"version"`
	File           string   `json:"file"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

package sourcemap

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"

	"fmt"

	"fortio.org/safecast"

	"tsbridge/internal/loctable"
	"tsbridge/internal/vlq"
)

// lineSplit matches a line terminator so update can walk an output
// chunk sub-line by sub-line without keeping the terminator itself.
var lineSplit = regexp.MustCompile(`\r\n|\r|\n`)

func splitLines(s string) []string {
	return lineSplit.Split(s, -1)
}

// Builder accumulates resolved-form mapping segments as transpiled
// output is emitted, one update call per fragment. It owns the location
// table for the source it maps from; that table is immutable for the
// lifetime of the builder.
type Builder struct {
	lines  []Line
	genCol uint32 // column offset already emitted on the current generated line
	source string
	table  []uint32
	names  *nameTable
}

// NewBuilder creates a builder for one transpile of source.
func NewBuilder(source string) *Builder {
	return &Builder{
		lines:  []Line{{}},
		source: source,
		table:  loctable.BuildTable(source),
		names:  newNameTable(),
	}
}

// Update records one emitted output fragment. inputPos, when non-nil, is
// the byte offset in the source that produced outputChunk; colOffset
// shifts the resolved source column, used when a fragment starts partway
// through a source line.
func (b *Builder) Update(outputChunk string, inputPos *uint32, colOffset uint32) {
	b.update(outputChunk, inputPos, colOffset, "")
}

// UpdateNamed is Update plus a symbol name to attach to the resulting
// mapped segment. The transpiler calls this instead of Update when the
// emitted fragment corresponds to a named binding in the source, so
// renames survive projection back through remapPosition.
func (b *Builder) UpdateNamed(outputChunk string, inputPos *uint32, colOffset uint32, name string) {
	b.update(outputChunk, inputPos, colOffset, name)
}

func (b *Builder) update(outputChunk string, inputPos *uint32, colOffset uint32, named string) {
	subLines := splitLines(outputChunk)

	var haveSrc bool
	var baseLine, baseCol uint32
	if inputPos != nil {
		haveSrc = true
		line, col := loctable.Lookup(b.table, *inputPos)
		baseLine = uint32(line)
		baseCol = uint32(col) + colOffset
	}

	for i, sub := range subLines {
		if i > 0 {
			b.lines = append(b.lines, Line{})
			b.genCol = 0
		}

		// A segment stores its generated column as a delta from the
		// previous segment on the same line.
		var prevCol int32
		for _, s := range b.lines[len(b.lines)-1] {
			prevCol += s.GenColDelta
		}
		segCol := b.genCol
		segColDelta := int32(segCol) - prevCol
		subLen, err := safecast.Conv[uint32](len(sub))
		if err != nil {
			panic(fmt.Errorf("sourcemap: sub-line length overflow: %w", err))
		}
		b.genCol += subLen

		if !haveSrc {
			if segCol != 0 {
				b.append(Segment{GenColDelta: segColDelta})
			}
			continue
		}

		var srcLine, srcCol uint32
		if i == 0 {
			srcLine, srcCol = baseLine, baseCol
		} else {
			srcLine, srcCol = baseLine+uint32(i), colOffset
		}

		seg := Segment{
			GenColDelta: segColDelta,
			Mapped:      true,
			SrcLine:     int32(srcLine),
			SrcCol:      int32(srcCol),
		}
		if named != "" {
			seg.Named = true
			seg.NameIx = b.names.intern(named)
		}
		b.append(seg)
	}
}

func (b *Builder) append(seg Segment) {
	last := len(b.lines) - 1
	b.lines[last] = append(b.lines[last], seg)
}

// Lines returns the builder's resolved-form lines. The caller must not
// retain the slice across a later Update call that appends a new line,
// since append may reallocate; Remap's in-place mutation contract (see
// compose.go) assumes exclusive ownership passes at handoff.
func (b *Builder) Lines() []Line {
	return b.lines
}

// SetLines replaces the builder's lines wholesale. This is the one
// sanctioned in-place mutation point used by Remap when composing an
// already-handed-off map with a downstream map.
func (b *Builder) SetLines(lines []Line) {
	b.lines = lines
}

// Render serializes the accumulated lines to the standard mappings wire
// format: ';'-separated generated lines of ','-separated VLQ segments.
func (b *Builder) Render() string {
	var out strings.Builder
	var lastFile, lastSrcLine, lastSrcCol, lastName int32
	for li, line := range b.lines {
		if li > 0 {
			out.WriteByte(';')
		}
		for si, seg := range line {
			if si > 0 {
				out.WriteByte(',')
			}
			if !seg.Mapped {
				out.WriteString(encodeSegment(seg, 0, 0, 0, 0))
				continue
			}
			fileDelta := seg.SrcFileIx - lastFile
			lineDelta := seg.SrcLine - lastSrcLine
			colDelta := seg.SrcCol - lastSrcCol
			lastFile, lastSrcLine, lastSrcCol = seg.SrcFileIx, seg.SrcLine, seg.SrcCol
			if seg.Named {
				nameDelta := seg.NameIx - lastName
				lastName = seg.NameIx
				out.WriteString(encodeNamedSegment(seg, fileDelta, lineDelta, colDelta, nameDelta))
			} else {
				out.WriteString(encodeSegment(seg, fileDelta, lineDelta, colDelta, 1))
			}
		}
	}
	return out.String()
}

// ToJSON assembles the standard source-map envelope for this builder's
// accumulated mappings.
func (b *Builder) ToJSON(srcName, outName string) Document {
	return Document{
		Version:        3,
		File:           outName,
		Sources:        []string{srcName},
		SourcesContent: []string{b.source},
		Names:          b.names.snapshot(),
		Mappings:       b.Render(),
	}
}

// InlineComment renders this builder's map as a trailing data-URL
// comment suitable for appending to the generated file. The "//" and
// "#" halves of the marker are concatenated at runtime rather than
// written as one literal, so tooling scanning this source file for a
// map comment does not mistake this file for a mapped one.
func (b *Builder) InlineComment(srcName, outName string) string {
	doc := b.ToJSON(srcName, outName)
	payload, err := json.Marshal(doc)
	if err != nil {
		// Document is built entirely from this package's own types; a
		// marshal failure here would mean a broken invariant elsewhere.
		panic(err)
	}
	encoded := base64.StdEncoding.EncodeToString(payload)
	return "//" + "# sourceMappingURL=data:application/json;base64," + encoded
}

func encodeSegment(seg Segment, fileDelta, lineDelta, colDelta int32, arity int) string {
	if arity == 0 {
		return vlq.Encode(int64(seg.GenColDelta))
	}
	return vlq.EncodeSegment(int64(seg.GenColDelta), int64(fileDelta), int64(lineDelta), int64(colDelta))
}

func encodeNamedSegment(seg Segment, fileDelta, lineDelta, colDelta, nameDelta int32) string {
	return encodeSegment(seg, fileDelta, lineDelta, colDelta, 1) + vlq.Encode(int64(nameDelta))
}

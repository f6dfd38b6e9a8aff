package sourcemap

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"tsbridge/internal/vlq"
)

// ErrMalformedMap is returned by ParseWithLines when the mappings string
// contains a segment of an arity other than 1, 4, or 5.
var ErrMalformedMap = errors.New("sourcemap: malformed mapping data")

// inlineCommentPattern matches a trailing inline source-map comment,
// tolerating an optional charset parameter and trailing whitespace, and
// an optional preceding newline that is stripped along with the comment.
var inlineCommentPattern = regexp.MustCompile(
	`\n?//` + `# sourceMappingURL=data:application/json;(?:charset=[^;]*;)?base64,([A-Za-z0-9+/]*=?=?)[ \t]*\z`,
)

// ParseWithLines decodes a base64-encoded map document payload and
// returns its lines converted to resolved form: srcLine and srcCol are
// made absolute by accumulating their wire deltas across the entire
// mapping stream, while genColDelta is left as-is since it is already a
// within-line delta in both forms.
func ParseWithLines(payload string) (*Map, error) {
	raw, err := decodeMapPayload(payload)
	if err != nil {
		return nil, fmt.Errorf("sourcemap: decode payload: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("sourcemap: decode envelope: %w", err)
	}

	lineStrs := splitTop(doc.Mappings, ';')
	lines := make([]Line, len(lineStrs))
	var lastFile, lastLine, lastCol, lastName int32

	for li, lineStr := range lineStrs {
		if lineStr == "" {
			continue
		}
		segStrs := splitTop(lineStr, ',')
		line := make(Line, 0, len(segStrs))
		for _, segStr := range segStrs {
			values, err := vlq.DecodeSegment(segStr)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformedMap, err)
			}
			switch len(values) {
			case 1:
				line = append(line, Segment{GenColDelta: int32(values[0])})
			case 4, 5:
				lastFile += int32(values[1])
				lastLine += int32(values[2])
				lastCol += int32(values[3])
				seg := Segment{
					GenColDelta: int32(values[0]),
					Mapped:      true,
					SrcFileIx:   lastFile,
					SrcLine:     lastLine,
					SrcCol:      lastCol,
				}
				if len(values) == 5 {
					lastName += int32(values[4])
					seg.Named = true
					seg.NameIx = lastName
				}
				line = append(line, seg)
			}
		}
		lines[li] = line
	}

	return &Map{Lines: lines, Names: doc.Names}, nil
}

func decodeMapPayload(payload string) ([]byte, error) {
	if data, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(payload)
}

// splitTop splits s on sep, returning a single empty-string element for
// an empty s (so an empty mappings string yields one empty line, not
// zero lines).
func splitTop(s string, sep byte) []string {
	if s == "" {
		return []string{""}
	}
	out := make([]string, 0, 4)
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// RemapPosition looks up the source position for the generated (line,
// col) in mapLines. It returns ok=false when col does not land exactly
// on a mapped segment's generated column; approximate or nearest-segment
// matches are never returned.
func RemapPosition(line, col int, mapLines []Line) (srcLine, srcCol int32, ok bool) {
	if line < 0 || line >= len(mapLines) || len(mapLines[line]) == 0 {
		return 0, 0, false
	}
	var p int32
	var lastMapped *Segment
	var lastMappedCol int32
	for i := range mapLines[line] {
		seg := &mapLines[line][i]
		p += seg.GenColDelta
		if seg.Mapped {
			lastMapped = seg
			lastMappedCol = p
		}
		if p >= int32(col) {
			break
		}
	}
	if lastMapped == nil || lastMappedCol != int32(col) {
		return 0, 0, false
	}
	return lastMapped.SrcLine, lastMapped.SrcCol, true
}

// ComposeLines produces the composition of downstream through upstream:
// every mapped or named segment in downstream has its source position
// replaced by projecting it through upstream. A segment that does not
// land on an exact upstream anchor is downgraded to unmapped, keeping
// its genColDelta so later segments' accumulated columns stay correct.
func ComposeLines(upstream, downstream []Line) []Line {
	composed := make([]Line, len(downstream))
	for li, line := range downstream {
		out := make(Line, len(line))
		for si, seg := range line {
			if !seg.Mapped {
				out[si] = seg
				continue
			}
			srcLine, srcCol, ok := RemapPosition(int(seg.SrcLine), int(seg.SrcCol), upstream)
			if !ok {
				out[si] = Segment{GenColDelta: seg.GenColDelta}
				continue
			}
			composedSeg := seg
			composedSeg.SrcLine = srcLine
			composedSeg.SrcCol = srcCol
			out[si] = composedSeg
		}
		composed[li] = out
	}
	return composed
}

// Remap strips a trailing inline map comment from codeWithMapComment, if
// present, composes it through upstream's accumulated lines, mutates
// upstream's lines in place to the composed result, and appends a fresh
// inline map comment derived from upstream. This is the one sanctioned
// in-place mutation of an already-handed-off Builder: composition would
// otherwise require reallocating every nested line slice of a map that
// may span the whole file.
func Remap(codeWithMapComment string, upstream *Builder, srcPath, outPath string) (string, error) {
	stripped, payload, found := stripInlineComment(codeWithMapComment)
	if found {
		downstream, err := ParseWithLines(payload)
		if err != nil {
			return "", err
		}
		upstream.SetLines(ComposeLines(upstream.Lines(), downstream.Lines))
	}
	return stripped + upstream.InlineComment(srcPath, outPath), nil
}

func stripInlineComment(code string) (stripped, payload string, found bool) {
	loc := inlineCommentPattern.FindStringSubmatchIndex(code)
	if loc == nil {
		return code, "", false
	}
	return code[:loc[0]], code[loc[2]:loc[3]], true
}

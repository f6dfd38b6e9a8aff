// Package transpiler provides a minimal stand-in for the real SRC-to-TGT
// transpiler, which is an external collaborator this module never
// implements. Passthrough exists so the CLI and host tests have a
// concrete host.Transpiler to drive without depending on that external
// system: it copies SRC text through unchanged, line by line, emitting
// one mapped segment per generated line, and appends the inline map
// comment a real transpiler would.
package transpiler

import (
	"strings"

	"tsbridge/internal/diag"
	"tsbridge/internal/host"
	"tsbridge/internal/sourcemap"
)

// Passthrough implements host.Transpiler by echoing the source text
// as-is plus a trailing inline source-map comment, useful for
// exercising the host and source-map machinery end-to-end without a
// real compiler backend.
type Passthrough struct{}

func (Passthrough) Compile(path, source string) host.Result {
	bag := diag.NewBag(64)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	if strings.TrimSpace(source) == "" {
		diag.ReportWarning(reporter, diag.TranspileInfo, diag.Span{Path: path}, "empty document").Emit()
	}

	b := sourcemap.NewBuilder(source)
	var offset uint32
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		start := offset
		b.Update(line, &start, 0)
		if i < len(lines)-1 {
			b.Update("\n", nil, 0)
		}
		offset += uint32(len(line)) + 1
	}
	code := source + "\n" + b.InlineComment(path, path)
	return host.Result{Code: code, SourceMap: b, Diagnostics: bag.Items()}
}

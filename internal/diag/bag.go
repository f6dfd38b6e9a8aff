package diag

import (
	"cmp"
	"sort"
)

// Bag accumulates diagnostics for one host operation, up to a fixed
// capacity so a pathological document can't grow the report unbounded.
type Bag struct {
	items []Diagnostic
	max   uint16
}

func NewBag(max int) *Bag {
	return &Bag{items: make([]Diagnostic, 0, max), max: uint16(max)}
}

// Add appends d, respecting the bag's capacity. It reports whether d was
// added.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 { return b.max }
func (b *Bag) Len() int    { return len(b.items) }

func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// Items returns the bag's diagnostics. The caller must not mutate the
// returned slice; it aliases the bag's internal storage.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends other's diagnostics, growing the capacity if needed to
// hold them all.
func (b *Bag) Merge(other *Bag) {
	total := len(b.items) + len(other.items)
	if uint16(total) > b.max {
		b.max = uint16(total)
	}
	b.items = append(b.items, other.items...)
}

// sortKey is the tuple Sort orders by: file, then start, then end, then
// severity descending, then code ascending. Building it once per
// diagnostic keeps the comparator itself a single cmp.Or chain instead
// of a cascade of manual if-returns.
func sortKey(d Diagnostic) (path string, start, end uint32, sevRank int, code uint16) {
	return d.Primary.Path, d.Primary.Start, d.Primary.End, int(^d.Severity), uint16(d.Code)
}

// Sort orders diagnostics deterministically for reporting: by file
// location first, then the more severe diagnostic first, then by code.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		pi, si, ei, vi, ci := sortKey(b.items[i])
		pj, sj, ej, vj, cj := sortKey(b.items[j])
		return cmp.Or(
			cmp.Compare(pi, pj),
			cmp.Compare(si, sj),
			cmp.Compare(ei, ej),
			cmp.Compare(vi, vj),
			cmp.Compare(ci, cj),
		) < 0
	})
}

// bagDedupKey identifies diagnostics that repeat the same complaint at the
// same location.
type bagDedupKey struct {
	code Code
	span Span
}

// Dedup drops diagnostics that repeat an earlier one's code and primary
// span, keeping the first occurrence. It rebuilds items in place rather
// than copying into a fresh slice, since the result is never longer
// than the input.
func (b *Bag) Dedup() {
	seen := make(map[bagDedupKey]struct{}, len(b.items))
	n := 0
	for _, d := range b.items {
		key := bagDedupKey{code: d.Code, span: d.Primary}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		b.items[n] = d
		n++
	}
	b.items = b.items[:n]
}

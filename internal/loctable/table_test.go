package loctable

import "testing"

func TestBuildTableAndLookup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		pos   uint32
		line  int
		col   int
	}{
		{"first line start", "abc\ndef\nghi", 0, 0, 0},
		{"first line mid", "abc\ndef\nghi", 2, 0, 2},
		{"second line start", "abc\ndef\nghi", 4, 1, 0},
		{"second line mid", "abc\ndef\nghi", 6, 1, 2},
		{"third line, no trailing newline", "abc\ndef\nghi", 10, 2, 2},
		{"crlf boundary", "ab\r\ncd", 2, 0, 2},
		{"crlf next line", "ab\r\ncd", 4, 1, 0},
		{"empty input", "", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := BuildTable(tt.input)
			line, col := Lookup(table, tt.pos)
			if line != tt.line || col != tt.col {
				t.Fatalf("Lookup(%d) = (%d,%d), want (%d,%d)", tt.pos, line, col, tt.line, tt.col)
			}
		})
	}
}

func TestBuildTableTrailingNewline(t *testing.T) {
	table := BuildTable("abc\n")
	if len(table) != 1 {
		t.Fatalf("expected one line entry, got %v", table)
	}
	if table[0] != 4 {
		t.Fatalf("expected entry at offset 4, got %d", table[0])
	}
}

func TestRegistryCachesUntilContentChanges(t *testing.T) {
	reg := NewRegistry()
	t1 := reg.Get("a.src", "abc\ndef")
	t2 := reg.Get("a.src", "abc\ndef")
	if &t1[0] != &t2[0] {
		t.Fatalf("expected cached table to be reused")
	}
	t3 := reg.Get("a.src", "abc\ndef\nghi")
	if len(t3) == len(t1) {
		t.Fatalf("expected rebuilt table after content change")
	}
}

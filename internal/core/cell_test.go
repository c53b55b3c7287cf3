package core

import "testing"

func TestRawCell_Coercions(t *testing.T) {
	tests := []struct {
		name      string
		cell      RawCell
		wantText  string
		wantNum   float64
		wantNumOK bool
		wantEmpty bool
	}{
		{name: "absent", cell: AbsentCell, wantText: "", wantEmpty: true},
		{name: "text number", cell: TextCell("12.5"), wantText: "12.5", wantNum: 12.5, wantNumOK: true},
		{name: "text word", cell: TextCell("abc"), wantText: "abc"},
		{name: "whitespace text", cell: TextCell("   "), wantText: "   ", wantEmpty: true},
		{name: "number", cell: NumberCell(8), wantText: "8", wantNum: 8, wantNumOK: true},
		{name: "fraction", cell: NumberCell(0.25), wantText: "0.25", wantNum: 0.25, wantNumOK: true},
		{name: "bool true", cell: BoolCell(true), wantText: "TRUE"},
		{name: "bool false", cell: BoolCell(false), wantText: "FALSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.Text(); got != tt.wantText {
				t.Errorf("Text() = %q, want %q", got, tt.wantText)
			}
			n, ok := tt.cell.Number()
			if ok != tt.wantNumOK {
				t.Errorf("Number() ok = %v, want %v", ok, tt.wantNumOK)
			}
			if ok && n != tt.wantNum {
				t.Errorf("Number() = %v, want %v", n, tt.wantNum)
			}
			if got := tt.cell.IsEmpty(); got != tt.wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.wantEmpty)
			}
		})
	}
}

func TestRawCell_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b RawCell
		want bool
	}{
		{"same text", TextCell("A1"), TextCell("A1"), true},
		{"text trimmed", TextCell(" A1 "), TextCell("A1"), true},
		{"text case differs", TextCell("a1"), TextCell("A1"), false},
		{"same number", NumberCell(5), NumberCell(5), true},
		{"number vs numeric text", NumberCell(5), TextCell("5"), false},
		{"absent vs absent", AbsentCell, AbsentCell, true},
		{"absent vs blank text", AbsentCell, TextCell(" "), true},
		{"absent vs value", AbsentCell, TextCell("x"), false},
		{"bools", BoolCell(true), BoolCell(true), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			if got := tt.a.key() == tt.b.key(); got != tt.want {
				t.Errorf("key() equality = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRawCell_MarshalJSON(t *testing.T) {
	tests := []struct {
		cell RawCell
		want string
	}{
		{AbsentCell, "null"},
		{TextCell("x"), `"x"`},
		{NumberCell(1.5), "1.5"},
		{BoolCell(true), "true"},
	}
	for _, tt := range tests {
		b, err := tt.cell.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON: %v", err)
		}
		if string(b) != tt.want {
			t.Errorf("MarshalJSON(%v) = %s, want %s", tt.cell.Kind, b, tt.want)
		}
	}
}

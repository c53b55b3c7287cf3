package core

import (
	"encoding/json"
	"strings"
)

// CellKind tags the variant held by a RawCell.
type CellKind uint8

const (
	CellAbsent CellKind = iota
	CellText
	CellNumber
	CellBool
)

func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellBool:
		return "bool"
	default:
		return "absent"
	}
}

// RawCell is a single spreadsheet cell as produced by a decoder, before any
// interpretation. The zero value is an absent cell.
type RawCell struct {
	Kind CellKind
	Str  string
	Num  float64
	Bool bool
}

// AbsentCell is an empty cell.
var AbsentCell = RawCell{}

// TextCell returns a text cell. The text is stored as-is.
func TextCell(s string) RawCell { return RawCell{Kind: CellText, Str: s} }

// NumberCell returns a numeric cell.
func NumberCell(f float64) RawCell { return RawCell{Kind: CellNumber, Num: f} }

// BoolCell returns a boolean cell.
func BoolCell(b bool) RawCell { return RawCell{Kind: CellBool, Bool: b} }

// IsAbsent reports whether the cell holds no value at all.
func (c RawCell) IsAbsent() bool { return c.Kind == CellAbsent }

// IsEmpty reports whether the cell is absent or holds only whitespace.
func (c RawCell) IsEmpty() bool {
	switch c.Kind {
	case CellAbsent:
		return true
	case CellText:
		return strings.TrimSpace(c.Str) == ""
	default:
		return false
	}
}

// Text coerces the cell to text. Numbers use their shortest representation,
// booleans render as TRUE/FALSE and absent cells as "".
func (c RawCell) Text() string {
	switch c.Kind {
	case CellText:
		return c.Str
	case CellNumber:
		return FormatNumber(c.Num)
	case CellBool:
		if c.Bool {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// Number coerces the cell to a number. Text is accepted when it is
// numeric-looking (see ParseNumber); booleans and absent cells never are.
func (c RawCell) Number() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Num, true
	case CellText:
		return ParseNumber(c.Str)
	default:
		return 0, false
	}
}

// Equal compares two cells by kind and value. Text is compared after
// trimming and empty cells are all equal to each other.
func (c RawCell) Equal(o RawCell) bool {
	if c.IsEmpty() || o.IsEmpty() {
		return c.IsEmpty() && o.IsEmpty()
	}
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case CellText:
		return strings.TrimSpace(c.Str) == strings.TrimSpace(o.Str)
	case CellNumber:
		return c.Num == o.Num
	case CellBool:
		return c.Bool == o.Bool
	}
	return true
}

// key returns a string that is equal for two cells exactly when Equal is true.
func (c RawCell) key() string {
	if c.IsEmpty() {
		return "-"
	}
	switch c.Kind {
	case CellText:
		return "t" + strings.TrimSpace(c.Str)
	case CellNumber:
		if c.Num == 0 {
			return "n0"
		}
		return "n" + FormatNumber(c.Num)
	default:
		return "b" + c.Text()
	}
}

// MarshalJSON renders the cell as the matching JSON scalar, or null.
func (c RawCell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellText:
		return json.Marshal(c.Str)
	case CellNumber:
		return json.Marshal(c.Num)
	case CellBool:
		return json.Marshal(c.Bool)
	default:
		return []byte("null"), nil
	}
}

// cellAt returns the cell at index i, or an absent cell when the row is short.
func cellAt(row []RawCell, i int) RawCell {
	if i < 0 || i >= len(row) {
		return AbsentCell
	}
	return row[i]
}

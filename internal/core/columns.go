package core

import (
	"fmt"
	"strings"
)

// Field identifies a semantic column of a price list.
type Field string

const (
	FieldItemCode Field = "itemCode"
	FieldItemName Field = "itemName"
	FieldPrice    Field = "price"
	FieldDiscount Field = "discount"
	FieldStock    Field = "stock"
)

// ColumnRule lists the header substrings that identify a field, highest
// priority first. Matching is case-insensitive.
type ColumnRule struct {
	Field      Field
	Candidates []string
}

// ColumnRules is the header recognition table. A single column may satisfy
// more than one rule ("Item Code Name" resolves both code and name).
var ColumnRules = []ColumnRule{
	{Field: FieldItemCode, Candidates: []string{"item code", "itemcode", "code"}},
	{Field: FieldItemName, Candidates: []string{"item name", "itemname", "name", "product"}},
	{Field: FieldPrice, Candidates: []string{"price", "cost"}},
	{Field: FieldDiscount, Candidates: []string{"discount", "base discount"}},
	{Field: FieldStock, Candidates: []string{"stock"}},
}

// RequiredFields must all resolve for a row to produce a record.
var RequiredFields = []Field{FieldItemCode, FieldItemName, FieldPrice, FieldDiscount}

// ColumnMapping maps fields to zero-based column indexes. It is immutable once
// returned by ResolveColumns.
type ColumnMapping struct {
	index map[Field]int
}

// Index returns the column index for a field.
func (m ColumnMapping) Index(f Field) (int, bool) {
	i, ok := m.index[f]
	return i, ok
}

// Resolved returns a copy of the field to index map.
func (m ColumnMapping) Resolved() map[Field]int {
	out := make(map[Field]int, len(m.index))
	for f, i := range m.index {
		out[f] = i
	}
	return out
}

// Missing lists required fields that did not resolve, in RequiredFields order.
func (m ColumnMapping) Missing() []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if _, ok := m.index[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// NormalizeHeaders coerces a header row to trimmed text. Blank headers are
// named Column_<n> using their 1-based position.
func NormalizeHeaders(row []RawCell) []string {
	headers := make([]string, len(row))
	for i, c := range row {
		h := strings.TrimSpace(c.Text())
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}
	return headers
}

// ResolveColumns maps headers to fields using ColumnRules.
func ResolveColumns(headers []string) ColumnMapping {
	return ResolveColumnsWith(headers, ColumnRules)
}

// ResolveColumnsWith maps headers to fields using the given rules. For each
// rule, headers are scanned in column order and the first one containing any
// of the rule's candidates wins.
func ResolveColumnsWith(headers []string, rules []ColumnRule) ColumnMapping {
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	m := ColumnMapping{index: make(map[Field]int, len(rules))}
	for _, rule := range rules {
		if _, done := m.index[rule.Field]; done {
			continue
		}
	headers:
		for i, h := range lower {
			for _, cand := range rule.Candidates {
				if strings.Contains(h, cand) {
					m.index[rule.Field] = i
					break headers
				}
			}
		}
	}
	return m
}

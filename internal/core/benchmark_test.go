package core

import (
	"fmt"
	"testing"
)

// ============================================================================
// Conversion Benchmarks
// ============================================================================

// BenchmarkToPgNumeric benchmarks numeric string conversion.
// Every price and discount cell that arrives as text goes through it.
func BenchmarkToPgNumeric(b *testing.B) {
	testCases := []string{
		"123",
		"-456.78",
		"$1,234.56",
		"(123.45)",      // Accounting negative
		"1,234,567.89",  // Thousands separators
		"  999.99  ",    // Whitespace
		"\u20ac1234.56", // Euro
		"1.5E+3",        // Exponent
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ToPgNumeric(tc)
		}
	}
}

// BenchmarkToPgNumeric_Simple benchmarks the most common case: plain integers.
func BenchmarkToPgNumeric_Simple(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ToPgNumeric("12345")
	}
}

func BenchmarkCleanCell(b *testing.B) {
	testCases := []string{"ABC-123", `="00042"`, `"quoted"`, "  padded  "}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			CleanCell(tc)
		}
	}
}

func BenchmarkToPgNumericParallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			ToPgNumeric("$1,234.56")
		}
	})
}

// ============================================================================
// Pipeline Benchmarks
// ============================================================================

func BenchmarkResolveColumns(b *testing.B) {
	headers := []string{"SKU", "Item Code", "Description", "Item Name", "List Price", "Base Discount %", "Qty in Stock"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ResolveColumns(headers)
	}
}

func BenchmarkRowValidator(b *testing.B) {
	mapping := ResolveColumns([]string{"Item Code", "Item Name", "Price", "Discount", "Stock"})
	v := NewRowValidator(mapping, SourceFromFileName("north.xlsx"))
	row := []RawCell{TextCell("A1"), TextCell("Widget"), TextCell("$1,299.00"), NumberCell(15), NumberCell(40)}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.ValidateRow(row)
	}
}

func BenchmarkProcessSheet(b *testing.B) {
	for _, n := range []int{100, 10000} {
		rows := generateSheet(n)
		source := SourceFromFileName("bench.xlsx")
		b.Run(fmt.Sprintf("rows=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := ProcessSheet(rows, source); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSearchRecords(b *testing.B) {
	var records []WarehouseRecord
	for w := 0; w < 5; w++ {
		res, err := ProcessSheet(generateSheet(2000), SourceFromFileName(fmt.Sprintf("wh%d.xlsx", w)))
		if err != nil {
			b.Fatal(err)
		}
		records = append(records, res.Dataset.Records...)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SearchRecords(records, "item 1")
	}
}

func generateSheet(rows int) [][]RawCell {
	out := make([][]RawCell, 0, rows+1)
	out = append(out, []RawCell{TextCell("Item Code"), TextCell("Item Name"), TextCell("Price"), TextCell("Discount"), TextCell("Stock")})
	for i := 0; i < rows; i++ {
		out = append(out, []RawCell{
			TextCell(fmt.Sprintf("SKU%05d", i)),
			TextCell(fmt.Sprintf("Item %d", i)),
			NumberCell(float64(i%500) + 0.99),
			NumberCell(float64(i % 40)),
			NumberCell(float64(i % 100)),
		})
	}
	return out
}

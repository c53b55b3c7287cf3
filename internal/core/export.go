package core

// ExportHeader names the columns produced by Dataset.ExportRows. The layout
// re-imports cleanly: every header resolves to the field it came from.
var ExportHeader = []string{"Item Code", "Item Name", "Price", "Discount", "Final Price", "Stock", "Warehouse"}

// ExportRows renders records as rows aligned with ExportHeader. A missing
// stock level is nil.
func (d Dataset) ExportRows() [][]any {
	rows := make([][]any, len(d.Records))
	for i, r := range d.Records {
		var stock any
		if r.Stock != nil {
			stock = *r.Stock
		}
		rows[i] = []any{r.ItemCode, r.ItemName, r.Price, r.BaseDiscount, r.FinalPrice, stock, r.WarehouseName}
	}
	return rows
}

// TemplateHeader is the header row of the downloadable sample file.
var TemplateHeader = []string{"Item Code", "Item Name", "Price", "Discount", "Stock"}

// TemplateRows are sample rows for the downloadable template.
var TemplateRows = [][]any{
	{"SKU001", "Sample Product 1", 29.99, 10, 100},
	{"SKU002", "Sample Product 2", 49.99, 15, 50},
	{"SKU003", "Sample Product 3", 19.99, 5, 200},
}

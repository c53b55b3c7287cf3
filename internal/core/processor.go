package core

// SheetResult is everything produced by one pass over a sheet.
type SheetResult struct {
	Headers []string
	Mapping ColumnMapping
	Dataset Dataset
	Stats   ProcessingStats
	Errors  []ValidationError
}

// ProcessSheet validates every data row of a sheet. The first row is the
// header. Row numbers in errors are 1-based sheet rows, so the first data row
// is row 2.
//
// A row whose first cell repeats the first cell of an earlier accepted row is
// reported as a duplicate and left out of the dataset. Rejected rows never
// take part in duplicate detection.
//
// Returns ErrEmptySheet when the sheet has no rows at all. A header-only sheet
// is valid and yields an empty dataset.
func ProcessSheet(rows [][]RawCell, source WarehouseSource) (*SheetResult, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	headers := NormalizeHeaders(rows[0])
	mapping := ResolveColumns(headers)
	validator := NewRowValidator(mapping, source)

	data := rows[1:]
	res := &SheetResult{
		Headers: headers,
		Mapping: mapping,
		Dataset: Dataset{FileName: source.FileName, Records: make([]WarehouseRecord, 0, len(data))},
		Stats:   ProcessingStats{TotalRows: len(data)},
	}

	seen := make(map[string]struct{})
	for i, row := range data {
		rowNum := i + 2
		out := validator.ValidateRow(row)
		if !out.HasData {
			continue
		}
		if out.Reason != "" {
			res.Errors = append(res.Errors, ValidationError{RowNumber: rowNum, Message: out.Reason})
			continue
		}

		key := cellAt(row, 0).key()
		if _, dup := seen[key]; dup {
			res.Errors = append(res.Errors, ValidationError{RowNumber: rowNum, Message: MsgDuplicate})
			res.Stats.DuplicateRows++
			continue
		}
		seen[key] = struct{}{}
		res.Dataset.Records = append(res.Dataset.Records, out.Record)
	}

	res.Stats.ValidRows = len(res.Dataset.Records)
	res.Stats.ErrorRows = len(res.Errors)
	return res, nil
}

// Package core provides the ingestion, validation, aggregation and search
// engine for warehouse price lists.
//
// This package contains all domain logic independent of any UI or transport
// layer. It can be used by the HTTP server, the CLI, or tests without
// modification.
//
// # Architecture
//
// Data flows one way:
//
//	raw sheet -> SheetProcessor -> Dataset -> WarehouseRepository -> merged index -> ProductSearchEngine
//
//   - Cells: [RawCell] is a tagged variant (text, number, boolean, absent) with
//     pure coercion rules.
//   - Columns: [ResolveColumns] maps a header row to semantic fields using the
//     ordered [ColumnRules] table.
//   - Rows: [RowValidator] turns one raw row into a [WarehouseRecord] or a
//     rejection reason.
//   - Sheets: [ProcessSheet] drives a sheet end to end and returns the dataset,
//     [ProcessingStats] and the [ValidationError] log.
//   - Repository: [WarehouseRepository] holds one dataset per warehouse name and
//     derives the merged index.
//   - Search: [ProductSearchEngine] groups the merged index by product identity.
//   - Service: [Service] serializes uploads, decodes files through a
//     [WorkbookDecoder] and keeps an in-memory upload history.
//
// # Error Handling
//
// Row-level problems are returned as data ([]ValidationError) and never abort
// a file. Only fatal-to-file conditions (unreadable container, empty sheet,
// unsupported format) are returned as Go errors, and those leave the
// repository untouched. Technical errors are mapped to user-friendly messages
// using [MapError].
package core

package core

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	sheetExtRegex   = regexp.MustCompile(`(?i)\.(xlsx|xls|csv)$`)
	separatorRegex  = regexp.MustCompile(`[_-]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// WarehouseSource identifies the warehouse a file describes.
type WarehouseSource struct {
	FileName string
	Name     string
	ID       string
}

// SourceFromFileName derives the warehouse identity from an uploaded file name.
func SourceFromFileName(fileName string) WarehouseSource {
	base := filepath.Base(strings.ReplaceAll(fileName, `\`, "/"))
	name := WarehouseNameFromFile(base)
	return WarehouseSource{FileName: base, Name: name, ID: WarehouseID(name)}
}

// WarehouseNameFromFile strips a spreadsheet extension and turns underscores
// and hyphens into spaces: "north_wh.xlsx" becomes "north wh".
func WarehouseNameFromFile(fileName string) string {
	name := sheetExtRegex.ReplaceAllString(fileName, "")
	return separatorRegex.ReplaceAllString(name, " ")
}

// WarehouseID lower-cases a warehouse name and joins whitespace runs with "-".
func WarehouseID(name string) string {
	return whitespaceRegex.ReplaceAllString(strings.ToLower(name), "-")
}

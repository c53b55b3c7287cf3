package core

import (
	"errors"
	"fmt"
)

// Fatal-to-file errors. Any of these leaves the repository unchanged.
var (
	ErrNoFile             = errors.New("no file provided")
	ErrFileTooLarge       = errors.New("file too large")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrUnreadableFile     = errors.New("unreadable or corrupt file")
	ErrNoSheets           = errors.New("workbook has no sheets")
	ErrSheetNotFound      = errors.New("sheet not found")
	ErrEmptySheet         = errors.New("sheet is empty")
	ErrWarehouseNotFound  = errors.New("warehouse not found")
	ErrUploadNotFound     = errors.New("upload not found")
	ErrInvalidSearchQuery = errors.New("invalid search query")
)

// DecodeError reports a failure to decode a specific file.
type DecodeError struct {
	FileName string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.FileName, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

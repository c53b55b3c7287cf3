// Package sheet decodes spreadsheet files into core.Workbook values and
// writes datasets back out as spreadsheets.
//
// Decoders are registered by file extension. The package registers xlsx,
// xlsm, xls and csv decoders at init; Decode picks one from the file name.
package sheet

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/JonMunkholm/pricecompare/internal/core"
)

// Decoder turns the bytes of one file into sheets of raw cells.
type Decoder interface {
	Decode(data []byte) (*core.Workbook, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(data []byte) (*core.Workbook, error)

func (f DecoderFunc) Decode(data []byte) (*core.Workbook, error) { return f(data) }

var (
	registry   = make(map[string]Decoder)
	registryMu sync.RWMutex
)

func init() {
	Register(".xlsx", XLSXDecoder{})
	Register(".xlsm", XLSXDecoder{})
	Register(".csv", CSVDecoder{})
	Register(".xls", DecoderFunc(func([]byte) (*core.Workbook, error) {
		return nil, fmt.Errorf("%w: legacy .xls workbooks must be saved as .xlsx", core.ErrUnsupportedFormat)
	}))
}

// Register adds a decoder for ext (".xlsx"). Panics if ext is already taken.
func Register(ext string, d Decoder) {
	registryMu.Lock()
	defer registryMu.Unlock()

	ext = normalizeExt(ext)
	if _, exists := registry[ext]; exists {
		panic(fmt.Sprintf("decoder already registered: %s", ext))
	}
	registry[ext] = d
}

// Lookup returns the decoder for ext.
func Lookup(ext string) (Decoder, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	d, ok := registry[normalizeExt(ext)]
	return d, ok
}

// Extensions returns every registered extension, sorted.
func Extensions() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Workbooks dispatches to the registered decoder for a file's extension. It
// implements core.WorkbookDecoder.
type Workbooks struct{}

// Decode decodes data using the decoder registered for fileName's extension.
func (Workbooks) Decode(fileName string, data []byte) (*core.Workbook, error) {
	ext := filepath.Ext(fileName)
	d, ok := Lookup(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, ext)
	}
	return d.Decode(data)
}

package sheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/JonMunkholm/pricecompare/internal/core"
)

// CSVSheetName is the sheet name given to the single sheet of a CSV file.
const CSVSheetName = "Sheet1"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVDecoder reads comma or semicolon separated files. Every non-blank field
// becomes a text cell; numeric coercion happens during validation.
type CSVDecoder struct{}

// Decode reads the whole file as one sheet.
func (CSVDecoder) Decode(data []byte) (*core.Workbook, error) {
	r := csv.NewReader(WrapForStreaming(bytes.NewReader(data)))
	r.Comma = sniffDelimiter(data)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	var rows [][]core.RawCell
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: invalid csv: %v", core.ErrUnreadableFile, err)
		}
		row := make([]core.RawCell, len(rec))
		for i, v := range rec {
			if v == "" {
				row[i] = core.AbsentCell
				continue
			}
			row[i] = core.TextCell(v)
		}
		rows = append(rows, row)
	}

	return &core.Workbook{Sheets: []core.Sheet{{Name: CSVSheetName, Rows: rows}}}, nil
}

// WrapForStreaming prepares raw CSV input: invalid UTF-8 is replaced and a
// leading byte order mark is dropped.
func WrapForStreaming(r io.Reader) io.Reader {
	return NewBOMSkippingReader(NewUTF8Sanitizer(r))
}

// sniffDelimiter picks ';' when the first line has more semicolons than
// commas, which is how spreadsheet apps export CSV in comma-decimal locales.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

// BOMSkippingReader drops a leading UTF-8 byte order mark.
type BOMSkippingReader struct {
	r *bufio.Reader
}

// NewBOMSkippingReader wraps r.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return &BOMSkippingReader{r: br}
}

func (b *BOMSkippingReader) Read(p []byte) (int, error) { return b.r.Read(p) }

// UTF8Sanitizer replaces invalid UTF-8 sequences with U+FFFD so files saved
// in a legacy code page still parse. Multi-byte runes split across reads are
// carried over to the next read.
type UTF8Sanitizer struct {
	r       io.Reader
	pending []byte
	out     []byte
	err     error
}

// NewUTF8Sanitizer wraps r.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{r: r}
}

func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	for len(s.out) == 0 {
		if s.err != nil {
			if len(s.pending) > 0 {
				s.out = bytes.ToValidUTF8(s.pending, []byte("�"))
				s.pending = nil
				continue
			}
			return 0, s.err
		}

		buf := make([]byte, 32*1024)
		n, err := s.r.Read(buf)
		s.err = err
		data := append(s.pending, buf[:n]...)

		// Hold back a trailing partial rune until more bytes arrive.
		cut := len(data)
		for i := len(data) - 1; i >= 0 && i >= len(data)-utf8.UTFMax; i-- {
			if utf8.RuneStart(data[i]) {
				if !utf8.FullRune(data[i:]) {
					cut = i
				}
				break
			}
		}
		s.pending = append([]byte(nil), data[cut:]...)
		s.out = bytes.ToValidUTF8(data[:cut], []byte("�"))
	}

	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

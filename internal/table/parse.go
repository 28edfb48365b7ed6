package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/Lllllllleong/csvsplitter/internal/apperr"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse reads a comma-delimited UTF-8 document. The first record is the
// header and every following record is a row; blank lines are skipped.
// Empty input, ragged rows, duplicate column names and invalid UTF-8 are
// all reported as input errors.
func Parse(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInput, "table.Parse", "failed to read upload", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if !utf8.Valid(data) {
		return nil, apperr.Inputf("table.Parse", "file is not valid UTF-8 (at byte %d)", firstInvalidUTF8(data))
	}

	csvReader := csv.NewReader(bytes.NewReader(data))

	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperr.Inputf("table.Parse", "file is empty, no columns to parse")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInput, "table.Parse", "failed to read header", err)
	}

	var records [][]string
	for {
		rec, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) && errors.Is(pe.Err, csv.ErrFieldCount) {
				return nil, apperr.Inputf("table.Parse", "line %d has %d fields, expected %d", pe.StartLine, len(rec), len(header))
			}
			return nil, apperr.Wrap(apperr.KindInput, "table.Parse", fmt.Sprintf("malformed record after row %d", len(records)), err)
		}
		records = append(records, rec)
	}

	return FromStrings(header, records)
}

func firstInvalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

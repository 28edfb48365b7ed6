package table

import (
	"bytes"
	"encoding/csv"
	"io"
	"unicode/utf8"

	"github.com/Lllllllleong/csvsplitter/internal/apperr"
)

// WriteCSV writes the header followed by rows. Fields are quoted only when
// they contain a comma, quote or line break. A record consisting of a
// single empty field is written as "" so that it is not read back as a
// blank line.
func WriteCSV(w io.Writer, columns []string, rows []Row) error {
	if err := checkUTF8(columns, -1); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := writeRecord(w, cw, columns); err != nil {
		return apperr.Wrap(apperr.KindSerialization, "table.WriteCSV", "failed to write header", err)
	}
	for i, r := range rows {
		texts := r.Texts()
		if err := checkUTF8(texts, i); err != nil {
			return err
		}
		if err := writeRecord(w, cw, texts); err != nil {
			return apperr.Wrap(apperr.KindSerialization, "table.WriteCSV", "failed to write row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperr.Wrap(apperr.KindSerialization, "table.WriteCSV", "failed to flush", err)
	}
	return nil
}

// EncodeCSV is WriteCSV into a fresh buffer.
func EncodeCSV(columns []string, rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, columns, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRecord(w io.Writer, cw *csv.Writer, record []string) error {
	if len(record) == 1 && record[0] == "" {
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\"\"\n")
		return err
	}
	return cw.Write(record)
}

// row is -1 for the header.
func checkUTF8(fields []string, row int) error {
	for col, f := range fields {
		if utf8.ValidString(f) {
			continue
		}
		if row < 0 {
			return apperr.Serializationf("table.WriteCSV", "column name %d is not valid UTF-8", col+1)
		}
		return apperr.Serializationf("table.WriteCSV", "row %d column %d is not valid UTF-8", row+1, col+1)
	}
	return nil
}

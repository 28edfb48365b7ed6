// Package chunker partitions a dataset into consecutive fixed-size row ranges.
package chunker

import (
	"github.com/Lllllllleong/csvsplitter/internal/apperr"
	"github.com/Lllllllleong/csvsplitter/internal/table"
)

// DefaultSize is the number of data rows per chunk when nothing else is configured.
const DefaultSize = 10

// Chunk is a contiguous row range [Start, End) of a dataset. Index is 1-based.
type Chunk struct {
	Index   int
	Start   int
	End     int
	Columns []string
	Rows    []table.Row
}

func (c Chunk) Len() int { return c.End - c.Start }

// CheckSize reports a configuration error for a non-positive chunk size.
func CheckSize(size int) error {
	if size <= 0 {
		return apperr.Configf("chunker", "chunk size must be a positive integer, got %d", size)
	}
	return nil
}

// Count returns how many chunks rows split into. Zero rows give zero chunks.
func Count(rows, size int) (int, error) {
	if err := CheckSize(size); err != nil {
		return 0, err
	}
	if rows <= 0 {
		return 0, nil
	}
	return (rows + size - 1) / size, nil
}

// Split returns the chunks of ds in row order. Every chunk but the last holds
// exactly size rows; the last holds the remainder.
func Split(ds *table.Dataset, size int) ([]Chunk, error) {
	if err := CheckSize(size); err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, apperr.Inputf("chunker", "no dataset to split")
	}

	total := ds.NumRows()
	n, err := Count(total, size)
	if err != nil {
		return nil, err
	}

	columns := ds.Columns()
	chunks := make([]Chunk, 0, n)
	for i := 0; i < n; i++ {
		start := i * size
		end := min(start+size, total)
		chunks = append(chunks, Chunk{
			Index:   i + 1,
			Start:   start,
			End:     end,
			Columns: columns,
			Rows:    ds.Rows(start, end),
		})
	}
	return chunks, nil
}

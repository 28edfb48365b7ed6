// Package archive bundles chunks into a single in-memory zip archive, one
// CSV entry per chunk under a fixed folder.
package archive

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/Lllllllleong/csvsplitter/internal/apperr"
	"github.com/Lllllllleong/csvsplitter/internal/chunker"
	"github.com/Lllllllleong/csvsplitter/internal/table"
)

const (
	DefaultFolder = "split_files"
	DefaultName   = "split_csvs.zip"
	MIMEType      = "application/zip"
)

// Builder writes chunk archives. The zero value uses the default
// compression level and stamps entries with the build time.
type Builder struct {
	// Level is a flate level in [-2, 9]; 0 means flate.DefaultCompression.
	Level int
	// Modified is written as every entry's modification time when set.
	Modified time.Time
}

// Result is a finished archive.
type Result struct {
	Data    []byte
	Entries []string
}

// EntryPath is the path of chunk index inside the archive.
func EntryPath(folder, baseName string, index int) string {
	name := fmt.Sprintf("%s%d.csv", baseName, index)
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// Build writes chunks with the default Builder and returns the archive bytes.
func Build(chunks []chunker.Chunk, baseName, folderName string) ([]byte, error) {
	res, err := Builder{}.Build(chunks, baseName, folderName)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Build encodes every chunk as CSV and writes it under folderName in chunk
// order. Any failure discards the archive.
func (b Builder) Build(chunks []chunker.Chunk, baseName, folderName string) (*Result, error) {
	if err := validateName("base name", baseName, false); err != nil {
		return nil, err
	}
	if err := validateName("folder name", folderName, true); err != nil {
		return nil, err
	}
	level := b.Level
	if level == 0 {
		level = flate.DefaultCompression
	}
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return nil, apperr.Configf("archive", "compression level must be between %d and %d, got %d", flate.HuffmanOnly, flate.BestCompression, level)
	}
	modified := b.Modified
	if modified.IsZero() {
		modified = time.Now()
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})

	var entries []string
	for _, c := range chunks {
		content, err := table.EncodeCSV(c.Columns, c.Rows)
		if err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("chunk %d: %w", c.Index, err)
		}

		path := EntryPath(folderName, baseName, c.Index)
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     path,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("failed to create archive entry %s: %w", path, err)
		}
		if _, err := w.Write(content); err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("failed to write archive entry %s: %w", path, err)
		}
		entries = append(entries, path)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return &Result{Data: buf.Bytes(), Entries: entries}, nil
}

func validateName(what, name string, allowEmpty bool) error {
	if name == "" && !allowEmpty {
		return apperr.Configf("archive", "%s must not be empty", what)
	}
	if strings.ContainsAny(name, `/\`) {
		return apperr.Configf("archive", "%s %q must not contain a path separator", what, name)
	}
	if name == "." || name == ".." {
		return apperr.Configf("archive", "%s %q is not a valid path element", what, name)
	}
	return nil
}

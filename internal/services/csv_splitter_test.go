package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/csvsplitter/internal/apperr"
	"github.com/Lllllllleong/csvsplitter/internal/config"
	"github.com/Lllllllleong/csvsplitter/internal/models"
)

func newTestSplitter(t *testing.T) *CSVSplitterFunction {
	t.Helper()
	f, err := NewCSVSplitterWithConfig(config.Default())
	require.NoError(t, err)
	f.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return f
}

func csvWithRows(n int) []byte {
	var sb strings.Builder
	sb.WriteString("id,city,amount\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "%d,\"Springfield, IL\",%d.25\n", i, i*10)
	}
	return []byte(sb.String())
}

func unzip(t *testing.T, data []byte) ([]string, []string) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names, contents []string
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		names = append(names, f.Name)
		contents = append(contents, string(b))
	}
	return names, contents
}

func intPtr(i int) *int { return &i }

func TestProcessScenarios(t *testing.T) {
	tests := []struct {
		name       string
		rows       int
		wantChunks int
		wantNames  []string
	}{
		{
			name:       "25 rows",
			rows:       25,
			wantChunks: 3,
			wantNames:  []string{"split_files/x1.csv", "split_files/x2.csv", "split_files/x3.csv"},
		},
		{
			name:       "10 rows",
			rows:       10,
			wantChunks: 1,
			wantNames:  []string{"split_files/x1.csv"},
		},
		{
			name:       "header only",
			rows:       0,
			wantChunks: 0,
			wantNames:  nil,
		},
	}

	f := newTestSplitter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.Process(context.Background(), &models.SplitRequest{
				Filename: "x.csv",
				Data:     csvWithRows(tt.rows),
			})
			require.NoError(t, err)

			assert.Equal(t, "success", res.Status)
			assert.Equal(t, "split_csvs.zip", res.ArchiveName)
			assert.Equal(t, "x", res.Stem)
			assert.Equal(t, tt.rows, res.RowCount)
			assert.Equal(t, 3, res.ColumnCount)
			assert.Equal(t, tt.wantChunks, res.ChunkCount)

			names, _ := unzip(t, res.Archive)
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantNames, res.Entries)
		})
	}
}

func TestProcessChunkContents(t *testing.T) {
	f := newTestSplitter(t)
	res, err := f.Process(context.Background(), &models.SplitRequest{
		Filename:  "sales.csv",
		Data:      csvWithRows(5),
		ChunkSize: intPtr(2),
	})
	require.NoError(t, err)

	names, contents := unzip(t, res.Archive)
	assert.Equal(t, []string{"split_files/sales1.csv", "split_files/sales2.csv", "split_files/sales3.csv"}, names)
	assert.Equal(t, "id,city,amount\n1,\"Springfield, IL\",10.25\n2,\"Springfield, IL\",20.25\n", contents[0])
	assert.Equal(t, "id,city,amount\n5,\"Springfield, IL\",50.25\n", contents[2])
}

func TestProcessIsIdempotent(t *testing.T) {
	f := newTestSplitter(t)
	req := &models.SplitRequest{Filename: "x.csv", Data: csvWithRows(42)}

	first, err := f.Process(context.Background(), req)
	require.NoError(t, err)
	second, err := f.Process(context.Background(), req)
	require.NoError(t, err)

	n1, c1 := unzip(t, first.Archive)
	n2, c2 := unzip(t, second.Archive)
	assert.Equal(t, n1, n2)
	assert.Equal(t, c1, c2)
	assert.Equal(t, first.Archive, second.Archive)
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name     string
		req      *models.SplitRequest
		wantKind apperr.Kind
	}{
		{
			name:     "zero chunk size",
			req:      &models.SplitRequest{Filename: "x.csv", Data: csvWithRows(3), ChunkSize: intPtr(0)},
			wantKind: apperr.KindConfig,
		},
		{
			name:     "negative chunk size with bad data",
			req:      &models.SplitRequest{Filename: "x.csv", Data: []byte("a,b\n1\n"), ChunkSize: intPtr(-1)},
			wantKind: apperr.KindConfig,
		},
		{
			name:     "empty file",
			req:      &models.SplitRequest{Filename: "x.csv", Data: nil},
			wantKind: apperr.KindInput,
		},
		{
			name:     "ragged rows",
			req:      &models.SplitRequest{Filename: "x.csv", Data: []byte("a,b\n1,2\n3,4,5\n")},
			wantKind: apperr.KindInput,
		},
		{
			name:     "no usable filename",
			req:      &models.SplitRequest{Filename: "", Data: csvWithRows(1)},
			wantKind: apperr.KindInput,
		},
	}

	f := newTestSplitter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.Process(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
		})
	}
}

func TestProcessCancelledContext(t *testing.T) {
	f := newTestSplitter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Process(ctx, &models.SplitRequest{Filename: "x.csv", Data: csvWithRows(3)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewCSVSplitterWithConfigRejectsInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.ChunkSize = 0
	_, err := NewCSVSplitterWithConfig(cfg)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConfig, apperr.KindOf(err))
}

func TestSettings(t *testing.T) {
	f := newTestSplitter(t)
	s := f.Settings()
	assert.Equal(t, 10, s.ChunkSize)
	assert.Equal(t, "split_files", s.ArchiveFolder)
	assert.Equal(t, "split_csvs.zip", s.ArchiveName)
}

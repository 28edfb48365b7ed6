package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lllllllleong/csvsplitter/internal/apperr"
	"github.com/Lllllllleong/csvsplitter/internal/archive"
	"github.com/Lllllllleong/csvsplitter/internal/chunker"
	"github.com/Lllllllleong/csvsplitter/internal/config"
	"github.com/Lllllllleong/csvsplitter/internal/models"
	"github.com/Lllllllleong/csvsplitter/internal/table"
)

// CSVSplitterFunction holds the configuration for the split pipeline. It has
// no mutable state, so one instance serves concurrent requests.
type CSVSplitterFunction struct {
	config config.Config
	now    func() time.Time
}

// NewCSVSplitter creates a CSVSplitterFunction from the environment.
func NewCSVSplitter(ctx context.Context, envFile string) (*CSVSplitterFunction, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	f, err := NewCSVSplitterWithConfig(*cfg)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "CSV splitter initialized.", "config", cfg.String())
	return f, nil
}

// NewCSVSplitterWithConfig creates a CSVSplitterFunction from explicit settings.
func NewCSVSplitterWithConfig(cfg config.Config) (*CSVSplitterFunction, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &CSVSplitterFunction{config: cfg, now: time.Now}, nil
}

func (f *CSVSplitterFunction) Config() config.Config { return f.config }

// Settings is the client-facing view of the configuration.
func (f *CSVSplitterFunction) Settings() models.SplitSettings {
	return models.SplitSettings{
		ChunkSize:      f.config.ChunkSize,
		ArchiveFolder:  f.config.ArchiveFolder,
		ArchiveName:    f.config.ArchiveName,
		MaxUploadBytes: f.config.MaxUploadBytes,
	}
}

// Process parses the uploaded CSV, splits it into chunks and zips them.
func (f *CSVSplitterFunction) Process(ctx context.Context, req *models.SplitRequest) (*models.SplitResponse, error) {
	logCtx := slog.With("requestId", req.RequestID, "filename", req.Filename)

	chunkSize, err := f.resolveChunkSize(req.ChunkSize)
	if err != nil {
		logCtx.Warn("Rejected chunk size.", "error", err)
		return nil, err
	}
	logCtx = logCtx.With("chunkSize", chunkSize)

	stem, err := archive.Stem(req.Filename)
	if err != nil {
		logCtx.Warn("Could not derive a base name from the upload.", "error", err)
		return nil, err
	}

	ds, err := table.Parse(bytes.NewReader(req.Data))
	if err != nil {
		logCtx.Warn("Failed to parse CSV upload.", "error", err)
		return nil, err
	}
	logCtx.Info("Parsed CSV upload.", "rows", ds.NumRows(), "columns", ds.NumColumns())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chunks, err := chunker.Split(ds, chunkSize)
	if err != nil {
		logCtx.Error("Failed to split dataset.", "error", err)
		return nil, err
	}
	if len(chunks) == 0 {
		logCtx.Warn("CSV has a header but no data rows; the archive will be empty.")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	builder := archive.Builder{Level: f.config.CompressionLevel, Modified: f.now()}
	res, err := builder.Build(chunks, stem, f.config.ArchiveFolder)
	if err != nil {
		logCtx.Error("Failed to build archive.", "error", err, "kind", apperr.KindOf(err).String())
		return nil, err
	}
	logCtx.Info("Archive built.", "chunkCount", len(chunks), "archiveBytes", len(res.Data))

	return &models.SplitResponse{
		Status:      "success",
		ArchiveName: f.config.ArchiveName,
		Archive:     res.Data,
		Stem:        stem,
		ChunkSize:   chunkSize,
		RowCount:    ds.NumRows(),
		ColumnCount: ds.NumColumns(),
		ChunkCount:  len(chunks),
		Entries:     res.Entries,
	}, nil
}

func (f *CSVSplitterFunction) resolveChunkSize(override *int) (int, error) {
	if override == nil {
		return f.config.ChunkSize, nil
	}
	if *override <= 0 {
		return 0, apperr.Configf("services", "chunk size must be a positive integer, got %d", *override)
	}
	return *override, nil
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/Lllllllleong/csvsplitter/internal/chunker"
	"github.com/Lllllllleong/csvsplitter/internal/config"
	"github.com/Lllllllleong/csvsplitter/internal/models"
	"github.com/Lllllllleong/csvsplitter/internal/services"
	"github.com/Lllllllleong/csvsplitter/internal/table"
)

func splitAction(ctx context.Context, cmd *cli.Command) error {
	input := cmd.String("input")
	if input == "" {
		input = cmd.Args().First()
	}
	if input == "" {
		return fmt.Errorf("no input file given; pass --input or a file argument")
	}

	cfg, err := config.Load(cmd.String("env"))
	if err != nil {
		return err
	}
	if cmd.IsSet("folder") {
		cfg.ArchiveFolder = cmd.String("folder")
	}

	req := &models.SplitRequest{
		RequestID: uuid.NewString(),
		Filename:  filepath.Base(input),
	}
	if cmd.IsSet("chunk-size") {
		n := int(cmd.Int("chunk-size"))
		req.ChunkSize = &n
	}

	req.Data, err = os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	if cmd.Bool("dry-run") {
		return printPlan(out, req, cfg.ChunkSize)
	}

	splitter, err := services.NewCSVSplitterWithConfig(*cfg)
	if err != nil {
		return err
	}
	res, err := splitter.Process(ctx, req)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		output = res.ArchiveName
	}
	if err := os.WriteFile(output, res.Archive, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Fprintf(out, "The CSV will be split into %d file(s).\n", res.ChunkCount)
	for _, name := range res.Entries {
		fmt.Fprintf(out, "  %s\n", name)
	}
	fmt.Fprintf(out, "Wrote %s (%d bytes).\n", output, len(res.Archive))
	return nil
}

func printPlan(out io.Writer, req *models.SplitRequest, defaultSize int) error {
	size := defaultSize
	if req.ChunkSize != nil {
		size = *req.ChunkSize
	}
	if err := chunker.CheckSize(size); err != nil {
		return err
	}
	ds, err := table.Parse(bytes.NewReader(req.Data))
	if err != nil {
		return err
	}
	n, err := chunker.Count(ds.NumRows(), size)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %d row(s), %d column(s).\n", req.Filename, ds.NumRows(), ds.NumColumns())
	fmt.Fprintf(out, "The CSV will be split into %d file(s).\n", n)
	return nil
}

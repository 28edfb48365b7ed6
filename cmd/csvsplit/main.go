package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "csvsplit",
		Usage: "Split a CSV file into fixed-size chunks bundled in a zip archive",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log pipeline progress to stderr",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := slog.LevelWarn
			if cmd.Bool("verbose") {
				level = slog.LevelInfo
			}
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "split",
				Usage:     "Split a CSV file and write the archive",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "path to an environment file",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "CSV file to split (or pass it as the first argument)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "archive to write (defaults to ARCHIVE_NAME, split_csvs.zip)",
					},
					&cli.IntFlag{
						Name:    "chunk-size",
						Aliases: []string{"n"},
						Usage:   "data rows per chunk (defaults to CHUNK_SIZE, 10)",
					},
					&cli.StringFlag{
						Name:  "folder",
						Usage: "folder inside the archive (defaults to ARCHIVE_FOLDER, split_files)",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "only print how many files the CSV would be split into",
					},
				},
				Action: splitAction,
			},
		},
	}
}

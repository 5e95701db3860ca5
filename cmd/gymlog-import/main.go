package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/gymlog/internal/backup"
	"github.com/claude/gymlog/internal/config"
	"github.com/claude/gymlog/internal/ingest"
	"github.com/claude/gymlog/internal/ingest/alpha"
	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/tracker"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	exportPath := flag.String("export", "", "write a backup document to this file")
	importPath := flag.String("import", "", "restore a backup document from this file, replacing all data")
	loadExample := flag.Bool("example", false, "import the example program")
	alphaPath := flag.String("alpha", "", "merge an Alpha Progression CSV export into history")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *exportPath == "" && *importPath == "" && *alphaPath == "" && !*loadExample {
		fmt.Fprintf(os.Stderr, "Usage: gymlog-import -config config.yaml [-import file] [-alpha file.csv] [-example] [-export file]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, *cfg)
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	tr, err := tracker.New(ctx, store, log)
	if err != nil {
		log.Error("failed to load state", "error", err)
		os.Exit(1)
	}

	// Import runs first so -import and -export together produce the
	// normalized form of the imported document.
	if *importPath != "" {
		if err := restore(ctx, tr, *importPath); err != nil {
			if !errors.Is(err, tracker.ErrFilesNotRestored) {
				log.Error("import failed", "path", *importPath, "error", err)
				os.Exit(1)
			}
			log.Warn("backup imported without files", "error", err)
		}
		log.Info("backup imported", "path", *importPath)
	}

	if *alphaPath != "" {
		res, err := ingestAlpha(ctx, tr, log, *alphaPath)
		if err != nil {
			log.Error("alpha import failed", "path", *alphaPath, "error", err)
			os.Exit(1)
		}
		log.Info("alpha export merged",
			"path", *alphaPath,
			"sessions", res.SessionsReceived,
			"inserted", res.SessionsInserted,
			"replaced", res.SessionsReplaced,
		)
	}

	if *loadExample {
		p, err := tr.ImportExample(ctx)
		if err != nil {
			log.Error("example import failed", "error", err)
			os.Exit(1)
		}
		log.Info("example program imported", "program", p.Name, "days", len(p.Days))
	}

	if *exportPath != "" {
		if err := export(ctx, tr, *exportPath); err != nil {
			log.Error("export failed", "path", *exportPath, "error", err)
			os.Exit(1)
		}
		st := tr.State()
		log.Info("backup exported",
			"path", *exportPath,
			"programs", len(st.Programs),
			"exercises", len(st.Exercises),
			"history", len(st.History),
		)
	}
}

func ingestAlpha(ctx context.Context, tr *tracker.Tracker, log *slog.Logger, path string) (*ingest.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()
	return alpha.NewProvider(tr, log).Ingest(ctx, f)
}

func restore(ctx context.Context, tr *tracker.Tracker, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}
	return tr.Restore(ctx, data)
}

func export(ctx context.Context, tr *tracker.Tracker, path string) error {
	b, err := tr.Export(ctx)
	if err != nil {
		return err
	}
	data, err := backup.Encode(b)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}

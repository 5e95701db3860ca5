package alpha

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/gymlog/internal/ingest"
	"github.com/claude/gymlog/internal/models"
)

// ErrInvalidExport is returned when the CSV cannot be parsed.
var ErrInvalidExport = errors.New("invalid alpha progression export")

// HistoryImporter merges entries into the history log and reports how many
// were new. *tracker.Tracker satisfies it.
type HistoryImporter interface {
	ImportHistory(ctx context.Context, entries []models.HistoryEntry) (int, error)
}

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	dst HistoryImporter
	log *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(dst HistoryImporter, log *slog.Logger) *Provider {
	return &Provider{dst: dst, log: log}
}

// Ingest parses a CSV export and merges its sessions into history.
// Sessions imported before are replaced so re-imports reflect the latest
// parser output.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}
	entries := ToHistory(sessions)

	result := &ingest.Result{SessionsReceived: len(entries)}
	for _, e := range entries {
		for _, ex := range e.Exercises {
			result.SetsReceived += len(ex.Sets)
		}
	}
	if len(entries) == 0 {
		result.Message = "no sessions found"
		return result, nil
	}

	added, err := p.dst.ImportHistory(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("importing sessions: %w", err)
	}
	result.SessionsInserted = added
	result.SessionsReplaced = len(entries) - added
	p.log.Info("alpha progression import",
		"sessions", result.SessionsReceived,
		"inserted", result.SessionsInserted,
		"replaced", result.SessionsReplaced,
		"sets", result.SetsReceived,
	)
	return result, nil
}

package storage

import (
	"context"
	"os"
	"testing"
)

// TestPostgresSaveLoad runs against a real database when GYMLOG_TEST_DSN is set.
func TestPostgresSaveLoad(t *testing.T) {
	dsn := os.Getenv("GYMLOG_TEST_DSN")
	if dsn == "" {
		t.Skip("GYMLOG_TEST_DSN not set")
	}
	ctx := context.Background()
	if err := RunMigrations(dsn); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	p, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	defer p.Close()

	if err := p.Save(ctx, sampleState()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	st, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(st.Programs) != 1 || len(st.History) != 1 || st.UI.DefaultProgramID != "p1" {
		t.Errorf("state = %+v", st)
	}
}

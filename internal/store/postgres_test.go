package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jobscout/jobscout/internal/posting"
)

// stubPool answers Exec with canned command tags, one per call.
type stubPool struct {
	tags  []pgconn.CommandTag
	calls int
}

func (s *stubPool) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	tag := s.tags[s.calls]
	s.calls++
	return tag, nil
}

func (s *stubPool) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("not used")
}

func (s *stubPool) Close() {}

func TestUpsertCountsAndLogsDuplicates(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	st := &Store{
		pool: &stubPool{tags: []pgconn.CommandTag{
			pgconn.NewCommandTag("INSERT 0 1"),
			pgconn.NewCommandTag("INSERT 0 0"),
		}},
		logger: zap.New(core),
	}

	postings := []posting.Posting{
		{Title: "Go Developer", Link: "https://example.com/jobs/1"},
		{Title: "Go Developer", Link: "https://example.com/jobs/1"},
	}

	inserted, skipped, err := st.Upsert(context.Background(), postings)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if inserted != 1 || skipped != 1 {
		t.Errorf("Upsert() = (%d inserted, %d skipped), want (1, 1)", inserted, skipped)
	}

	entries := logs.FilterMessage("skipping already stored posting").All()
	if len(entries) != 1 {
		t.Fatalf("got %d duplicate-skip log entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["link"]; got != "https://example.com/jobs/1" {
		t.Errorf("duplicate-skip log link = %v, want the posting link", got)
	}
}

func TestUpsertSkipsNonPersistable(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	st := &Store{
		pool:   &stubPool{},
		logger: zap.New(core),
	}

	inserted, skipped, err := st.Upsert(context.Background(), []posting.Posting{
		{Title: "No Link"},
		{Link: "https://example.com/jobs/2"},
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if inserted != 0 || skipped != 2 {
		t.Errorf("Upsert() = (%d inserted, %d skipped), want (0, 2)", inserted, skipped)
	}

	if got := logs.FilterMessage("skipping posting without required fields").Len(); got != 2 {
		t.Errorf("got %d required-fields log entries, want 2", got)
	}
}

package cmd

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jobscout/jobscout/internal/posting"
)

func testCollection() *posting.Postings {
	return posting.Collect([]posting.Posting{
		{Title: "Backend Engineer", Company: "Acme", Link: "https://example.com/1", TitleScore: 2},
		{Title: "Painter", Link: "https://example.com/2"},
	})
}

func TestHandleActionReportByCompany(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	err := handleAction(context.Background(), PromptReportByCompany, testCollection(), nil, nil, nil, zap.New(core))
	if err != nil {
		t.Fatalf("handleAction() error = %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if !strings.Contains(entries[0].Message, `"Acme"`) || !strings.Contains(entries[0].Message, `"unknown"`) {
		t.Errorf("report message missing company groups: %s", entries[0].Message)
	}
	if got := entries[0].ContextMap()["postings count"]; got != int64(2) {
		t.Errorf("postings count = %v, want 2", got)
	}
}

func TestHandleActionDumpToFile(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	err := handleAction(context.Background(), PromptDumpToFile, testCollection(), nil, nil, nil, zap.New(core))
	if err != nil {
		t.Fatalf("handleAction() error = %v", err)
	}

	entries := logs.FilterMessage("dumping result to file").All()
	if len(entries) != 1 {
		t.Fatalf("got %d dump log entries, want 1", len(entries))
	}

	filename, _ := entries[0].ContextMap()["filename"].(string)
	if filename == "" {
		t.Fatal("expected the dump filename in the log entry")
	}
	defer os.Remove(filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("reading dump file: %v", err)
	}
	if !strings.Contains(string(data), `"experience_ok": false`) {
		t.Errorf("dump file missing failed experience gate: %s", data)
	}
}

func TestHandleActionQuitAndUnknown(t *testing.T) {
	if err := handleAction(context.Background(), PromptQuit, testCollection(), nil, nil, nil, zap.NewNop()); !errors.Is(err, errExit) {
		t.Fatalf("quit: err = %v, want errExit", err)
	}
	if err := handleAction(context.Background(), "bogus", testCollection(), nil, nil, nil, zap.NewNop()); err == nil {
		t.Fatal("unknown action: expected an error")
	}
}

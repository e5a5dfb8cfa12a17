package posting

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCollectSharesBackingSlice(t *testing.T) {
	source := []Posting{
		{Title: "Backend Engineer", Link: "https://example.com/1"},
		{Title: "Data Engineer", Link: "https://example.com/2"},
	}

	collection := Collect(source)

	if collection.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", collection.Len())
	}

	collection.Items[1].Status = StatusApplied
	if source[1].Status != StatusApplied {
		t.Fatal("expected status change through the collection to reach the source slice")
	}
}

func TestSerializationKeepsZeroScores(t *testing.T) {
	data, err := json.Marshal(Posting{
		Title:        "Painter",
		Link:         "https://example.com/1",
		TitleScore:   0,
		SkillScore:   0,
		ExperienceOK: false,
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{`"title_score":0`, `"skill_score":0`, `"experience_ok":false`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected %s in %s", want, data)
		}
	}
}

func TestFindByLink(t *testing.T) {
	postings := &Postings{
		Items: []*Posting{
			{Title: "Backend Engineer", Link: "https://example.com/1"},
			{Title: "Data Engineer", Link: "https://example.com/2"},
		},
	}

	if got := postings.FindByLink("https://example.com/2"); got == nil || got.Title != "Data Engineer" {
		t.Fatalf("expected to find Data Engineer, got %+v", got)
	}
	if got := postings.FindByLink("https://example.com/3"); got != nil {
		t.Fatalf("expected nil for unknown link, got %+v", got)
	}
}

func TestPersistable(t *testing.T) {
	tests := []struct {
		name    string
		posting Posting
		expect  bool
	}{
		{
			name:    "full posting",
			posting: Posting{Title: "Engineer", Link: "https://example.com/1"},
			expect:  true,
		},
		{
			name:    "missing link",
			posting: Posting{Title: "Engineer"},
			expect:  false,
		},
		{
			name:    "missing title",
			posting: Posting{Link: "https://example.com/1"},
			expect:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.posting.Persistable(); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestReportByCompanyGroupsAndDefaults(t *testing.T) {
	postings := &Postings{
		Items: []*Posting{
			{Title: "Backend Engineer", Company: "Acme", TitleScore: 2, ExperienceOK: true},
			{Title: "Platform Engineer", Company: "Acme"},
			{Title: "Painter"},
		},
	}

	report := postings.ReportByCompany()

	if len(report["Acme"]) != 2 {
		t.Fatalf("expected 2 Acme entries, got %d", len(report["Acme"]))
	}
	if len(report["unknown"]) != 1 {
		t.Fatalf("expected 1 entry without company, got %d", len(report["unknown"]))
	}

	entry := report["Acme"][0]
	if entry["title_score"] != "2" {
		t.Fatalf("expected title_score 2, got %q", entry["title_score"])
	}
	if entry["experience_ok"] != "true" {
		t.Fatalf("expected experience_ok true, got %q", entry["experience_ok"])
	}
}

func TestLabelsFallBackToNA(t *testing.T) {
	postings := &Postings{
		Items: []*Posting{
			{Title: "Backend Engineer", Company: "Acme", Location: "Austin, TX"},
		},
	}

	labels := postings.Labels()
	if len(labels) != 1 {
		t.Fatalf("expected 1 label, got %d", len(labels))
	}
	if labels[0] != "1. Backend Engineer / Acme / Austin, TX / N/A" {
		t.Fatalf("unexpected label: %q", labels[0])
	}
}

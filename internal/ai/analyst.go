package ai

import (
	"context"

	"github.com/jobscout/jobscout/internal/posting"
)

const (
	// NoResultsMessage is returned by batch analysis when there is nothing to
	// analyze. It is informational, never an error.
	NoResultsMessage = "No job listings found. Try adjusting your search."
	// NoSelectionMessage is returned by single-posting analysis when no
	// posting was selected.
	NoSelectionMessage = "No job selected. Pick a posting first."
)

// Criteria carries the user's search intent into analysis prompts.
type Criteria struct {
	Title              string
	Location           string
	MaxExperienceYears int
	Skills             []string
}

// Analyst produces natural-language reports over postings. Implementations
// never mutate the postings they are given.
type Analyst interface {
	// AnalyzeBatch reports on the full ranked posting list. The feedback text
	// is opaque prompt context accumulated from earlier user corrections.
	AnalyzeBatch(ctx context.Context, postings []posting.Posting, criteria *Criteria, feedback string) (string, error)

	// AnalyzeSingle reports on one posting in detail. A nil posting yields
	// NoSelectionMessage.
	AnalyzeSingle(ctx context.Context, p *posting.Posting, skills []string) (string, error)

	// CompareResume compares resume text against a job description.
	CompareResume(ctx context.Context, resumeText, jobDescription string) (string, error)
}

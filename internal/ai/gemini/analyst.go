package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/ai"
	"github.com/jobscout/jobscout/internal/posting"
	"github.com/jobscout/jobscout/internal/utils"
)

//go:embed batch_prompt.md
var batchPromptTemplate string

//go:embed single_prompt.md
var singlePromptTemplate string

//go:embed resume_prompt.md
var resumePromptTemplate string

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Analyst implements ai.Analyst on top of a Gemini content generator.
type Analyst struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAnalyst(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Analyst {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyst{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

var _ ai.Analyst = (*Analyst)(nil)

func (a *Analyst) AnalyzeBatch(ctx context.Context, postings []posting.Posting, criteria *ai.Criteria, feedback string) (string, error) {
	if len(postings) == 0 {
		return ai.NoResultsMessage, nil
	}
	if criteria == nil {
		criteria = &ai.Criteria{}
	}

	postingsJSON, err := json.MarshalIndent(postings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal postings payload: %w", err)
	}

	feedbackSection := ""
	if strings.TrimSpace(feedback) != "" {
		feedbackSection = fmt.Sprintf("\nEarlier feedback from the candidate, honor it:\n%s\n", feedback)
	}

	prompt := replaceAll(batchPromptTemplate, map[string]string{
		"{{POSTINGS_JSON}}":    string(postingsJSON),
		"{{TITLE}}":            criteria.Title,
		"{{LOCATION}}":         criteria.Location,
		"{{EXPERIENCE_YEARS}}": strconv.Itoa(criteria.MaxExperienceYears),
		"{{SKILLS}}":           strings.Join(criteria.Skills, ", "),
		"{{FEEDBACK_SECTION}}": feedbackSection,
	})

	return a.generate(ctx, "batch", prompt)
}

func (a *Analyst) AnalyzeSingle(ctx context.Context, p *posting.Posting, skills []string) (string, error) {
	if p == nil {
		return ai.NoSelectionMessage, nil
	}

	prompt := replaceAll(singlePromptTemplate, map[string]string{
		"{{TITLE}}":       p.Title,
		"{{COMPANY}}":     p.Company,
		"{{LOCATION}}":    p.Location,
		"{{DESCRIPTION}}": p.Description,
		"{{SKILLS}}":      strings.Join(skills, ", "),
	})

	return a.generate(ctx, "single", prompt)
}

func (a *Analyst) CompareResume(ctx context.Context, resumeText, jobDescription string) (string, error) {
	prompt := replaceAll(resumePromptTemplate, map[string]string{
		"{{RESUME}}":          resumeText,
		"{{JOB_DESCRIPTION}}": jobDescription,
	})

	return a.generate(ctx, "resume", prompt)
}

func (a *Analyst) generate(ctx context.Context, kind, prompt string) (string, error) {
	a.logger.Debug("gemini generate content request",
		zap.String("analysis", kind),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	report, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%s analysis: %w", kind, err)
	}

	a.logger.Debug("gemini generate content response",
		zap.String("analysis", kind),
		zap.Int("response_length", utf8.RuneCountInString(report)),
		zap.String("response_preview", utils.TruncateForLog(report, a.maxLogLen)),
	)

	return report, nil
}

func replaceAll(template string, replacements map[string]string) string {
	for placeholder, value := range replacements {
		template = strings.ReplaceAll(template, placeholder, value)
	}
	return template
}

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/ai"
	"github.com/jobscout/jobscout/internal/extract"
	"github.com/jobscout/jobscout/internal/posting"
	"github.com/jobscout/jobscout/internal/ranking"
	"github.com/jobscout/jobscout/internal/render"
	"github.com/jobscout/jobscout/internal/store"
)

const (
	PromptAnalyzePosting  = "Analyze a posting"
	PromptMarkApplied     = "Mark a posting as applied"
	PromptReportByCompany = "Report by company"
	PromptDumpToFile      = "Dump postings to file"
	PromptQuit            = "Quit"
)

var errExit = errors.New("exit requested")

var searchActions = []string{PromptAnalyzePosting, PromptMarkApplied, PromptReportByCompany, PromptDumpToFile, PromptQuit}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Scrape job boards, rank the postings against your profile and analyze them",
	Run: func(cmd *cobra.Command, _ []string) {
		search(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("title", "t", "", "target job title (overrides search.title)")
	searchCmd.Flags().StringP("location", "l", "", "target location (overrides search.location)")
	searchCmd.Flags().StringSliceP("skills", "s", nil, "comma separated skills (overrides search.skills)")
	searchCmd.Flags().IntP("experience-years", "e", -1, "your years of experience (overrides search.experience-years)")
	searchCmd.Flags().IntP("pages", "p", 0, "result pages per job board (overrides search.pages)")
	searchCmd.Flags().Bool("no-analysis", false, "skip the LLM analysis step")
	searchCmd.Flags().Bool("no-interactive", false, "print results and exit without the action prompt")
}

// search is the main flow: extract, rank, persist, analyze, render, then an
// interactive action loop.
func search(cmd *cobra.Command) {
	ctx := context.Background()

	zlog := newLogger()

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	criteria := resolveCriteria(cmd, config)
	if criteria.Title == "" {
		zlog.Fatal("a target job title is required",
			zap.String("hint", "pass --title or set search.title in the config"),
		)
	}

	zlog.Info("starting the search",
		zap.String("title", criteria.Title),
		zap.String("location", criteria.Location),
		zap.Int("pages", config.Search.Pages),
	)

	client, err := newExtractClient(config, zlog)
	if err != nil {
		zlog.Fatal("building extraction client",
			zap.Error(err),
			zap.String("hint", "set FIRECRAWL_API_KEY_FILE or the 'extract.api-key-file' key in the configuration file"),
		)
	}
	client.OnChunk = render.ChunkProgress()

	raw, err := extractWithRetry(ctx, client, criteria, config.Search.Pages, zlog)
	if err != nil {
		// An extraction failure is surfaced, not crashed on.
		zlog.Error("extraction failed", zap.Error(err))
		render.Warning("Job extraction failed. Check your extraction API key and try again.")
		return
	}

	if len(raw) == 0 {
		render.Info(ai.NoResultsMessage)
		return
	}

	render.Info("Found %d postings.", len(raw))

	ranked := ranking.Rank(raw, criteria.Title, criteria.Skills, criteria.MaxExperienceYears)

	st, err := newStore(ctx, config, zlog)
	if err != nil {
		// Persistence is optional: keep going with transient results.
		zlog.Warn("posting store unavailable, results will not be persisted", zap.Error(err))
	}
	if st != nil {
		defer st.Close()

		inserted, skipped, err := st.Upsert(ctx, ranked)
		if err != nil {
			zlog.Warn("persisting postings", zap.Error(err))
		} else {
			zlog.Info("postings persisted", zap.Int("inserted", inserted), zap.Int("skipped", skipped))
		}
	}

	render.PostingsTable(ranked)

	var analyst ai.Analyst
	if noAnalysis, _ := cmd.Flags().GetBool("no-analysis"); !noAnalysis {
		analyst, err = newAnalyst(ctx, config, zlog)
		if err != nil {
			zlog.Warn("skipping analysis", zap.Error(err))
		}
	}

	if analyst != nil {
		feedbackText := loadFeedback(config, zlog)

		report, err := analyst.AnalyzeBatch(ctx, ranked, criteria, feedbackText)
		if err != nil {
			zlog.Error("batch analysis failed", zap.Error(err))
		} else {
			render.Report("Job Market Analysis", report)
		}
	}

	if noInteractive, _ := cmd.Flags().GetBool("no-interactive"); noInteractive {
		return
	}

	collection := posting.Collect(ranked)

	for {
		action, err := render.SelectAction("What next?", searchActions)
		if err != nil {
			zlog.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, collection, criteria, analyst, st, zlog); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			zlog.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, postings *posting.Postings, criteria *ai.Criteria, analyst ai.Analyst, st *store.Store, zlog *zap.Logger) error {
	switch action {
	case PromptAnalyzePosting:
		if analyst == nil {
			render.Warning("Analysis is not configured.")
			return nil
		}

		selected, err := render.SelectPosting(postings, "Pick a posting to analyze")
		if err != nil {
			return err
		}

		report, err := analyst.AnalyzeSingle(ctx, selected, criteria.Skills)
		if err != nil {
			zlog.Error("single posting analysis failed", zap.Error(err))
			return nil
		}

		render.Report(selected.Title+" at "+selected.Company, report)
		return nil
	case PromptMarkApplied:
		if st == nil {
			render.Warning("The posting store is not configured.")
			return nil
		}

		selected, err := render.SelectPosting(postings, "Pick the posting you applied to")
		if err != nil {
			return err
		}

		if err := st.SetStatus(ctx, selected.Link, posting.StatusApplied); err != nil {
			zlog.Warn("marking posting as applied", zap.Error(err))
			return nil
		}

		selected.Status = posting.StatusApplied

		render.Info("Marked as applied: %s at %s", selected.Title, selected.Company)
		return nil
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(postings.ReportByCompany(), "", "  ")
		zlog.Info(string(pretty), zap.Int("postings count", postings.Len()))
		return nil
	case PromptDumpToFile:
		filename, err := postings.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}

		zlog.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptQuit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// extractWithRetry runs the extraction once and, on an empty result, retries
// exactly once at half the page count before giving up.
func extractWithRetry(ctx context.Context, client *extract.Client, criteria *ai.Criteria, pages int, zlog *zap.Logger) ([]posting.Posting, error) {
	params := &extract.Params{
		Title:    criteria.Title,
		Location: criteria.Location,
		Skills:   criteria.Skills,
		Pages:    pages,
	}

	raw, err := client.Extract(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		return raw, nil
	}

	reduced := pages / 2
	if reduced < 1 {
		reduced = 1
	}

	zlog.Info("no postings extracted, retrying at reduced scope",
		zap.Int("pages", pages),
		zap.Int("retry_pages", reduced),
	)

	params.Pages = reduced
	return client.Extract(ctx, params)
}

func resolveCriteria(cmd *cobra.Command, config *Config) *ai.Criteria {
	criteria := &ai.Criteria{
		Title:              config.Search.Title,
		Location:           config.Search.Location,
		MaxExperienceYears: config.Search.ExperienceYears,
		Skills:             config.Search.Skills,
	}

	if title, _ := cmd.Flags().GetString("title"); title != "" {
		criteria.Title = title
	}
	if location, _ := cmd.Flags().GetString("location"); location != "" {
		criteria.Location = location
	}
	if skills, _ := cmd.Flags().GetStringSlice("skills"); len(skills) > 0 {
		criteria.Skills = skills
	}
	if years, _ := cmd.Flags().GetInt("experience-years"); years >= 0 {
		criteria.MaxExperienceYears = years
	}
	if pages, _ := cmd.Flags().GetInt("pages"); pages > 0 {
		config.Search.Pages = pages
	}

	return criteria
}

func loadFeedback(config *Config, zlog *zap.Logger) string {
	fb, err := newFeedbackStore(config)
	if err != nil {
		zlog.Warn("feedback store unavailable", zap.Error(err))
		return ""
	}

	text, err := fb.Load()
	if err != nil {
		zlog.Warn("loading feedback memory", zap.Error(err))
		return ""
	}

	return text
}

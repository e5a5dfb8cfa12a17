package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/posting"
	"github.com/jobscout/jobscout/internal/render"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a detailed analysis of one stored posting",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntP("limit", "n", render.DisplayLimit, "how many recent postings to offer")
	analyzeCmd.Flags().StringP("link", "l", "", "analyze the stored posting with this link instead of picking interactively")
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()

	zlog := newLogger()

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	st, err := newStore(ctx, config, zlog)
	if err != nil {
		zlog.Fatal("opening the posting store", zap.Error(err))
	}
	if st == nil {
		zlog.Fatal("the posting store is required",
			zap.String("hint", "set JOBSCOUT_DATABASE_URL or the 'store.database-url' key in the configuration file"),
		)
	}
	defer st.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	postings, err := st.LoadRecent(ctx, limit)
	if err != nil {
		zlog.Fatal("loading stored postings", zap.Error(err))
	}

	if len(postings) == 0 {
		render.Info("No stored postings. Run a job search first.")
		return
	}

	collection := posting.Collect(postings)

	var selected *posting.Posting
	if link, _ := cmd.Flags().GetString("link"); link != "" {
		selected = collection.FindByLink(link)
		if selected == nil {
			render.Warning("No stored posting with link %s.", link)
			return
		}
	} else {
		selected, err = render.SelectPosting(collection, "Pick a posting to analyze")
		if err != nil {
			zlog.Fatal("exiting", zap.Error(err))
		}
	}

	analyst, err := newAnalyst(ctx, config, zlog)
	if err != nil {
		zlog.Fatal("building the analyst", zap.Error(err))
	}

	var skills []string
	if config.Search != nil {
		skills = config.Search.Skills
	}

	report, err := analyst.AnalyzeSingle(ctx, selected, skills)
	if err != nil {
		zlog.Fatal("single posting analysis failed", zap.Error(err))
	}

	render.Report(selected.Title+" at "+selected.Company, report)
}

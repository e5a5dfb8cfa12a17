package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/posting"
	"github.com/jobscout/jobscout/internal/render"
	"github.com/jobscout/jobscout/internal/resume"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Compare your resume against a stored posting's description",
	Run: func(cmd *cobra.Command, _ []string) {
		optimize(cmd)
	},
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringP("resume", "r", "", "path to your resume (pdf, docx or txt)")
	optimizeCmd.Flags().IntP("limit", "n", render.DisplayLimit, "how many recent postings to offer")
	optimizeCmd.MarkFlagRequired("resume")
}

func optimize(cmd *cobra.Command) {
	ctx := context.Background()

	zlog := newLogger()

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	// The format check runs before any store or analysis call.
	resumePath, _ := cmd.Flags().GetString("resume")
	resumeText, err := resume.ExtractText(resumePath)
	if err != nil {
		zlog.Fatal("extracting resume text", zap.Error(err))
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

	selected, err := render.SelectPosting(posting.Collect(postings), "Pick the posting to optimize for")
	if err != nil {
		zlog.Fatal("exiting", zap.Error(err))
	}

	if selected.Description == "" {
		render.Warning("This posting has no description available for comparison.")
		return
	}

	analyst, err := newAnalyst(ctx, config, zlog)
	if err != nil {
		zlog.Fatal("building the analyst", zap.Error(err))
	}

	report, err := analyst.CompareResume(ctx, resumeText, selected.Description)
	if err != nil {
		zlog.Fatal("resume comparison failed", zap.Error(err))
	}

	render.Report("Resume Optimization: "+selected.Title+" at "+selected.Company, report)
}

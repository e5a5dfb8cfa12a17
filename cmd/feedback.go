package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/feedback"
	"github.com/jobscout/jobscout/internal/render"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Manage the feedback memory fed into analysis prompts",
}

var feedbackShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the accumulated feedback",
	Run: func(_ *cobra.Command, _ []string) {
		fb, zlog := mustFeedbackStore()

		text, err := fb.Load()
		if err != nil {
			zlog.Fatal("loading feedback memory", zap.Error(err))
		}

		if strings.TrimSpace(text) == "" {
			render.Info("No feedback saved yet.")
			return
		}

		render.Report("Feedback Memory", text)
	},
}

var feedbackAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Append a feedback entry",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		fb, zlog := mustFeedbackStore()

		if err := fb.Append(strings.Join(args, " ")); err != nil {
			zlog.Fatal("appending feedback", zap.Error(err))
		}

		render.Info("Feedback saved.")
	},
}

var feedbackResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Destroy the feedback memory",
	Run: func(_ *cobra.Command, _ []string) {
		fb, zlog := mustFeedbackStore()

		if err := fb.Clear(); err != nil {
			zlog.Fatal("clearing feedback memory", zap.Error(err))
		}

		render.Info("Feedback memory cleared.")
	},
}

func init() {
	feedbackCmd.AddCommand(feedbackShowCmd, feedbackAddCmd, feedbackResetCmd)
	rootCmd.AddCommand(feedbackCmd)
}

func mustFeedbackStore() (fb feedback.Store, zlog *zap.Logger) {
	zlog = newLogger()

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	fb, err = newFeedbackStore(config)
	if err != nil {
		zlog.Fatal("opening feedback store", zap.Error(err))
	}

	return fb, zlog
}

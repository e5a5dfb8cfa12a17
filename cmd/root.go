package cmd

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/ai"
	"github.com/jobscout/jobscout/internal/ai/gemini"
	"github.com/jobscout/jobscout/internal/extract"
	"github.com/jobscout/jobscout/internal/feedback"
	"github.com/jobscout/jobscout/internal/logger"
	"github.com/jobscout/jobscout/internal/secrets"
	"github.com/jobscout/jobscout/internal/store"
)

const (
	app = "jobscout"

	defaultFeedbackFile = "jobscout-feedback.txt"
)

type Config struct {
	Search       *SearchConfig  `mapstructure:"search"`
	Extract      *ExtractConfig `mapstructure:"extract"`
	AI           *AIConfig      `mapstructure:"ai"`
	Store        *StoreConfig   `mapstructure:"store"`
	FeedbackFile string         `mapstructure:"feedback-file"`
}

type SearchConfig struct {
	Title           string   `mapstructure:"title"`
	Location        string   `mapstructure:"location"`
	Skills          []string `mapstructure:"skills"`
	ExperienceYears int      `mapstructure:"experience-years"`
	Pages           int      `mapstructure:"pages"`
}

type ExtractConfig struct {
	APIURL     string `mapstructure:"api-url"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type StoreConfig struct {
	DatabaseURL string `mapstructure:"database-url"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobscout is a cli for scraping job boards, ranking postings against your profile and analyzing them with an LLM",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"extract.api-key-file":   "FIRECRAWL_API_KEY_FILE",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"store.database-url":     "JOBSCOUT_DATABASE_URL",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// A missing config file is fine: flags, env and defaults cover everything.
	// A present but unparseable one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Search == nil {
		config.Search = &SearchConfig{}
	}
	if config.Search.Pages <= 0 {
		config.Search.Pages = extract.DefaultPages
	}
	if config.FeedbackFile == "" {
		config.FeedbackFile = defaultFeedbackFile
	}

	return config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// newExtractClient builds the extraction collaborator from config.
func newExtractClient(config *Config, zlog *zap.Logger) (*extract.Client, error) {
	var keyFile string
	if config.Extract != nil {
		keyFile = config.Extract.APIKeyFile
	}

	token, err := secrets.Load(secrets.Source{
		Name: "extraction api key",
		File: keyFile,
	})
	if err != nil {
		return nil, err
	}

	client := extract.New(zlog, token)
	if config.Extract != nil && config.Extract.APIURL != "" {
		client.APIURL = config.Extract.APIURL
	}

	return client, nil
}

// newAnalyst builds the analysis collaborator. Only the gemini provider is
// supported.
func newAnalyst(ctx context.Context, config *Config, zlog *zap.Logger) (ai.Analyst, error) {
	if config.AI == nil || config.AI.Gemini == nil {
		return nil, errors.New("ai.gemini configuration is required for analysis")
	}

	provider := strings.TrimSpace(strings.ToLower(config.AI.Provider))
	if provider != "" && provider != "gemini" {
		return nil, errors.New("unsupported ai provider: " + config.AI.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.AI.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.WithCommonFields(zlog, "gemini", config.AI.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model, config.AI.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewAnalyst(generator, genLogger, config.AI.Gemini.MaxLogLength), nil
}

// newStore opens the posting store when one is configured; (nil, nil) when
// persistence is disabled.
func newStore(ctx context.Context, config *Config, zlog *zap.Logger) (*store.Store, error) {
	if config.Store == nil || strings.TrimSpace(config.Store.DatabaseURL) == "" {
		return nil, nil
	}

	st, err := store.New(ctx, config.Store.DatabaseURL, zlog)
	if err != nil {
		return nil, err
	}

	if err := st.Init(ctx); err != nil {
		st.Close()
		return nil, err
	}

	return st, nil
}

func newFeedbackStore(config *Config) (feedback.Store, error) {
	return feedback.NewFileStore(config.FeedbackFile)
}

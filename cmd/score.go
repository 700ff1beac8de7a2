package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tanishkumarsahu/Code4Edtech/internal/extract"
	"github.com/tanishkumarsahu/Code4Edtech/internal/logger"
	"github.com/tanishkumarsahu/Code4Edtech/internal/screening"
	"github.com/tanishkumarsahu/Code4Edtech/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score <resume-file>",
	Short: "Score a local resume file against a job description",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		score(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("job-id", "", "id of a stored job to score against")
	scoreCmd.Flags().String("job-file", "", "path to a JSON job description, bypassing the database")
	scoreCmd.Flags().Bool("offline", false, "skip semantic providers and use the fallback result")
}

func score(cmd *cobra.Command, resumePath string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	data, err := os.ReadFile(resumePath)
	if err != nil {
		logger.Fatal("reading the resume file", zap.Error(err))
	}

	resumeText, err := extract.Text(resumePath, data)
	if err != nil {
		logger.Fatal("extracting resume text", zap.Error(err))
	}

	logger.Info("resume text extracted",
		zap.String("file", resumePath),
		zap.Int("characters", len(resumeText)),
	)

	job, err := resolveJob(ctx, cmd, config, logger)
	if err != nil {
		logger.Fatal("resolving the job description", zap.Error(err))
	}

	var evaluator screening.Evaluator
	if offline, _ := cmd.Flags().GetBool("offline"); !offline {
		evaluator, err = newEvaluator(ctx, config.AI, logger)
		if err != nil {
			logger.Fatal("building the semantic evaluator", zap.Error(err))
		}
	}

	service := screening.NewService(
		screening.NewSkillMatcher(logger),
		evaluator,
		screening.NewHybridScorer(logger),
		logger,
	)

	report, err := service.Score(ctx, resumeText, job)
	if err != nil {
		logger.Fatal("scoring the resume", zap.Error(err))
	}

	pretty, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Fatal("rendering the report", zap.Error(err))
	}

	fmt.Println(string(pretty))
}

// resolveJob loads the job description either from a JSON file, from the
// store by id, or interactively when neither is given.
func resolveJob(ctx context.Context, cmd *cobra.Command, config *Config, logger *zap.Logger) (*screening.JobDescription, error) {
	if jobFile, _ := cmd.Flags().GetString("job-file"); jobFile != "" {
		data, err := os.ReadFile(jobFile)
		if err != nil {
			return nil, fmt.Errorf("reading job file: %w", err)
		}
		var job screening.JobDescription
		if err := json.Unmarshal(data, &job); err != nil {
			return nil, fmt.Errorf("parsing job file: %w", err)
		}
		return &job, job.Validate()
	}

	if config.Database.URL == "" {
		return nil, fmt.Errorf("database url is required unless --job-file is given")
	}

	st, err := store.Open(ctx, config.Database.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("connecting to the database: %w", err)
	}
	defer st.Close()

	if jobID, _ := cmd.Flags().GetString("job-id"); jobID != "" {
		return st.GetJob(ctx, jobID)
	}

	jobs, err := st.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no jobs stored yet, create one through the API or pass --job-file")
	}

	items := make([]string, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, fmt.Sprintf("%s / %s / %s", job.ID, job.Title, job.Company))
	}

	jobPrompt := promptui.Select{
		Label: "Choose a job description and press ENTER",
		Items: items,
	}

	idx, _, err := jobPrompt.Run()
	if err != nil {
		return nil, err
	}

	return jobs[idx], nil
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tanishkumarsahu/Code4Edtech/internal/logger"
	"github.com/tanishkumarsahu/Code4Edtech/internal/screening"
	"github.com/tanishkumarsahu/Code4Edtech/internal/server"
	"github.com/tanishkumarsahu/Code4Edtech/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the resume screening HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "listen address (overrides server.addr)")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve(_ *cobra.Command) {
	// Local development keeps secrets in a .env file.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-relevance server", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config.Database.URL == "" {
		logger.Fatal("database url is required",
			zap.String("hint", "set DATABASE_URL environment variable or the 'database.url' key in the configuration file"),
		)
	}

	st, err := store.Open(ctx, config.Database.URL, logger)
	if err != nil {
		logger.Fatal("connecting to the database", zap.Error(err))
	}
	defer st.Close()

	if err := st.EnsureSchema(ctx); err != nil {
		logger.Fatal("ensuring the database schema", zap.Error(err))
	}

	evaluator, err := newEvaluator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the semantic evaluator", zap.Error(err))
	}
	if evaluator == nil {
		logger.Warn("semantic providers disabled, every report will use the fallback semantic result")
	}

	service := screening.NewService(
		screening.NewSkillMatcher(logger),
		evaluator,
		screening.NewHybridScorer(logger),
		logger,
	)

	srv := server.New(server.Config{
		Addr:            config.Server.Addr,
		SemanticTimeout: time.Duration(config.Server.SemanticTimeoutSeconds) * time.Second,
		Debug:           viper.GetBool("debug"),
	}, st, service, logger)

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}

	logger.Info("server stopped")
}

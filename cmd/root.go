package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "resume-relevance"
)

// Config is the application configuration, loaded from the YAML config file
// and environment bindings.
type Config struct {
	Server   *ServerConfig   `mapstructure:"server"`
	Database *DatabaseConfig `mapstructure:"database"`
	AI       *AIConfig       `mapstructure:"ai"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr                   string `mapstructure:"addr"`
	SemanticTimeoutSeconds int    `mapstructure:"semantic-timeout-seconds"`
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// AIConfig configures the semantic providers. Providers lists backends in
// priority order; each is attempted once per scoring call.
type AIConfig struct {
	Enabled      bool            `mapstructure:"enabled"`
	Providers    []string        `mapstructure:"providers"`
	MaxLogLength int             `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig   `mapstructure:"gemini"`
	GoogleAI     *GoogleAIConfig `mapstructure:"googleai"`
}

// GeminiConfig stores settings for the primary Gemini provider.
type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	APIKey     string `mapstructure:"api-key"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

// GoogleAIConfig stores settings for the langchaingo-backed provider.
type GoogleAIConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	APIKey     string `mapstructure:"api-key"`
	Model      string `mapstructure:"model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-relevance screens resumes against job descriptions with hybrid keyword and AI scoring",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("database.url", "DATABASE_URL"); err != nil {
		log.Fatalf("binding DATABASE_URL environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is "+app+".yaml in current directory)")
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
		viper.SetConfigType("yaml")
	}

	// The config file is optional: env bindings and defaults can carry a
	// minimal setup. A present-but-broken file is fatal.
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			log.Fatal(err)
		}
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
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Server.Addr == "" {
		config.Server.Addr = ":8080"
	}
	if config.Database == nil {
		config.Database = &DatabaseConfig{}
	}

	return config, nil
}

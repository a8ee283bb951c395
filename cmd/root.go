package cmd

import (
	"errors"
	"log"

	"github.com/fmohsen/cvbank/internal/storage"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "cvbank"
)

type Config struct {
	Database *DatabaseConfig `mapstructure:"database"`
	Storage  *storage.Config `mapstructure:"storage"`
	AI       *AIConfig       `mapstructure:"ai"`
	User     *UserConfig     `mapstructure:"user"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	FastModel    string `mapstructure:"fast-model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

// UserConfig identifies the operator. The ID prefixes stored files and owns
// created records.
type UserConfig struct {
	ID    string `mapstructure:"id"`
	Email string `mapstructure:"email"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cvbank is a cli for collecting resumes, extracting candidate data with AI and matching candidates to job descriptions",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envBindings := map[string]string{
		"database.dsn":            "DATABASE_URL",
		"ai.gemini.api-key":       "GEMINI_API_KEY",
		"ai.gemini.api-key-file":  "GEMINI_API_KEY_FILE",
		"storage.access-key":      "STORAGE_ACCESS_KEY",
		"storage.secret-key":      "STORAGE_SECRET_KEY",
		"storage.endpoint":        "STORAGE_ENDPOINT",
		"storage.bucket":          "STORAGE_BUCKET",
		"storage.public-base-url": "STORAGE_PUBLIC_BASE_URL",
	}
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cvbank.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Secrets can live in a local .env file. A missing file is fine.
	loadDotenv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// A missing default config is allowed since environment variables can
	// carry the whole configuration. An unparseable one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

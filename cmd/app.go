package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fmohsen/cvbank/internal/ai/gemini"
	"github.com/fmohsen/cvbank/internal/bank"
	"github.com/fmohsen/cvbank/internal/logger"
	"github.com/fmohsen/cvbank/internal/secrets"
	"github.com/fmohsen/cvbank/internal/storage"
	"github.com/fmohsen/cvbank/internal/store/postgres"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// application bundles the dependencies shared by every command. The
// repository and the collection snapshot are always built; blob storage and
// the AI generator are built on demand since not every command needs
// credentials for them.
type application struct {
	config *Config
	logger *zap.Logger
	repo   *postgres.Repository
	bank   *bank.Bank
}

func loadDotenv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("loading .env file: %v", err)
	}
}

// newApplication builds the shared dependencies or exits via the logger.
func newApplication(ctx context.Context) *application {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		logger.Fatal("config is required")
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config.Database == nil || strings.TrimSpace(config.Database.DSN) == "" {
		logger.Fatal(
			"database connection is not configured",
			zap.String("hint", "set DATABASE_URL environment variable or the 'database.dsn' key in the configuration file"),
		)
	}

	repo, err := postgres.Open(config.Database.DSN)
	if err != nil {
		logger.Fatal("opening the database", zap.Error(err))
	}

	if err := repo.InitSchema(ctx); err != nil {
		logger.Fatal("preparing the database schema", zap.Error(err))
	}

	b, err := bank.Load(ctx, repo)
	if err != nil {
		logger.Fatal("loading the resume bank", zap.Error(err))
	}

	logger.Debug("loaded the resume bank",
		zap.Int("resumes", b.Len()),
		zap.Int("folders", len(b.Folders())),
	)

	return &application{
		config: config,
		logger: logger,
		repo:   repo,
		bank:   b,
	}
}

func (a *application) close() {
	if err := a.repo.Close(); err != nil {
		a.logger.Warn("closing the database", zap.Error(err))
	}
}

func (a *application) userID() string {
	if a.config.User == nil || a.config.User.ID == "" {
		return "local"
	}
	return a.config.User.ID
}

func (a *application) userEmail() string {
	if a.config.User == nil {
		return ""
	}
	return a.config.User.Email
}

// blobStore builds the S3 compatible storage client from the configuration.
func (a *application) blobStore(ctx context.Context) *storage.Store {
	if a.config.Storage == nil {
		a.logger.Fatal(
			"storage is not configured",
			zap.String("hint", "fill the 'storage' section in the configuration file"),
		)
	}

	store, err := storage.New(ctx, *a.config.Storage, a.logger)
	if err != nil {
		a.logger.Fatal("creating the storage client", zap.Error(err))
	}

	return store
}

// generator builds the Gemini client from the configuration.
func (a *application) generator(ctx context.Context) *gemini.Generator {
	aiCfg := a.config.AI
	if aiCfg == nil {
		aiCfg = &AIConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(aiCfg.Provider))
	if provider != "" && provider != "gemini" {
		a.logger.Fatal("unsupported ai provider", zap.String("provider", aiCfg.Provider))
	}

	geminiCfg := aiCfg.Gemini
	if geminiCfg == nil {
		geminiCfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: geminiCfg.APIKey,
		File:  geminiCfg.APIKeyFile,
	})
	if err != nil {
		a.logger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or GEMINI_API_KEY_FILE environment variable, or the 'ai.gemini' keys in the configuration file"),
		)
	}

	genLogger := a.logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", geminiCfg.Model),
	)

	generator, err := gemini.NewGenerator(ctx, gemini.Config{
		APIKey:       apiKey,
		Model:        geminiCfg.Model,
		FastModel:    geminiCfg.FastModel,
		Retries:      geminiCfg.MaxRetries,
		MaxLogLength: geminiCfg.MaxLogLength,
	}, genLogger)
	if err != nil {
		a.logger.Fatal("creating the gemini client", zap.Error(err))
	}

	return generator
}

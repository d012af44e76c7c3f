package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/placement-allocator/internal/config"
	"github.com/jakechorley/placement-allocator/pkg/clients/gmailclient"
	"github.com/jakechorley/placement-allocator/pkg/clients/sheetsclient"
	"github.com/jakechorley/placement-allocator/pkg/postgres"
	"github.com/jakechorley/placement-allocator/pkg/resumes"
)

// AppContext holds the application dependencies shared across all commands.
// Config, database and Google clients are created on first use so that
// commands which only read a resume file need none of them.
type AppContext struct {
	Env string

	// ConfigPath overrides the placement_config.yaml search when set
	ConfigPath string

	Ctx    context.Context
	Logger *zap.Logger

	cfg          *config.Config
	oauthCfg     *config.OAuthClientConfig
	database     *postgres.DB
	sheetsClient *sheetsclient.Client
	gmailClient  *gmailclient.Client
}

// Config loads the configuration for the current environment
func (a *AppContext) Config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	var (
		cfg *config.Config
		err error
	)
	if a.ConfigPath != "" {
		a.Logger.Debug("Loading configuration", zap.String("path", a.ConfigPath))
		cfg, err = config.LoadFromPath(a.ConfigPath)
	} else {
		a.Logger.Debug("Loading configuration", zap.String("environment", a.Env))
		cfg, err = config.LoadWithEnv(a.Env)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg
	return cfg, nil
}

// Database connects to Postgres and applies pending migrations
func (a *AppContext) Database() (*postgres.DB, error) {
	if a.database != nil {
		return a.database, nil
	}

	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}

	a.Logger.Debug("Connecting to database")
	database, err := postgres.NewDB(a.Ctx, cfg.DatabaseURL, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(a.Ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a.database = database
	return database, nil
}

// Resumes returns a loader for the configured resume directory
func (a *AppContext) Resumes() (*resumes.Loader, error) {
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}
	return resumes.NewLoader(cfg.ResumeDir, a.Logger), nil
}

// Sheets returns the Sheets client, running the OAuth flow if needed
func (a *AppContext) Sheets() (*sheetsclient.Client, error) {
	if a.sheetsClient != nil {
		return a.sheetsClient, nil
	}

	oauthCfg, err := a.oauthClient()
	if err != nil {
		return nil, err
	}

	a.Logger.Debug("Initializing sheets client")
	client, err := sheetsclient.NewClient(a.Ctx, oauthCfg, a.Env, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	a.sheetsClient = client
	return client, nil
}

// Gmail returns the Gmail client, sharing the Sheets client's token
func (a *AppContext) Gmail() (*gmailclient.Client, error) {
	if a.gmailClient != nil {
		return a.gmailClient, nil
	}

	sheets, err := a.Sheets()
	if err != nil {
		return nil, err
	}

	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}

	a.Logger.Debug("Initializing gmail client")
	client, err := gmailclient.NewClient(a.Ctx, a.oauthCfg, sheets.Token(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	a.gmailClient = client
	return client, nil
}

func (a *AppContext) oauthClient() (*config.OAuthClientConfig, error) {
	if a.oauthCfg != nil {
		return a.oauthCfg, nil
	}

	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}

	a.Logger.Debug("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClient(cfg, a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}
	a.oauthCfg = oauthCfg
	return oauthCfg, nil
}

// Close releases the database pool if one was opened
func (a *AppContext) Close() {
	if a.database != nil {
		a.database.Close()
		a.database = nil
	}
}

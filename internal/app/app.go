package app

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/youcefmohamedelamine/telegram-bot/internal/config"
	"github.com/youcefmohamedelamine/telegram-bot/internal/postgres"
	"github.com/youcefmohamedelamine/telegram-bot/internal/telegram"
	"github.com/youcefmohamedelamine/telegram-bot/pkg/logger"
)

type App struct {
	Config *config.Config
	DB     *sql.DB
	Bot    *telegram.Client
}

func New(cfg *config.Config) (*App, error) {
	db, err := initDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	return &App{
		Config: cfg,
		DB:     db,
		Bot:    telegram.New(cfg.BotToken),
	}, nil
}

func initDB(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err = db.Ping(); err != nil {
		err := db.Close()
		if err != nil {
			return nil, fmt.Errorf("error closing database after ping failure: %w", err)
		}
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	return db, nil
}

// Run prepares the schema and points the Bot API webhook at this instance.
func (app *App) Run(ctx context.Context) error {
	if err := postgres.New(app.DB).Bootstrap(ctx); err != nil {
		return fmt.Errorf("error bootstrapping schema: %w", err)
	}

	if app.Config.WebhookURL == "" {
		logger.Log.Warn("no webhook URL configured, skipping webhook registration")
		return nil
	}

	if err := app.Bot.DeleteWebhook(ctx); err != nil {
		logger.Log.Warn("error deleting previous webhook", logger.Error(err))
	}

	if err := app.Bot.SetWebhook(ctx, app.Config.WebhookURL, app.Config.WebhookSecret); err != nil {
		return fmt.Errorf("error registering webhook: %w", err)
	}

	logger.Log.Info("webhook registered", logger.String("url", app.Config.WebhookURL))

	return nil
}

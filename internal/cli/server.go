package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rickcomics/myprotectivemasks/internal/app"
	"github.com/rickcomics/myprotectivemasks/internal/config"
	"github.com/rickcomics/myprotectivemasks/internal/domain"
	"github.com/rickcomics/myprotectivemasks/internal/infra/memory"
	pgloader "github.com/rickcomics/myprotectivemasks/internal/infra/postgres"
	redisinfra "github.com/rickcomics/myprotectivemasks/internal/infra/redis"
	"github.com/rickcomics/myprotectivemasks/internal/quiz"
	transport "github.com/rickcomics/myprotectivemasks/internal/transport/http"
	"github.com/rickcomics/myprotectivemasks/internal/transport/telegram"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the bot server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the bot server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token not configured")
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "3000"
	}

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.TTLDuration(cfg.Session.TTL, 0)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	bankID := cfg.Bank.ID
	if bankID == "" {
		bankID = quiz.DefaultBankID
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(map[string]domain.Bank{
		quiz.DefaultBankID: quiz.DefaultBank(),
	})
	if pool != nil {
		loader = pgloader.NewBankLoader(pool)
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	var banks app.BankRepository
	if redisClient != nil {
		banks = redisinfra.NewBankRepository(redisClient, loader, bankID, bankTTL)
	} else {
		banks = memory.NewBankRepository(loader, bankID, bankTTL)
	}

	var store app.SessionStore
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		store = memory.NewSessionStore()
	}

	engine := app.NewEngine(store, banks)
	botClient := telegram.NewClient(cfg.Telegram.Token)
	webhookHandler := transport.NewWebhookHandler(engine, botClient)
	wsHandler := transport.NewWSHandler(engine)

	mux := http.NewServeMux()
	mux.HandleFunc("/", transport.ServeRoot)
	mux.HandleFunc("/health", transport.ServeHealth)
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	// The webhook path is the bot token, so only Telegram can guess it.
	mux.HandleFunc("/"+cfg.Telegram.Token, webhookHandler.ServeUpdate)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting bot server on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	if cfg.Telegram.WebhookBaseURL != "" {
		go func() {
			webhookURL := fmt.Sprintf("%s/%s", cfg.Telegram.WebhookBaseURL, cfg.Telegram.Token)
			active, err := botClient.EnsureWebhook(ctx, webhookURL)
			if err != nil {
				log.Printf("[ERROR] webhook check/registration: %v", err)
				return
			}
			log.Printf("webhook active: %s", active)
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

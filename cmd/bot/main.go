package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"translatebot/internal/config"
	"translatebot/internal/domain"
	"translatebot/internal/handler"
	"translatebot/internal/platform/mattermost"
	"translatebot/internal/platform/telegram"
	"translatebot/internal/repository"
	"translatebot/internal/repository/memory"
	"translatebot/internal/repository/postgres"
	"translatebot/internal/secrets"
	"translatebot/internal/server"
	"translatebot/internal/service"
	"translatebot/internal/translation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

var version = "dev"

type flags struct {
	envFile  string
	platform string
	addr     string
}

func main() {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "bot",
		Short: "Chat bot that replies to non-English messages with an English translation",
		Long: `bot watches the channels it is a member of and answers every message that
does not look like English with a threaded English translation.

Users opt out with /disable_translate and back in with /enable_translate.`,
		Args:         cobra.NoArgs,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	rootCmd.Flags().StringVar(&f.envFile, "env-file", "", "dotenv file to load (default .env)")
	rootCmd.Flags().StringVar(&f.platform, "platform", "", "chat platform: telegram or mattermost (overrides PLATFORM)")
	rootCmd.Flags().StringVar(&f.addr, "addr", "", "metadata server address (overrides HTTP_ADDR)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// platformRuntime is a started chat platform
type platformRuntime struct {
	identity domain.BotIdentity
	handler  *handler.Handler
	stop     func()
}

func run(cmd *cobra.Command, f *flags) error {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Starting translation bot", zap.String("version", version))

	// Load configuration
	var envFiles []string
	if f.envFile != "" {
		envFiles = append(envFiles, f.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if cmd.Flags().Changed("platform") {
		cfg.Platform = config.ParsePlatform(f.platform)
	}
	if cmd.Flags().Changed("addr") {
		cfg.HTTPAddr = f.addr
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.ParamPrefix != "" {
		store, err := secrets.NewFromEnvironment(ctx)
		if err != nil {
			logger.Fatal("Failed to create parameter store client", zap.Error(err))
		}
		if err := cfg.ResolveSecrets(ctx, store); err != nil {
			logger.Fatal("Failed to resolve secrets", zap.Error(err))
		}
		logger.Info("Secrets resolved from parameter store", zap.String("prefix", cfg.ParamPrefix))
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully", zap.String("platform", string(cfg.Platform)))

	// Translation gateway
	var gatewayOpts []translation.Option
	if cfg.TranslateAPIURL != "" {
		gatewayOpts = append(gatewayOpts, translation.WithBaseURL(cfg.TranslateAPIURL))
	}
	gateway, err := translation.New(cfg.TranslateBackend, cfg.IOAPIKey, cfg.OpenAIModel, gatewayOpts...)
	if err != nil {
		logger.Fatal("Failed to create translation gateway", zap.Error(err))
	}

	logger.Info("Translation gateway initialized", zap.String("backend", gateway.Name()))

	// Optional translation journal
	var journalRepo repository.JournalRepository
	if cfg.JournalEnabled() {
		db, err := connectDatabase(ctx, cfg.DSN(), logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := runMigrations(db, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		journalRepo = postgres.NewJournalRepo(db)
	} else {
		logger.Info("Translation journal disabled, DB_PASSWORD is not set")
	}

	// Initialize services
	settingsService := service.NewSettingsService(memory.NewSettingsRepo())
	journalService := service.NewJournalService(journalRepo, gateway.Name(), cfg.JournalRetentionDays, logger)

	newHandler := func(identity domain.BotIdentity) *handler.Handler {
		filter := service.NewEligibilityFilter(identity.UserID, settingsService)
		return handler.NewHandler(filter, settingsService, journalService, gateway, logger)
	}

	var rt *platformRuntime
	var mount func(*server.Server)

	switch cfg.Platform {
	case config.PlatformMattermost:
		rt, mount, err = startMattermost(ctx, cfg, newHandler, logger)
	default:
		rt, err = startTelegram(ctx, cfg, newHandler, logger)
	}
	if err != nil {
		logger.Fatal("Failed to start chat platform", zap.Error(err))
	}

	logger.Info("Bot identity resolved",
		zap.String("user_id", rt.identity.UserID),
		zap.String("username", rt.identity.Username),
	)

	// Metadata server
	srv := server.New(cfg.HTTPAddr, domain.Metadata{
		BotIdentity: rt.identity,
		Platform:    string(cfg.Platform),
		Version:     version,
		Commands:    rt.handler.Commands(),
	}, logger)
	if mount != nil {
		mount(srv)
	}
	srv.Start()

	if journalService.Enabled() {
		go runCleanupJob(ctx, journalService, logger)
	}

	logger.Info("Bot started successfully")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown failed", zap.Error(err))
	}

	cancel()
	rt.stop()

	logger.Info("Bot stopped gracefully")
	return nil
}

func startTelegram(
	ctx context.Context,
	cfg *config.Config,
	newHandler func(domain.BotIdentity) *handler.Handler,
	logger *zap.Logger,
) (*platformRuntime, error) {
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	identity := telegram.Identity(bot)
	h := newHandler(identity)

	adapter := telegram.NewAdapter(ctx, bot, h, logger)
	adapter.RegisterHandlers()
	if err := adapter.PublishCommands(); err != nil {
		logger.Warn("Failed to publish command menu", zap.Error(err))
	}

	go bot.Start()

	return &platformRuntime{identity: identity, handler: h, stop: bot.Stop}, nil
}

func startMattermost(
	ctx context.Context,
	cfg *config.Config,
	newHandler func(domain.BotIdentity) *handler.Handler,
	logger *zap.Logger,
) (*platformRuntime, func(*server.Server), error) {
	adapter := mattermost.NewAdapter(cfg.MattermostURL, cfg.BotToken, logger)

	identity, err := adapter.Identity(ctx)
	if err != nil {
		return nil, nil, err
	}
	h := newHandler(identity)
	adapter.SetHandler(h)

	if err := adapter.Start(ctx); err != nil {
		return nil, nil, err
	}

	mount := func(srv *server.Server) {
		srv.Mount(mattermost.CommandPath, mattermost.NewCommandHandler(h, cfg.SigningSecret, logger))
	}

	// The listener exits once ctx is cancelled.
	return &platformRuntime{identity: identity, handler: h, stop: adapter.Wait}, mount, nil
}

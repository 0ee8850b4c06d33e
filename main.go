package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"

	"github.com/familybot/companion/pkg/api"
	"github.com/familybot/companion/pkg/auth"
	"github.com/familybot/companion/pkg/chat"
	"github.com/familybot/companion/pkg/converter"
	"github.com/familybot/companion/pkg/gateway"
	"github.com/familybot/companion/pkg/logger"
	"github.com/familybot/companion/pkg/normalizer"
	"github.com/familybot/companion/pkg/repository"
	"github.com/familybot/companion/pkg/workers"
)

type Config struct {
	GatewayBaseURL      string        `env:"GATEWAY_BASE_URL" envDefault:"http://localhost:8080/api/v1"`
	GatewayTimeout      time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"30s"`
	ListenAddr          string        `env:"LISTEN_ADDR" envDefault:":3000"`
	DBPath              string        `env:"DB_PATH" envDefault:"familybot.db"`
	OpenAIToken         string        `env:"OPEN_AI_TOKEN"`
	HealthCheckInterval time.Duration `env:"HEALTH_CHECK_INTERVAL" envDefault:"30s"`
	AuthorizedUserIDs   []string      `env:"AUTHORIZED_USER_IDS" envSeparator:" "`
	NoColor             bool          `env:"NO_COLOR"`
}

func main() {
	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parsing env config: %w", err)
	}

	opts := *logger.DefaultOptions
	opts.NoColor = cfg.NoColor
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &opts)))

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	workerGroup, err := setupWorkers(ctx, cfg)
	if err != nil {
		return err
	}

	return workerGroup.Start(ctx)
}

func setupWorkers(ctx context.Context, cfg Config) (workers.Group, error) {
	var workerGroup workers.Group

	gatewayClient, err := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayTimeout)
	if err != nil {
		return nil, fmt.Errorf("creating gateway client: %w", err)
	}

	var kv repository.KeyValueStore
	if sqliteKV, err := repository.NewSQLiteKV(cfg.DBPath); err == nil {
		kv = sqliteKV
	} else {
		// Local persistence is a best-effort cache; run memory-only
		// rather than refusing to start.
		slog.Error("opening local database, falling back to in-memory storage", logger.Err(err))
		kv = repository.NewMemoryKV()
	}

	conversationRepository := repository.NewConversationRepository(kv)

	store := chat.NewStore(gatewayClient, conversationRepository, normalizer.Normalize)
	store.LoadConversationsFromLocal()
	store.Initialize(ctx)

	var transcriber converter.SpeechTranscriber = gatewayClient
	if cfg.OpenAIToken != "" {
		whisper, err := converter.NewWhisperTranscriber(cfg.OpenAIToken)
		if err != nil {
			return nil, fmt.Errorf("creating whisper transcriber: %w", err)
		}
		transcriber = converter.NewFallbackTranscriber(gatewayClient, whisper)
	}
	voiceConverter := converter.NewVoiceToText(transcriber)

	healthWatcher := workers.NewHealthWatcher(gatewayClient, cfg.HealthCheckInterval)
	workerGroup = append(workerGroup, healthWatcher)

	router := api.NewRouter(
		store,
		voiceConverter,
		healthWatcher,
		auth.NewAuthenticator(cfg.AuthorizedUserIDs),
	)
	workerGroup = append(workerGroup, workers.NewAPIServer(cfg.ListenAddr, router))

	return workerGroup, nil
}

package di

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/samber/do/v2"
	"github.com/samber/oops"

	bonusRepo "github.com/mlevasseur/bonus-watcher/internal/modules/bonus/repository"
	"github.com/mlevasseur/bonus-watcher/internal/modules/correlation"
	"github.com/mlevasseur/bonus-watcher/internal/modules/detect"
	feedService "github.com/mlevasseur/bonus-watcher/internal/modules/feed/service"
	"github.com/mlevasseur/bonus-watcher/internal/modules/media"
	"github.com/mlevasseur/bonus-watcher/internal/modules/media/ocrclient"
	"github.com/mlevasseur/bonus-watcher/internal/modules/publish"
	seenRepo "github.com/mlevasseur/bonus-watcher/internal/modules/seen/repository"
	"github.com/mlevasseur/bonus-watcher/internal/shared/config"
	httpServer "github.com/mlevasseur/bonus-watcher/internal/transport/http"
	telegramTransport "github.com/mlevasseur/bonus-watcher/internal/transport/telegram"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Seen Store
	do.Provide(injector, func(i do.Injector) (seenRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		store, err := seenRepo.NewSQLiteStorage(cfg.SeenDBPath)
		if err != nil {
			return nil, oops.With("db_path", cfg.SeenDBPath, "context", "failed to initialize seen store").Wrap(err)
		}
		return store, nil
	})

	// Register Correlation Cache
	do.Provide(injector, func(i do.Injector) (*correlation.Cache, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return correlation.New(cfg.CacheTTL), nil
	})

	// Register Record Repository
	do.Provide(injector, func(i do.Injector) (bonusRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := bonusRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize record repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Media Recovery (nil recognizer when no OCR service configured)
	do.Provide(injector, func(i do.Injector) (*media.Recovery, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.OCRServiceURL == "" {
			return nil, nil
		}
		return media.NewRecovery(ocrclient.New(cfg.OCRServiceURL)), nil
	})

	// Register Payload Builder
	do.Provide(injector, func(i do.Injector) (*publish.Builder, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return publish.NewBuilder(cfg.RankMin, cfg.BonusImageURL), nil
	})

	// Register Discord Publisher
	do.Provide(injector, func(i do.Injector) (*publish.Discord, error) {
		cfg := do.MustInvoke[*config.Config](i)
		pub, err := publish.NewDiscord(cfg.DiscordToken, cfg.DiscordChannelID, cfg.PingRoleID, cfg.ButtonLabel)
		if err != nil {
			return nil, oops.With("context", "failed to initialize discord publisher").Wrap(err)
		}
		return pub, nil
	})

	// Register Media Fetcher
	do.Provide(injector, func(i do.Injector) (*telegramTransport.Fetcher, error) {
		return telegramTransport.NewFetcher(), nil
	})

	// Register Detector
	do.Provide(injector, func(i do.Injector) (*detect.Detector, error) {
		cfg := do.MustInvoke[*config.Config](i)
		cache := do.MustInvoke[*correlation.Cache](i)
		seen := do.MustInvoke[seenRepo.Repository](i)
		builder := do.MustInvoke[*publish.Builder](i)
		pub := do.MustInvoke[*publish.Discord](i)
		recovery := do.MustInvoke[*media.Recovery](i)
		fetcher := do.MustInvoke[*telegramTransport.Fetcher](i)
		history := do.MustInvoke[bonusRepo.Repository](i)

		handles, ids := config.ParseChannels(cfg.Channels)
		opts := detect.Options{
			AllowedHandles: handles,
			AllowedIDs:     ids,
		}
		return detect.NewDetector(opts, cache, seen, builder, pub, recovery, fetcher, history), nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		repo := do.MustInvoke[bonusRepo.Repository](i)
		return feedService.New(repo), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramTransport.Handler, error) {
		detector := do.MustInvoke[*detect.Detector](i)
		return telegramTransport.New(detector), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		feedSvc := do.MustInvoke[*feedService.Service](i)
		return httpServer.New(cfg, feedSvc), nil
	})

	// Register Bot (needs to be initialized after handlers are ready)
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegramTransport.Handler](i)

		opts := []bot.Option{
			bot.WithDefaultHandler(handler.HandleUpdate),
			bot.WithServerURL(cfg.TelegramAPIURL),
		}

		b, err := bot.New(cfg.TelegramBotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		// The fetcher downloads media through the bot's file endpoint.
		fetcher := do.MustInvoke[*telegramTransport.Fetcher](i)
		fetcher.SetBot(b)

		return b, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx := context.Background()

	if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
		b.Close(ctx)
	}

	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		server.Shutdown(ctx)
	}

	if pub, err := do.Invoke[*publish.Discord](injector); err == nil && pub != nil {
		pub.Close()
	}

	if seen, err := do.Invoke[seenRepo.Repository](injector); err == nil && seen != nil {
		seen.Close()
	}

	return nil
}

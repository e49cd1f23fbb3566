package app

import (
	"context"
	"fmt"
	"log"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/redis/go-redis/v9"

	"github.com/okadapy/persona-bot/config"
	"github.com/okadapy/persona-bot/internal/analytics"
	"github.com/okadapy/persona-bot/internal/model"
	key_value "github.com/okadapy/persona-bot/internal/storage/key-value"
	"github.com/okadapy/persona-bot/internal/storage/sqlite"
	"github.com/okadapy/persona-bot/internal/usecase"
)

// Run wires the collaborators and polls for updates until ctx is
// canceled. The analytics emitter is drained and the database closed
// before it returns.
func Run(ctx context.Context, cfg *config.Config) error {
	bot, err := api.NewBotAPI(cfg.Telegram.APIToken)
	if err != nil {
		return fmt.Errorf("failed to create new bot: %w", err)
	}
	log.Printf("Authorized on account %s", bot.Self.UserName)

	storage, err := sqlite.NewStorage(cfg.Storage.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to open sqlite storage: %w", err)
	}
	defer storage.Close()

	if err = storage.SeedPersonas(ctx, model.DefaultPersonas()); err != nil {
		return fmt.Errorf("failed to seed personas: %w", err)
	}

	var users usecase.UserDirectory = storage
	if cfg.Storage.UserDriver == "redis" {
		rdb := redis.NewClient(
			&redis.Options{
				Addr: cfg.Storage.RedisEndpoint,
			},
		)
		users = key_value.NewUserStorage(rdb)
	}

	emitter := analytics.NewEmitter(cfg.Amplitude)
	defer emitter.Close()

	completionUsecase := usecase.NewCompletionUsecase(cfg.OpenAI)

	relayUsecase := usecase.NewRelayUsecase(
		usecase.RelayUsecaseDeps{
			Users:      users,
			Personas:   storage,
			Log:        storage,
			Completion: completionUsecase,
			Analytics:  emitter,
		},
		cfg.Relay.DefaultPersona,
	)

	telegramUsecase, err := usecase.NewTelegramUsecase(
		cfg.Telegram, usecase.TelegramUsecaseDeps{
			Relay: relayUsecase,
			Bot:   bot,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create telegram usecase: %w", err)
	}

	return telegramUsecase.Run(ctx)
}

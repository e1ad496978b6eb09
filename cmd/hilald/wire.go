package main

import (
	"context"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"hilal/internal/adapters/audio"
	"hilal/internal/adapters/desktop"
	"hilal/internal/adapters/mqtt"
	"hilal/internal/adapters/repo"
	"hilal/internal/adapters/telegram"
	"hilal/internal/infra/cache"
	"hilal/internal/infra/config"
	"hilal/internal/infra/db"
	"hilal/internal/infra/queue"
	"hilal/internal/usecase/dispatch"
)

// deps собирает внешние подключения, включённые конфигурацией.
type deps struct {
	Sinks   dispatch.Sinks
	History *repo.Postgres
	Bot     *tgbotapi.BotAPI

	pool  *pgxpool.Pool
	redis *redis.Client
	mqtt  paho.Client
}

func wire(ctx context.Context, cfg config.AppConfig, logger zerolog.Logger) (*deps, error) {
	d := &deps{}

	if cfg.Telegram.Token != "" {
		api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return nil, fmt.Errorf("создание бота: %w", err)
		}
		d.Bot = api
		if cfg.Telegram.ChatID != 0 {
			d.Sinks.Notifiers = append(d.Sinks.Notifiers, telegram.NewNotifier(api, cfg.Telegram.ChatID, logger))
		}
	}
	if cfg.Notifications.Desktop {
		d.Sinks.Notifiers = append(d.Sinks.Notifiers, desktop.NewNotifier(""))
	}
	if cfg.Audio.Dir != "" {
		d.Sinks.Audio = audio.NewPlayer(cfg.Audio.Player, cfg.Audio.Dir)
	}

	if cfg.PGDSN != "" {
		pool, err := db.Connect(ctx, cfg.PGDSN)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("подключение к БД: %w", err)
		}
		d.pool = pool
		store := repo.NewPostgres(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			d.Close()
			return nil, fmt.Errorf("миграция журнала: %w", err)
		}
		d.History = store
		d.Sinks.Guard = store
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("hilald: redis недоступен, продолжаем")
		}
		d.redis = client
		if d.Sinks.Guard == nil {
			d.Sinks.Guard = cache.NewRedisFiredStore(client, "")
		}
		d.Sinks.Publishers = append(d.Sinks.Publishers, queue.NewRedisEventQueue(client, cfg.Queues.Events))
	}

	if cfg.Rabbit.URL != "" {
		publisher, err := queue.NewRabbitHTTPPublisher(cfg.Rabbit.URL, cfg.Rabbit.ManagementURL, cfg.Rabbit.Queue)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("настройка rabbitmq: %w", err)
		}
		d.Sinks.Publishers = append(d.Sinks.Publishers, publisher)
	}

	if cfg.MQTT.Broker != "" {
		client, err := mqtt.Connect(cfg.MQTT.Broker, cfg.MQTT.ClientID, logger)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.mqtt = client
		d.Sinks.Publishers = append(d.Sinks.Publishers, mqtt.NewPublisher(client, cfg.MQTT.Topic))
	}

	logSinks(logger, d.Sinks)
	return d, nil
}

// Close освобождает подключения.
func (d *deps) Close() {
	if d.mqtt != nil {
		d.mqtt.Disconnect(250)
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
}

func logSinks(logger zerolog.Logger, sinks dispatch.Sinks) {
	logger.Info().Strs("sinks", sinks.Names()).Bool("guard", sinks.Guard != nil).Msg("hilald: приёмники подключены")
}

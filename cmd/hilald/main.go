package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"hilal/internal/adapters/bot"
	"hilal/internal/infra/config"
	httpinfra "hilal/internal/infra/http"
	"hilal/internal/infra/log"
	"hilal/internal/infra/metrics"
	"hilal/internal/usecase/dispatch"
	"hilal/internal/usecase/schedule"
)

func main() {
	cfg := config.Load()
	logger := log.NewLogger(cfg.AppEnv, "hilald")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings, err := cfg.Settings()
	if err != nil {
		logger.Fatal().Err(err).Msg("hilald: некорректные настройки")
	}
	scheduleService, err := schedule.NewService(logger, settings)
	if err != nil {
		logger.Fatal().Err(err).Msg("hilald: не удалось создать сервис расписания")
	}

	deps, err := wire(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("hilald: не удалось подключить приёмники")
	}
	defer deps.Close()

	dispatcher := dispatch.NewService(logger, scheduleService, deps.Sinks)
	scheduler := schedule.NewScheduler(logger, scheduleService, dispatcher)

	if cfg.MetricsAddr != "" {
		metrics.StartServer(ctx, logger, cfg.MetricsAddr)
	}
	var opts []httpinfra.Option
	if deps.History != nil {
		opts = append(opts, httpinfra.WithHistory(deps.History))
	}
	if cfg.APIToken != "" {
		opts = append(opts, httpinfra.WithToken(cfg.APIToken))
	}
	server := httpinfra.NewServer(logger, scheduleService, opts...)
	go func() {
		if err := server.Start(cfg.HTTPAddr); err != nil {
			logger.Error().Err(err).Msg("HTTP сервер остановлен")
		}
	}()

	var wg sync.WaitGroup
	if deps.Bot != nil {
		handler := bot.NewHandler(deps.Bot, logger, scheduleService)
		wg.Add(1)
		go func() {
			defer wg.Done()
			bot.Listen(ctx, deps.Bot, handler)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		reloadOnHangup(ctx, logger, scheduleService)
	}()

	logger.Info().
		Str("method", string(settings.Method)).
		Str("timezone", settings.Location.String()).
		Float64("lat", settings.Coordinate.Latitude).
		Float64("lon", settings.Coordinate.Longitude).
		Msg("hilald: запущен")
	scheduler.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP сервер: ошибка остановки")
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("hilald: не все рассылки завершены")
	}
	wg.Wait()
	logger.Info().Msg("hilald: остановлен")
}

// reloadOnHangup перечитывает окружение по SIGHUP и применяет новые настройки.
func reloadOnHangup(ctx context.Context, logger zerolog.Logger, svc *schedule.Service) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			cfg, err := config.Reload()
			if err != nil {
				logger.Error().Err(err).Msg("hilald: перечитать конфиг не удалось")
				continue
			}
			settings, err := cfg.Settings()
			if err == nil {
				err = svc.Configure(settings)
			}
			if err != nil {
				logger.Error().Err(err).Msg("hilald: новые настройки отклонены")
				continue
			}
			logger.Info().Str("method", string(settings.Method)).Msg("hilald: настройки обновлены")
		}
	}
}

package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	SchedulerTicks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_ticks_total",
		Help: "Количество тиков планировщика",
	})
	SchedulerTickLag = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_tick_gap_seconds",
		Help:    "Интервал между соседними тиками планировщика",
		Buckets: []float64{.5, .9, 1, 1.1, 1.5, 2, 5, 10, 30, 60, 300},
	})
	AdhanFired = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adhan_fired_total",
		Help: "Количество сработавших событий азана",
	}, []string{"prayer", "cause"})
	ScheduleRecomputes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_recomputes_total",
		Help: "Пересчёты дневного расписания",
	}, []string{"reason"})
	ScheduleErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_errors_total",
		Help: "Ошибки расчёта расписания",
	})

	DispatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_sink_total",
		Help: "Вызовы приёмников событий",
	}, []string{"sink", "status"})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 60},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		SchedulerTicks,
		SchedulerTickLag,
		AdhanFired,
		ScheduleRecomputes,
		ScheduleErrors,
		DispatchTotal,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	shutdownCtx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-ctx.Done():
		case <-shutdownCtx.Done():
		}
		shutdownTimeout, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
		cancel()
	}()
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := statusOf(err)
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveTick учитывает тик и интервал от предыдущего.
func ObserveTick(gap time.Duration) {
	SchedulerTicks.Inc()
	if gap > 0 {
		SchedulerTickLag.Observe(gap.Seconds())
	}
}

// IncFired увеличивает счётчик сработавших событий.
func IncFired(prayer, cause string) {
	AdhanFired.WithLabelValues(prayer, cause).Inc()
}

// IncRecompute учитывает пересчёт расписания с указанием причины.
func IncRecompute(reason string) {
	ScheduleRecomputes.WithLabelValues(reason).Inc()
}

// IncScheduleError учитывает неудачный расчёт.
func IncScheduleError() {
	ScheduleErrors.Inc()
}

// ObserveSink учитывает вызов приёмника события.
func ObserveSink(sink string, err error) {
	DispatchTotal.WithLabelValues(sink, statusOf(err)).Inc()
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

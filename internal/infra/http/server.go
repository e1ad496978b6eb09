package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"hilal/internal/adapters/repo"
	"hilal/internal/domain"
	"hilal/internal/usecase/schedule"
)

// ScheduleReader отдаёт расписание для API.
type ScheduleReader interface {
	Settings() domain.Settings
	Today(now time.Time) (domain.Schedule, error)
	ForDate(date domain.Date) (domain.Schedule, error)
	Next(now time.Time) (schedule.Upcoming, schedule.Remaining, error)
}

// HistoryReader отдаёт журнал разосланных азанов.
type HistoryReader interface {
	ListRecent(ctx context.Context, limit int) ([]repo.DispatchRecord, error)
}

// Server оборачивает chi.Router с базовыми middlewares.
type Server struct {
	Router   chi.Router
	log      zerolog.Logger
	schedule ScheduleReader
	history  HistoryReader
	token    string
	now      func() time.Time
	srv      *http.Server
}

type Option func(*Server)

// WithHistory включает /api/v1/history.
func WithHistory(history HistoryReader) Option {
	return func(s *Server) {
		s.history = history
	}
}

// WithToken защищает /api/v1 токеном.
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type prayerTimeResponse struct {
	Prayer    domain.Prayer `json:"prayer"`
	Available bool          `json:"available"`
	At        *time.Time    `json:"at,omitempty"`
	Display   string        `json:"display"`
}

type hijriResponse struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Day     int    `json:"day"`
	Display string `json:"display"`
}

type scheduleResponse struct {
	Date     domain.Date          `json:"date"`
	Hijri    *hijriResponse       `json:"hijri,omitempty"`
	Timezone string               `json:"timezone"`
	Method   domain.Method        `json:"method"`
	Madhab   domain.Madhab        `json:"madhab"`
	Times    []prayerTimeResponse `json:"times"`
}

type nextResponse struct {
	Prayer           domain.Prayer `json:"prayer"`
	Date             domain.Date   `json:"date"`
	At               time.Time     `json:"at"`
	Display          string        `json:"display"`
	RemainingSeconds int64         `json:"remaining_seconds"`
	Countdown        string        `json:"countdown"`
}

type historyResponse struct {
	Items []historyItem `json:"items"`
}

type historyItem struct {
	Date    domain.Date   `json:"date"`
	Prayer  domain.Prayer `json:"prayer"`
	FiredAt time.Time     `json:"fired_at"`
}

// NewServer создаёт HTTP сервер.
func NewServer(logger zerolog.Logger, reader ScheduleReader, opts ...Option) *Server {
	s := &Server{
		log:      logger.With().Str("component", "http").Logger(),
		schedule: reader,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	r.Group(func(api chi.Router) {
		api.Use(TokenAuthMiddleware(s.token))
		api.Get("/api/v1/schedule", s.handleSchedule)
		api.Get("/api/v1/next", s.handleNext)
		if s.history != nil {
			api.Get("/api/v1/history", s.handleHistory)
		}
	})
	s.Router = r
	return s
}

// Start запускает http.Server и блокируется до остановки.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	s.log.Info().Str("addr", addr).Msg("HTTP сервер запущен")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown позволяет корректно завершить работу.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var (
		sched domain.Schedule
		err   error
	)
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, perr := domain.ParseDate(raw)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		sched, err = s.schedule.ForDate(date)
	} else {
		sched, err = s.schedule.Today(s.now())
	}
	if err != nil {
		s.log.Error().Err(err).Msg("http: расчёт расписания")
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to compute schedule")
		return
	}
	settings := s.schedule.Settings()
	resp := scheduleResponse{
		Date:     sched.Date,
		Timezone: sched.Location.String(),
		Method:   settings.Method,
		Madhab:   settings.Madhab,
		Times:    make([]prayerTimeResponse, 0, domain.PrayerCount),
	}
	if h, err := schedule.HijriOf(sched.Date); err == nil {
		resp.Hijri = &hijriResponse{Year: h.Year, Month: h.Month, Day: h.Day, Display: h.Format(settings.Language)}
	} else {
		s.log.Warn().Err(err).Msg("http: дата по хиджре недоступна")
	}
	for _, p := range domain.AllPrayers {
		pt := sched.Times[p]
		item := prayerTimeResponse{
			Prayer:    p,
			Available: pt.Available,
			Display:   schedule.FormatPrayerTime(pt, settings.TimeFormat),
		}
		if pt.Available {
			at := pt.At
			item.At = &at
		}
		resp.Times = append(resp.Times, item)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNext(w http.ResponseWriter, _ *http.Request) {
	next, left, err := s.schedule.Next(s.now())
	if errors.Is(err, schedule.ErrNoUpcoming) {
		writeError(w, http.StatusNotFound, "no_upcoming", "no upcoming prayer time")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("http: поиск ближайшего намаза")
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to compute schedule")
		return
	}
	settings := s.schedule.Settings()
	writeJSON(w, http.StatusOK, nextResponse{
		Prayer:           next.Prayer,
		Date:             next.Date,
		At:               next.At,
		Display:          schedule.FormatClock(next.At, settings.TimeFormat),
		RemainingSeconds: int64(left.Total / time.Second),
		Countdown:        formatCountdown(left),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 500")
			return
		}
		limit = n
	}
	records, err := s.history.ListRecent(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("http: чтение журнала")
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to read history")
		return
	}
	resp := historyResponse{Items: make([]historyItem, 0, len(records))}
	for _, rec := range records {
		resp.Items = append(resp.Items, historyItem{Date: rec.Date, Prayer: rec.Prayer, FiredAt: rec.FiredAt})
	}
	writeJSON(w, http.StatusOK, resp)
}

func formatCountdown(left schedule.Remaining) string {
	pad := func(n int) string {
		if n < 10 {
			return "0" + strconv.Itoa(n)
		}
		return strconv.Itoa(n)
	}
	return pad(left.Hours) + ":" + pad(left.Minutes) + ":" + pad(left.Seconds)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

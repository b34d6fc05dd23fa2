package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DeafMist/flight-risk-radar/backend/internal/airports"
	"github.com/DeafMist/flight-risk-radar/backend/internal/app"
	"github.com/DeafMist/flight-risk-radar/backend/internal/brief"
	"github.com/DeafMist/flight-risk-radar/backend/internal/config"
	"github.com/DeafMist/flight-risk-radar/backend/internal/elasticsearch"
	"github.com/DeafMist/flight-risk-radar/backend/internal/logger"
	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
)

type briefComputer interface {
	ComputeRiskBrief(ctx context.Context, req brief.Request) (*models.RiskBrief, error)
}

type headlineStore interface {
	Health(ctx context.Context) error
	Search(ctx context.Context, params elasticsearch.SearchParams) (*elasticsearch.SearchResult, error)
}

func main() {
	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}
	providerCfg, err := config.LoadProviders(context.Background())
	if err != nil {
		log.Error("load provider config", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	wired, err := app.Build(ctx, providerCfg, esClient, log)
	if err != nil {
		log.Error("wire brief service", slog.Any("err", err))
		os.Exit(1)
	}

	srv := &server{log: log, cfg: cfg, briefs: wired.Service, airports: wired.Airports, es: esClient}

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.BriefTimeout + 5*time.Second,
	}

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

type server struct {
	log      *slog.Logger
	cfg      *config.API
	briefs   briefComputer
	airports *airports.Directory
	es       headlineStore
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/brief", s.handleBrief)
		r.Get("/airports", s.handleAirports)
		r.Get("/airports/{iata}", s.handleAirport)
		r.Get("/headlines", s.handleHeadlines)
	})
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.es.Health(ctx); err != nil {
		// Briefs still work without the index; report the degradation.
		writeJSON(w, http.StatusOK, map[string]string{"status": "degraded", "elasticsearch": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleBrief(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.BriefTimeout)
	defer cancel()

	q := r.URL.Query()
	req := brief.Request{
		FlightIata:    q.Get("flight"),
		Date:          q.Get("date"),
		DepIata:       q.Get("dep"),
		ArrIata:       q.Get("arr"),
		PassengerType: q.Get("passenger"),
	}
	if raw := strings.TrimSpace(q.Get("lead")); raw != "" {
		lead, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "lead must be an integer number of minutes"})
			return
		}
		req.TargetLeadMinutes = lead
	}

	result, err := s.briefs.ComputeRiskBrief(ctx, req)
	switch {
	case errors.Is(err, brief.ErrMissingField), errors.Is(err, brief.ErrInvalidField):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case err != nil:
		s.log.Error("compute brief", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleAirports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.airports.All())
}

func (s *server) handleAirport(w http.ResponseWriter, r *http.Request) {
	a, ok := s.airports.Lookup(chi.URLParam(r, "iata"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown airport"})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *server) handleHeadlines(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	params := elasticsearch.SearchParams{
		Query:    strings.TrimSpace(q.Get("q")),
		Keywords: parseCSV(q.Get("keywords")),
		Source:   strings.TrimSpace(q.Get("source")),
		From:     clampInt(q.Get("from"), 0, 10_000),
		Size:     clampInt(q.Get("size"), s.cfg.DefaultPage, s.cfg.MaxPage),
		Sort:     strings.TrimSpace(q.Get("sort")),
		Start:    parseTime(q.Get("start")),
		End:      parseTime(q.Get("end")),
	}

	result, err := s.es.Search(ctx, params)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func parseTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts
	}
	if d, err := time.Parse("2006-01-02", raw); err == nil {
		return &d
	}
	return nil
}

func parseCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

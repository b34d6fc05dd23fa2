// Package brief orchestrates the provider fetches and scorers behind one risk brief.
package brief

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/DeafMist/flight-risk-radar/backend/internal/checkpoint"
	"github.com/DeafMist/flight-risk-radar/backend/internal/logger"
	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
	"github.com/DeafMist/flight-risk-radar/backend/internal/processing"
	"github.com/DeafMist/flight-risk-radar/backend/internal/risk"
	"github.com/DeafMist/flight-risk-radar/backend/internal/scoring"
)

var (
	// ErrMissingField marks a request without a required identifier.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidField marks a request field that fails validation.
	ErrInvalidField = errors.New("invalid field")
)

const (
	dateLayout     = "2006-01-02"
	newsQueryLimit = 10
	precheckFactor = 0.5
)

// Passenger types.
const (
	PassengerStandard      = "standard"
	PassengerPrecheck      = "precheck"
	PassengerFamily        = "family"
	PassengerAccessibility = "accessibility"
)

var passengerLead = map[string]int{
	PassengerStandard:      120,
	PassengerPrecheck:      120,
	PassengerFamily:        150,
	PassengerAccessibility: 180,
}

var airlineNames = map[string]string{
	"AA": "American Airlines",
	"AS": "Alaska Airlines",
	"B6": "JetBlue",
	"DL": "Delta Air Lines",
	"F9": "Frontier Airlines",
	"HA": "Hawaiian Airlines",
	"NK": "Spirit Airlines",
	"UA": "United Airlines",
	"WN": "Southwest Airlines",
}

// Request identifies the flight and traveler a brief is computed for.
type Request struct {
	FlightIata string `json:"flightIata"`
	Date       string `json:"date"`
	DepIata    string `json:"depIata,omitempty"`
	ArrIata    string `json:"arrIata,omitempty"`
	// PassengerType is one of standard, precheck, family or accessibility; empty means standard.
	PassengerType     string `json:"passengerType,omitempty"`
	TargetLeadMinutes int    `json:"targetLeadMinutes,omitempty"`
}

// OperationsFetcher returns the live state of a flight.
type OperationsFetcher interface {
	FlightSnapshot(ctx context.Context, flightIata, date string) (*models.FlightOperationsSnapshot, error)
}

// WeatherFetcher returns a short-horizon forecast for an airport.
type WeatherFetcher interface {
	Forecast(ctx context.Context, iata string) (*models.AirportWeatherForecast, error)
}

// CheckpointResolver decides which evidence backs the checkpoint component.
type CheckpointResolver interface {
	Resolve(ctx context.Context, iata string) checkpoint.Resolution
}

// HeadlineSearcher runs a free-text news search.
type HeadlineSearcher interface {
	SearchHeadlines(ctx context.Context, query string, limit int) ([]models.NewsHeadline, error)
}

// Service computes risk briefs. Any collaborator may be nil, in which case its
// component degrades to the scorer's fallback.
type Service struct {
	ops        OperationsFetcher
	weather    WeatherFetcher
	checkpoint CheckpointResolver
	news       HeadlineSearcher
	aggregator *risk.Aggregator
	window     time.Duration
	log        *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithWeatherWindow overrides the forecast horizon.
func WithWeatherWindow(d time.Duration) Option {
	return func(s *Service) { s.window = d }
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService wires a Service. A nil aggregator uses the operational profile.
func NewService(ops OperationsFetcher, weather WeatherFetcher, cp CheckpointResolver, news HeadlineSearcher, agg *risk.Aggregator, opts ...Option) *Service {
	s := &Service{
		ops:        ops,
		weather:    weather,
		checkpoint: cp,
		news:       news,
		aggregator: agg,
		window:     scoring.DefaultWeatherWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.aggregator == nil {
		s.aggregator = risk.NewAggregator(risk.Operational)
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	return s
}

// Normalize validates req and fills in derived defaults.
func Normalize(req Request) (Request, error) {
	req.FlightIata = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(req.FlightIata), " ", ""))
	req.Date = strings.TrimSpace(req.Date)
	req.DepIata = strings.ToUpper(strings.TrimSpace(req.DepIata))
	req.ArrIata = strings.ToUpper(strings.TrimSpace(req.ArrIata))
	req.PassengerType = strings.ToLower(strings.TrimSpace(req.PassengerType))

	if req.FlightIata == "" {
		return req, fmt.Errorf("%w: flightIata", ErrMissingField)
	}
	if req.Date == "" {
		return req, fmt.Errorf("%w: date", ErrMissingField)
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return req, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrInvalidField, req.Date)
	}
	if req.DepIata != "" && !isIata(req.DepIata) {
		return req, fmt.Errorf("%w: depIata must be a 3-letter IATA code, got %q", ErrInvalidField, req.DepIata)
	}
	if req.ArrIata != "" && !isIata(req.ArrIata) {
		return req, fmt.Errorf("%w: arrIata must be a 3-letter IATA code, got %q", ErrInvalidField, req.ArrIata)
	}
	if req.PassengerType == "" {
		req.PassengerType = PassengerStandard
	}
	lead, ok := passengerLead[req.PassengerType]
	if !ok {
		return req, fmt.Errorf("%w: unknown passengerType %q", ErrInvalidField, req.PassengerType)
	}
	if req.TargetLeadMinutes < 0 {
		return req, fmt.Errorf("%w: targetLeadMinutes cannot be negative", ErrInvalidField)
	}
	if req.TargetLeadMinutes == 0 {
		req.TargetLeadMinutes = lead
	}
	return req, nil
}

// ComputeRiskBrief fuses every available signal into a brief. Only caller errors are returned;
// upstream failures degrade to fallback scores.
func (s *Service) ComputeRiskBrief(ctx context.Context, req Request) (*models.RiskBrief, error) {
	req, err := Normalize(req)
	if err != nil {
		return nil, err
	}
	log := s.log.With(slog.String("flight", req.FlightIata), slog.String("date", req.Date))

	snap := s.fetchOperations(ctx, req, log)
	dep, arr := req.DepIata, req.ArrIata
	if snap != nil {
		if dep == "" {
			dep = strings.ToUpper(snap.Departure.Iata)
		}
		if arr == "" {
			arr = strings.ToUpper(snap.Arrival.Iata)
		}
	}

	var (
		wg         sync.WaitGroup
		weatherDep scoring.Signal
		weatherArr scoring.Signal
		tsa        scoring.Signal
		news       scoring.Signal
	)
	wg.Add(4)
	go func() {
		defer wg.Done()
		weatherDep = scoring.ScoreWeather(dep, s.fetchForecast(ctx, dep, log), s.window)
	}()
	go func() {
		defer wg.Done()
		weatherArr = scoring.ScoreWeather(arr, s.fetchForecast(ctx, arr, log), s.window)
	}()
	go func() {
		defer wg.Done()
		tsa = s.scoreCheckpoint(ctx, dep, req)
	}()
	go func() {
		defer wg.Done()
		news = scoring.ScoreNews(s.searchNews(ctx, req.FlightIata, dep, arr, log))
	}()
	wg.Wait()

	brief := s.aggregator.Assemble(risk.BriefMeta{
		FlightIata: req.FlightIata,
		Date:       req.Date,
		DepIata:    dep,
		ArrIata:    arr,
	}, map[models.ComponentKey]scoring.Signal{
		models.ComponentOps:        scoring.ScoreOperations(snap),
		models.ComponentWeatherDep: weatherDep,
		models.ComponentWeatherArr: weatherArr,
		models.ComponentTSA:        tsa,
		models.ComponentNews:       news,
	})

	log.Info("brief computed",
		slog.Float64("score", brief.RiskScore),
		slog.String("tier", string(brief.Tier)),
	)
	return brief, nil
}

func (s *Service) fetchOperations(ctx context.Context, req Request, log *slog.Logger) *models.FlightOperationsSnapshot {
	if s.ops == nil {
		return nil
	}
	snap, err := s.ops.FlightSnapshot(ctx, req.FlightIata, req.Date)
	if err != nil {
		log.Warn("flight status unavailable", slog.Any("err", err))
		return nil
	}
	return snap
}

func (s *Service) fetchForecast(ctx context.Context, iata string, log *slog.Logger) *models.AirportWeatherForecast {
	if s.weather == nil || iata == "" {
		return nil
	}
	forecast, err := s.weather.Forecast(ctx, iata)
	if err != nil {
		log.Warn("forecast unavailable", slog.String("iata", iata), slog.Any("err", err))
		return nil
	}
	return forecast
}

func (s *Service) scoreCheckpoint(ctx context.Context, dep string, req Request) scoring.Signal {
	if s.checkpoint == nil || dep == "" {
		return checkpoint.Score(checkpoint.Unavailable{}, req.TargetLeadMinutes)
	}
	res := s.checkpoint.Resolve(ctx, dep)
	if req.PassengerType == PassengerPrecheck {
		res = checkpoint.ScaleWaits(res, precheckFactor)
	}
	return checkpoint.Score(res, req.TargetLeadMinutes)
}

func (s *Service) searchNews(ctx context.Context, flight, dep, arr string, log *slog.Logger) []string {
	if s.news == nil {
		return nil
	}
	var all []models.NewsHeadline
	for _, q := range NewsQueries(flight, dep, arr) {
		hits, err := s.news.SearchHeadlines(ctx, q, newsQueryLimit)
		if err != nil {
			log.Warn("news search failed", slog.String("query", q), slog.Any("err", err))
			continue
		}
		all = append(all, hits...)
	}

	deduped := processing.DedupeHeadlines(all)
	titles := make([]string, 0, len(deduped))
	for _, h := range deduped {
		titles = append(titles, h.Title)
	}
	return titles
}

// NewsQueries lists the disruption searches for a flight: the airline when its designator
// is known, then each endpoint airport.
func NewsQueries(flight, dep, arr string) []string {
	var queries []string
	if len(flight) >= 2 {
		if name, ok := airlineNames[flight[:2]]; ok {
			queries = append(queries, name+" strike OR outage OR cancellations")
		}
	}
	for _, iata := range []string{dep, arr} {
		if iata != "" {
			queries = append(queries, iata+" airport delays OR disruption")
		}
	}
	return queries
}

func isIata(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Package server is the HTTP layer: routing, request plumbing, and the
// translation between wire requests and the recommendation engine.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cropadvisor/internal/agri"
	"cropadvisor/internal/engine"
	"cropadvisor/internal/market"
	"cropadvisor/internal/narrative"
	"cropadvisor/internal/weather"
)

// WeatherFetcher provides live conditions for a coordinate.
type WeatherFetcher interface {
	FetchSnapshot(ctx context.Context, lat, lon float64) (weather.Snapshot, error)
}

// PriceFetcher provides live commodity quotes for a state.
type PriceFetcher interface {
	Fetch(ctx context.Context, state string, crops []string) (market.PriceMap, error)
}

// Server wires the collaborators behind the HTTP API. Either fetcher
// may be nil: the engine then runs on neutral weather and no prices.
type Server struct {
	db      agri.Database
	engine  *engine.Engine
	weather WeatherFetcher
	prices  PriceFetcher
	gen     narrative.Generator
	metrics *Metrics
}

// New assembles a server. gen is only probed for /api/llm-status; the
// engine holds its own reference through its augmenter.
func New(db agri.Database, eng *engine.Engine, wf WeatherFetcher, pf PriceFetcher, gen narrative.Generator, m *Metrics) *Server {
	return &Server{db: db, engine: eng, weather: wf, prices: pf, gen: gen, metrics: m}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/recommendations", s.handleRecommendations)
	mux.HandleFunc("/api/weather", s.handleWeather)
	mux.HandleFunc("/api/commodity-prices", s.handleCommodityPrices)
	mux.HandleFunc("/api/crop-info/", s.handleCropInfo)
	mux.HandleFunc("/api/regional-info/", s.handleRegionalInfo)
	mux.HandleFunc("/api/llm-status", s.handleLLMStatus)
	mux.Handle("/metrics", promhttp.Handler())

	return corsMiddleware(requestIDMiddleware(mux))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type healthResponse struct {
	Status        string `json:"status"`
	ReferenceData string `json:"reference_data"`
	Timestamp     string `json:"timestamp"`
	Crops         int    `json:"crops"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	crops, err := s.db.Crops()
	if err != nil {
		resp.Status = "error"
		resp.ReferenceData = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.ReferenceData = "available"
	resp.Crops = len(crops)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var q engine.FarmerQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	start := time.Now()
	res, err := s.engine.Recommend(r.Context(), q, s.fetchWeather(r.Context(), &q), s.fetchPrices(r.Context(), q))
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrDataUnavailable):
			s.count("unavailable")
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			s.count("rejected")
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	s.count("ok")
	if s.metrics != nil {
		s.metrics.RecommendDuration.Observe(time.Since(start).Seconds())
		s.metrics.NarrativeSource.WithLabelValues(string(res.NarrativeSource)).Inc()
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) count(outcome string) {
	if s.metrics != nil {
		s.metrics.Recommendations.WithLabelValues(outcome).Inc()
	}
}

// fetchWeather returns nil when no live snapshot can be obtained; the
// engine substitutes neutral conditions and records the degradation.
func (s *Server) fetchWeather(ctx context.Context, q *engine.FarmerQuery) *weather.Snapshot {
	if s.weather == nil {
		return nil
	}
	snap, err := s.weather.FetchSnapshot(ctx, q.Location.Latitude, q.Location.Longitude)
	if err != nil {
		log.Printf("weather fetch failed: %v", err)
		return nil
	}
	return &snap
}

func (s *Server) fetchPrices(ctx context.Context, q engine.FarmerQuery) market.PriceMap {
	if s.prices == nil {
		return nil
	}
	crops, err := s.db.Crops()
	if err != nil {
		return nil
	}
	names := make([]string, len(crops))
	for i, c := range crops {
		names[i] = c.Name
	}
	prices, err := s.prices.Fetch(ctx, q.Location.State, names)
	if err != nil {
		log.Printf("price fetch failed: %v", err)
		return nil
	}
	return prices
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeError(w, http.StatusBadRequest, "lat and lon required")
		return
	}

	var snap weather.Snapshot
	if s.weather != nil {
		fetched, err := s.weather.FetchSnapshot(r.Context(), lat, lon)
		if err != nil {
			log.Printf("weather fetch failed: %v", err)
			snap = weather.Neutral(time.Now())
		} else {
			snap = fetched
		}
	} else {
		snap = weather.Neutral(time.Now())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot": snap,
		"summary":  weather.Summarize(snap),
	})
}

func (s *Server) handleCommodityPrices(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		writeError(w, http.StatusBadRequest, "state required")
		return
	}
	if !agri.KnownState(state) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown state %q", state))
		return
	}

	q := engine.FarmerQuery{}
	q.Location.State = state
	prices := s.fetchPrices(r.Context(), q)

	writeJSON(w, http.StatusOK, map[string]any{
		"state":    state,
		"prices":   prices,
		"analysis": market.Analyze(prices),
	})
}

func (s *Server) handleCropInfo(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/crop-info/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "crop name required")
		return
	}

	crop, err := s.db.Crop(name)
	if errors.Is(err, agri.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown crop %q", name))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, crop)
}

func (s *Server) handleRegionalInfo(w http.ResponseWriter, r *http.Request) {
	state := strings.TrimPrefix(r.URL.Path, "/api/regional-info/")
	if state == "" || strings.Contains(state, "/") {
		writeError(w, http.StatusBadRequest, "state required")
		return
	}

	region, err := s.db.Region(state)
	if errors.Is(err, agri.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no regional data for %q", state))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, region)
}

func (s *Server) handleLLMStatus(w http.ResponseWriter, r *http.Request) {
	available := s.gen != nil && s.gen.Available(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"available": available,
		"fallback":  "template",
	})
}

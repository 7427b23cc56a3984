package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"volley-rank/internal/metrics"
	"volley-rank/internal/middleware"
	"volley-rank/internal/service"
)

const APIPrefix = "/api/v1"

type RankingServer struct {
	standings *service.StandingsService
	data      *service.DataService
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

func NewRankingServer(standings *service.StandingsService, data *service.DataService, m *metrics.Metrics, logger zerolog.Logger) *RankingServer {
	return &RankingServer{standings: standings, data: data, metrics: m, logger: logger}
}

type statsResponse struct {
	service.Overview
	Sources service.SourceStatus `json:"sources"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func list[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Count: len(items)}
}

// Routes mounts the read API, health check and metrics endpoint.
func (s *RankingServer) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID(s.logger))
	r.Use(middleware.Metrics(s.metrics))

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route(APIPrefix, func(r chi.Router) {
		r.Get("/stats", s.stats)
		r.Get("/divisions", s.divisions)
		r.Get("/regions", s.regions)
		r.Get("/tournaments", s.tournaments)
		r.Get("/rankings", s.rankings)
		r.Get("/teams", s.searchTeams)
		r.Get("/teams/{name}", s.team)
		r.Get("/analysis", s.analysis)
		r.Get("/medals", s.medals)
		r.Post("/admin/reload", s.reload)
	})
	return r
}

func (s *RankingServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *RankingServer) stats(w http.ResponseWriter, r *http.Request) {
	sources, err := s.data.Sources(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to read source status")
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, r, http.StatusOK, statsResponse{Overview: s.standings.Overview(), Sources: sources})
}

func (s *RankingServer) divisions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, list(s.standings.Overview().Divisions))
}

func (s *RankingServer) regions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, list(s.standings.Regions()))
}

func (s *RankingServer) tournaments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, list(s.standings.Tournaments()))
}

func (s *RankingServer) rankings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, r, http.StatusOK, s.standings.Board(q.Get("division"), q.Get("region")))
}

func (s *RankingServer) searchTeams(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, r, http.StatusBadRequest, "query parameter q is required")
		return
	}
	writeJSON(w, r, http.StatusOK, list(s.standings.Search(query)))
}

func (s *RankingServer) team(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid team name")
		return
	}

	detail, err := s.standings.Team(name)
	if errors.Is(err, service.ErrTeamNotFound) {
		writeError(w, r, http.StatusNotFound, "team not found")
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("team", name).Msg("failed to load team")
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, r, http.StatusOK, detail)
}

func (s *RankingServer) analysis(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, r, http.StatusOK, s.standings.Analysis(q.Get("division"), q.Get("region")))
}

func (s *RankingServer) medals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, r, http.StatusOK, list(s.standings.Medals(q.Get("division"), q.Get("region"))))
}

func (s *RankingServer) reload(w http.ResponseWriter, r *http.Request) {
	summary, err := s.data.Reload(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("reload failed")
		writeError(w, r, http.StatusBadGateway, "reload failed, previous data kept")
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{
		Error:     msg,
		RequestID: middleware.GetRequestID(r.Context()),
	})
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"swyftx-slam/internal/config"
	"swyftx-slam/internal/domain"
	"swyftx-slam/internal/middleware"
	"swyftx-slam/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// LadderServer adapts the ladder services to a JSON HTTP API.
type LadderServer struct {
	playerSvc      *service.PlayerService
	matchSvc       *service.MatchService
	matchDetailSvc *service.MatchDetailService
	roundSvc       *service.RoundService
	seasonSvc      *service.SeasonService
	feed           *Feed
	cfg            *config.Config
}

func NewLadderServer(
	playerSvc *service.PlayerService,
	matchSvc *service.MatchService,
	matchDetailSvc *service.MatchDetailService,
	roundSvc *service.RoundService,
	seasonSvc *service.SeasonService,
	feed *Feed,
	cfg *config.Config,
) *LadderServer {
	return &LadderServer{
		playerSvc:      playerSvc,
		matchSvc:       matchSvc,
		matchDetailSvc: matchDetailSvc,
		roundSvc:       roundSvc,
		seasonSvc:      seasonSvc,
		feed:           feed,
		cfg:            cfg,
	}
}

func (s *LadderServer) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	if s.feed != nil {
		router.Handle("/ws/feed", s.feed).Methods("GET")
	}

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/leaderboard", s.Leaderboard).Methods("GET")
	api.HandleFunc("/players", s.RegisterPlayer).Methods("POST")
	api.HandleFunc("/players/{id:[0-9]+}", s.GetPlayer).Methods("GET")
	api.HandleFunc("/players/{id:[0-9]+}/history", s.PlayerHistory).Methods("GET")
	api.HandleFunc("/players/{id:[0-9]+}/matches", s.PlayerMatches).Methods("GET")
	api.HandleFunc("/matches", s.RecentMatches).Methods("GET")
	api.HandleFunc("/matches", s.RecordMatch).Methods("POST")
	api.HandleFunc("/pairings", s.CurrentRound).Methods("GET")
	api.HandleFunc("/seasons", s.ListSeasons).Methods("GET")
	api.HandleFunc("/seasons/current", s.CurrentSeason).Methods("GET")

	admin := api.NewRoute().Subrouter()
	admin.Use(middleware.AdminToken(s.cfg.AdminToken))
	admin.HandleFunc("/matches/{id:[0-9]+}", s.UndoMatch).Methods("DELETE")
	admin.HandleFunc("/force-pairings", s.ForcePairings).Methods("POST")
	admin.HandleFunc("/seasons", s.StartSeason).Methods("POST")
	admin.HandleFunc("/seasons/end", s.EndSeason).Methods("POST")
	admin.HandleFunc("/players/{id:[0-9]+}", s.UpdatePlayer).Methods("PATCH")

	return router
}

func (s *LadderServer) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.playerSvc.Leaderboard(r.Context(), queryInt(r, "limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]leaderboardEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = leaderboardEntryResponse{Rank: e.Rank, Badge: e.Badge, Player: toPlayerResponse(&e.Player)}
	}
	writeJSON(w, http.StatusOK, resp)
}

type registerPlayerRequest struct {
	Name    string `json:"name"`
	SlackID string `json:"slack_id"`
}

func (s *LadderServer) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req registerPlayerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	player, err := s.playerSvc.Register(r.Context(), req.Name, req.SlackID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlayerResponse(player))
}

func (s *LadderServer) GetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := s.playerSvc.Get(r.Context(), pathID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlayerResponse(player))
}

type updatePlayerRequest struct {
	Active *bool `json:"active"`
}

func (s *LadderServer) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var req updatePlayerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Active == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "active is required"})
		return
	}

	player, err := s.playerSvc.SetActive(r.Context(), pathID(r), *req.Active)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlayerResponse(player))
}

func (s *LadderServer) PlayerHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.playerSvc.History(r.Context(), pathID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]historyResponse, len(history))
	for i, h := range history {
		resp[i] = historyResponse{ID: h.ID, Rating: h.Rating, MatchID: h.MatchID, RecordedAt: h.RecordedAt}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *LadderServer) PlayerMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.matchDetailSvc.ForPlayer(r.Context(), pathID(r), queryInt(r, "limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMatchSummaries(matches))
}

func (s *LadderServer) RecentMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.matchDetailSvc.Recent(r.Context(), queryInt(r, "limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMatchSummaries(matches))
}

type recordMatchRequest struct {
	WinnerID    *int `json:"winner_id"`
	LoserID     *int `json:"loser_id"`
	WinnerScore *int `json:"winner_score"`
	LoserScore  *int `json:"loser_score"`
}

// missing names the first absent field, or returns "" when all are set.
func (req recordMatchRequest) missing() string {
	switch {
	case req.WinnerID == nil:
		return "winner_id"
	case req.LoserID == nil:
		return "loser_id"
	case req.WinnerScore == nil:
		return "winner_score"
	case req.LoserScore == nil:
		return "loser_score"
	}
	return ""
}

func (s *LadderServer) RecordMatch(w http.ResponseWriter, r *http.Request) {
	var req recordMatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if field := req.missing(); field != "" {
		writeError(w, r, fmt.Errorf("%w: %s", domain.ErrMissingField, field))
		return
	}

	result, err := s.matchSvc.RecordMatch(r.Context(), *req.WinnerID, *req.LoserID, *req.WinnerScore, *req.LoserScore)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := recordMatchResponse{
		Match:  toMatchResponse(result.Match),
		Winner: toPlayerResponse(result.Winner),
		Loser:  toPlayerResponse(result.Loser),
	}
	resp.Match.WinnerName = result.Winner.Name
	resp.Match.LoserName = result.Loser.Name
	if result.Pairing != nil {
		resp.PairingID = &result.Pairing.ID
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *LadderServer) UndoMatch(w http.ResponseWriter, r *http.Request) {
	match, err := s.matchSvc.UndoMatch(r.Context(), pathID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponse(match))
}

func (s *LadderServer) CurrentRound(w http.ResponseWriter, r *http.Request) {
	view, err := s.roundSvc.CurrentRound(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoundView(*view))
}

func (s *LadderServer) ForcePairings(w http.ResponseWriter, r *http.Request) {
	result, err := s.roundSvc.GenerateRound(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := generateRoundResponse{
		roundViewResponse: toRoundView(result.RoundView),
		Number:            result.Number,
		LeagueCompleted:   result.LeagueCompleted,
		Reused:            result.Reused,
	}
	if result.Dropped != nil {
		dropped := toPlayerResponse(result.Dropped)
		resp.Dropped = &dropped
	}

	status := http.StatusCreated
	if result.LeagueCompleted || result.Reused {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (s *LadderServer) ListSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := s.seasonSvc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]seasonResponse, len(seasons))
	for i := range seasons {
		resp[i] = toSeasonResponse(&seasons[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *LadderServer) CurrentSeason(w http.ResponseWriter, r *http.Request) {
	season, err := s.seasonSvc.Current(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSeasonResponse(season))
}

type startSeasonRequest struct {
	Name         string `json:"name"`
	ResetRatings bool   `json:"reset_ratings"`
}

func (s *LadderServer) StartSeason(w http.ResponseWriter, r *http.Request) {
	var req startSeasonRequest
	if !decodeBody(w, r, &req) {
		return
	}

	season, err := s.seasonSvc.StartSeason(r.Context(), req.Name, req.ResetRatings)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSeasonResponse(season))
}

func (s *LadderServer) EndSeason(w http.ResponseWriter, r *http.Request) {
	season, err := s.seasonSvc.EndSeason(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSeasonResponse(season))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrStateConflict):
		status = http.StatusConflict
	}

	logger := zerolog.Ctx(r.Context())
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}

	logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// pathID reads the {id} route variable; the route pattern guarantees digits.
func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

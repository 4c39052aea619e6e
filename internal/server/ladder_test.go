package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"swyftx-slam/internal/config"
	"swyftx-slam/internal/db"
	"swyftx-slam/internal/repository"
	"swyftx-slam/internal/service"
	"swyftx-slam/internal/testutil"
	"swyftx-slam/internal/trashtalk"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminToken = "s3cret"

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cfg := testutil.Config()
	cfg.AdminToken = adminToken
	return newTestServerWithConfig(t, cfg)
}

func newTestServerWithConfig(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	sqlDB := testutil.NewDB(t)
	logger := zerolog.Nop()
	store := repository.NewStore(sqlDB, db.New(sqlDB), logger)

	srv := NewLadderServer(
		service.NewPlayerService(store, cfg, logger),
		service.NewMatchService(store, nil, trashtalk.NewWithSeed(1), logger),
		service.NewMatchDetailService(store, logger),
		service.NewRoundService(store, cfg, nil, logger),
		service.NewSeasonService(store, cfg, nil, logger),
		NewFeed(logger),
		cfg,
	)
	return srv.Router()
}

func do(t *testing.T, h http.Handler, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if admin {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func register(t *testing.T, h http.Handler, name string) playerResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/players", registerPlayerRequest{Name: name}, false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[playerResponse](t, rec)
}

func matchBody(winnerID, loserID, winnerScore, loserScore int) map[string]int {
	return map[string]int{
		"winner_id":    winnerID,
		"loser_id":     loserID,
		"winner_score": winnerScore,
		"loser_score":  loserScore,
	}
}

func TestRecordMatchRequiresEveryField(t *testing.T) {
	h := newTestServer(t)
	alice := register(t, h, "Alice")
	bob := register(t, h, "Bob")

	for _, field := range []string{"winner_id", "loser_id", "winner_score", "loser_score"} {
		t.Run(field, func(t *testing.T) {
			body := matchBody(alice.ID, bob.ID, 11, 0)
			delete(body, field)

			rec := do(t, h, http.MethodPost, "/api/matches", body, false)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode[errorResponse](t, rec).Error, field)
		})
	}

	rec := do(t, h, http.MethodGet, "/api/matches", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]matchResponse](t, rec))

	// an explicit zero is a real score
	rec = do(t, h, http.MethodPost, "/api/matches", matchBody(alice.ID, bob.ID, 11, 0), false)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestForcePairingsDebounce(t *testing.T) {
	cfg := testutil.Config()
	cfg.AdminToken = adminToken
	cfg.RoundDebounce = time.Minute
	h := newTestServerWithConfig(t, cfg)
	register(t, h, "A")
	register(t, h, "B")

	rec := do(t, h, http.MethodPost, "/api/force-pairings", nil, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[generateRoundResponse](t, rec)

	rec = do(t, h, http.MethodPost, "/api/force-pairings", nil, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	again := decode[generateRoundResponse](t, rec)
	assert.True(t, again.Reused)
	assert.Equal(t, first.Round.ID, again.Round.ID)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPlayersAndLeaderboard(t *testing.T) {
	h := newTestServer(t)

	alice := register(t, h, "Alice")
	assert.Equal(t, 1250, alice.Rating)
	register(t, h, "Bob")

	rec := do(t, h, http.MethodPost, "/api/players", registerPlayerRequest{Name: ""}, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/players/%d", alice.ID), nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice", decode[playerResponse](t, rec).Name)

	rec = do(t, h, http.MethodGet, "/api/players/999", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/leaderboard", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[[]leaderboardEntryResponse](t, rec)
	require.Len(t, board, 2)
	assert.Equal(t, 1, board[0].Rank)
	assert.NotEmpty(t, board[0].Badge)
	assert.NotEmpty(t, board[1].Badge)
}

func TestRecordAndUndoMatch(t *testing.T) {
	h := newTestServer(t)
	alice := register(t, h, "Alice")
	bob := register(t, h, "Bob")

	rec := do(t, h, http.MethodPost, "/api/matches", matchBody(alice.ID, alice.ID, 11, 3), false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/matches", matchBody(alice.ID, bob.ID, 11, 3), false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	recorded := decode[recordMatchResponse](t, rec)
	assert.Equal(t, 30, recorded.Match.RatingChange)
	assert.Equal(t, 1280, recorded.Winner.Rating)
	assert.Equal(t, 1220, recorded.Loser.Rating)
	assert.Nil(t, recorded.PairingID)

	rec = do(t, h, http.MethodGet, "/api/matches", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	matches := decode[[]matchResponse](t, rec)
	require.Len(t, matches, 1)
	assert.Equal(t, "Alice", matches[0].WinnerName)

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/players/%d/history", bob.ID), nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]historyResponse](t, rec), 1)

	path := fmt.Sprintf("/api/matches/%d", recorded.Match.ID)
	rec = do(t, h, http.MethodDelete, path, nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodDelete, path, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodDelete, path, nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/players/%d/matches", alice.ID), nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]matchResponse](t, rec))
}

func TestForcePairingsAndCurrentRound(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/pairings", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[roundViewResponse](t, rec)
	assert.Nil(t, empty.Round)
	assert.Empty(t, empty.Pairings)

	rec = do(t, h, http.MethodPost, "/api/force-pairings", nil, true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	register(t, h, "A")
	register(t, h, "B")
	register(t, h, "C")

	rec = do(t, h, http.MethodPost, "/api/force-pairings", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/force-pairings", nil, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	generated := decode[generateRoundResponse](t, rec)
	assert.Equal(t, 1, generated.Number)
	assert.NotNil(t, generated.Dropped)
	assert.Len(t, generated.Pairings, 1)

	rec = do(t, h, http.MethodGet, "/api/pairings", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	current := decode[roundViewResponse](t, rec)
	require.NotNil(t, current.Round)
	assert.Equal(t, generated.Round.ID, current.Round.ID)
}

func TestSeasons(t *testing.T) {
	h := newTestServer(t)
	register(t, h, "A")

	rec := do(t, h, http.MethodGet, "/api/seasons/current", nil, false)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/seasons/end", nil, true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/seasons", startSeasonRequest{Name: "Summer Smash"}, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/seasons", startSeasonRequest{Name: "Summer Smash", ResetRatings: true}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	started := decode[seasonResponse](t, rec)
	assert.Equal(t, "summer-smash", started.Slug)
	assert.Equal(t, "active", started.Status)

	rec = do(t, h, http.MethodGet, "/api/seasons/current", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, started.ID, decode[seasonResponse](t, rec).ID)

	rec = do(t, h, http.MethodPost, "/api/seasons/end", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	ended := decode[seasonResponse](t, rec)
	assert.Equal(t, "completed", ended.Status)
	assert.NotNil(t, ended.ChampionID)

	rec = do(t, h, http.MethodGet, "/api/seasons", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]seasonResponse](t, rec), 1)
}

func TestUpdatePlayerActive(t *testing.T) {
	h := newTestServer(t)
	alice := register(t, h, "Alice")
	path := fmt.Sprintf("/api/players/%d", alice.ID)

	rec := do(t, h, http.MethodPatch, path, map[string]bool{"active": false}, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPatch, path, map[string]any{}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPatch, path, map[string]bool{"active": false}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[playerResponse](t, rec).Active)

	rec = do(t, h, http.MethodPatch, "/api/players/999", map[string]bool{"active": true}, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"swyftx-slam/internal/db"
	"swyftx-slam/internal/domain"
	"swyftx-slam/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	sqlDB := testutil.NewDB(t)
	return NewStore(sqlDB, db.New(sqlDB), zerolog.Nop())
}

func TestPlayerRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	players := store.Reader().Players
	now := time.Now().UTC().Truncate(time.Second)

	created, err := players.Create(ctx, "Alice", "U123", 1250, "Silver", now)
	require.NoError(t, err)
	assert.Equal(t, "Alice", created.Name)
	assert.Equal(t, "U123", created.SlackID)
	assert.Equal(t, 1250, created.Rating)
	assert.True(t, created.Active)
	assert.True(t, created.CreatedAt.Equal(now))

	bySlack, err := players.GetBySlackID(ctx, "U123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlack.ID)

	_, err = players.Create(ctx, "Alice again", "U123", 1250, "Silver", now)
	assert.ErrorIs(t, err, domain.ErrDuplicatePlayer)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// players without a slack id do not collide with each other
	_, err = players.Create(ctx, "Bob", "", 1250, "Silver", now)
	require.NoError(t, err)
	_, err = players.Create(ctx, "Carol", "", 1250, "Silver", now)
	require.NoError(t, err)

	_, err = players.Get(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlayerRepository_RosterOrderAndActive(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	players := store.Reader().Players
	now := time.Now().UTC()

	a, err := players.Create(ctx, "A", "", 1200, "Silver", now)
	require.NoError(t, err)
	b, err := players.Create(ctx, "B", "", 1300, "Gold", now)
	require.NoError(t, err)
	c, err := players.Create(ctx, "C", "", 1200, "Silver", now)
	require.NoError(t, err)

	roster, err := players.Roster(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 3)
	assert.Equal(t, []int{b.ID, a.ID, c.ID}, []int{roster[0].ID, roster[1].ID, roster[2].ID})

	require.NoError(t, players.SetActive(ctx, a.ID, false, now))
	roster, err = players.Roster(ctx)
	require.NoError(t, err)
	assert.Len(t, roster, 2)

	all, err := players.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	err = players.SetActive(ctx, 999, true, now)
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)

	top, err := players.Top(ctx)
	require.NoError(t, err)
	require.NotNil(t, top)
	assert.Equal(t, b.ID, top.ID)
}

func TestPlayerRepository_TopEmpty(t *testing.T) {
	top, err := newStore(t).Reader().Players.Top(context.Background())
	require.NoError(t, err)
	assert.Nil(t, top)
}

func TestPlayerRepository_UpdateStandingAndReset(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	players := store.Reader().Players
	now := time.Now().UTC()

	p, err := players.Create(ctx, "A", "", 1250, "Silver", now)
	require.NoError(t, err)

	p.Rating = 1310
	p.Tier = "Diamond"
	p.Wins = 3
	p.Losses = 1
	require.NoError(t, players.UpdateStanding(ctx, p))

	got, err := players.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1310, got.Rating)
	assert.Equal(t, 3, got.Wins)
	assert.Equal(t, 1, got.Losses)

	require.NoError(t, players.ResetAll(ctx, 1250, "Silver", now))
	got, err = players.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1250, got.Rating)
	assert.Equal(t, "Silver", got.Tier)
	assert.Zero(t, got.Wins)
	assert.Zero(t, got.Losses)
}

func TestStore_InTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	boom := errors.New("boom")

	err := store.InTx(ctx, func(tx *Tx) error {
		if _, err := tx.Players.Create(ctx, "Ghost", "", 1250, "Silver", time.Now().UTC()); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := store.Reader().Players.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMatchAndHistoryRepositories(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	now := time.Now().UTC()

	var match *domain.Match
	err := store.InTx(ctx, func(tx *Tx) error {
		w, err := tx.Players.Create(ctx, "Winner", "", 1250, "Silver", now)
		if err != nil {
			return err
		}
		l, err := tx.Players.Create(ctx, "Loser", "", 1250, "Silver", now)
		if err != nil {
			return err
		}
		match, err = tx.Matches.Create(ctx, &domain.Match{
			WinnerID:     w.ID,
			LoserID:      l.ID,
			WinnerScore:  11,
			LoserScore:   7,
			RatingChange: 30,
			LoserChange:  -30,
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}
		return tx.History.AppendBatch(ctx, []domain.RatingHistory{
			{PlayerID: w.ID, Rating: 1280, MatchID: &match.ID, RecordedAt: now},
			{PlayerID: l.ID, Rating: 1220, MatchID: &match.ID, RecordedAt: now},
		})
	})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, 30, match.RatingChange)
	assert.Equal(t, -30, match.LoserChange)
	assert.Nil(t, match.RoundID)

	reader := store.Reader()

	recent, err := reader.Matches.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Winner", recent[0].WinnerName)
	assert.Equal(t, "Loser", recent[0].LoserName)

	forLoser, err := reader.Matches.ForPlayer(ctx, match.LoserID, 10)
	require.NoError(t, err)
	assert.Len(t, forLoser, 1)

	history, err := reader.History.ForPlayer(ctx, match.WinnerID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.NotEmpty(t, history[0].ID)
	assert.Equal(t, 1280, history[0].Rating)

	n, err := reader.History.CountForMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	deleted, err := reader.History.DeleteForMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	require.NoError(t, reader.Matches.Delete(ctx, match.ID))
	_, err = reader.Matches.Get(ctx, match.ID)
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)
}

func TestRoundRepository_Pairings(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	reader := store.Reader()
	now := time.Now().UTC()

	var ids []int
	for _, name := range []string{"A", "B", "C", "D"} {
		p, err := reader.Players.Create(ctx, name, "", 1250, "Silver", now)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	round, err := reader.Rounds.Create(ctx, nil, now, now)
	require.NoError(t, err)
	assert.Equal(t, domain.RoundActive, round.Status)
	assert.Nil(t, round.SeasonID)

	err = reader.Rounds.CreatePairings(ctx, round.ID, []Matchup{
		{Player1ID: ids[0], Player2ID: ids[1]},
		{Player1ID: ids[2], Player2ID: ids[3]},
	}, now)
	require.NoError(t, err)

	details, err := reader.Rounds.Pairings(ctx, round.ID)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "A", details[0].Player1Name)
	assert.Equal(t, "B", details[0].Player2Name)

	// reversed order still finds the pairing
	open, err := reader.Rounds.OpenPairing(ctx, round.ID, ids[1], ids[0])
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.True(t, open.Involves(ids[0], ids[1]))

	none, err := reader.Rounds.OpenPairing(ctx, round.ID, ids[0], ids[2])
	require.NoError(t, err)
	assert.Nil(t, none)

	match, err := reader.Matches.Create(ctx, &domain.Match{
		WinnerID: ids[1], LoserID: ids[0], WinnerScore: 11, LoserScore: 5,
		RatingChange: 30, LoserChange: -30, RoundID: &round.ID, CreatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, reader.Rounds.CompletePairing(ctx, open.ID, match.ID))

	completed, err := reader.Rounds.GetPairing(ctx, open.ID)
	require.NoError(t, err)
	assert.True(t, completed.Completed)
	require.NotNil(t, completed.MatchID)
	assert.Equal(t, match.ID, *completed.MatchID)

	reset, err := reader.Rounds.ResetPairingsForMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reset)

	reopened, err := reader.Rounds.GetPairing(ctx, open.ID)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Nil(t, reopened.MatchID)

	n, err := reader.Rounds.CompleteActive(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	closed, err := reader.Rounds.Get(ctx, round.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoundCompleted, closed.Status)

	total, err := reader.Rounds.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestSeasonAndLeagueRepositories(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	reader := store.Reader()
	now := time.Now().UTC()

	state, err := reader.League.State(ctx)
	require.NoError(t, err)
	assert.Nil(t, state.CurrentRoundID)
	assert.Nil(t, state.CurrentSeasonID)

	season, err := reader.Seasons.Create(ctx, "Spring Slam", "spring-slam", now)
	require.NoError(t, err)
	assert.Equal(t, domain.SeasonActive, season.Status)

	taken, err := reader.Seasons.SlugTaken(ctx, "spring-slam")
	require.NoError(t, err)
	assert.True(t, taken)

	require.NoError(t, reader.League.SetCurrentSeason(ctx, &season.ID))
	state, err = reader.League.State(ctx)
	require.NoError(t, err)
	require.NotNil(t, state.CurrentSeasonID)
	assert.Equal(t, season.ID, *state.CurrentSeasonID)

	end := now.Add(time.Hour)
	season.EndDate = &end
	season.TotalMatches = 5
	season.TotalRounds = 2
	require.NoError(t, reader.Seasons.Complete(ctx, season))

	got, err := reader.Seasons.GetBySlug(ctx, "spring-slam")
	require.NoError(t, err)
	assert.Equal(t, domain.SeasonCompleted, got.Status)
	assert.Equal(t, 5, got.TotalMatches)
	assert.Equal(t, 2, got.TotalRounds)
	assert.Nil(t, got.ChampionID)

	_, err = reader.Seasons.Get(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrSeasonNotFound)

	require.NoError(t, reader.League.SetCurrentSeason(ctx, nil))
	state, err = reader.League.State(ctx)
	require.NoError(t, err)
	assert.Nil(t, state.CurrentSeasonID)
}

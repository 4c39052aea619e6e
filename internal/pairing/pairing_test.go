package pairing

import (
	"testing"

	"swyftx-slam/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAdjacentPairs(t *testing.T) {
	roster := []Entrant{
		{ID: 3, Rating: 1600},
		{ID: 1, Rating: 2000},
		{ID: 4, Rating: 1400},
		{ID: 2, Rating: 1800},
	}

	pairs, err := Generate(roster)
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.Equal(t, Pair{First: Entrant{ID: 1, Rating: 2000}, Second: Entrant{ID: 2, Rating: 1800}}, pairs[0])
	assert.Equal(t, Pair{First: Entrant{ID: 3, Rating: 1600}, Second: Entrant{ID: 4, Rating: 1400}}, pairs[1])
}

func TestGenerateKeepsInputOrderForTies(t *testing.T) {
	roster := []Entrant{
		{ID: 10, Rating: 1250},
		{ID: 11, Rating: 1250},
		{ID: 12, Rating: 1300},
		{ID: 13, Rating: 1250},
	}

	pairs, err := Generate(roster)
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.Equal(t, 12, pairs[0].First.ID)
	assert.Equal(t, 10, pairs[0].Second.ID)
	assert.Equal(t, 11, pairs[1].First.ID)
	assert.Equal(t, 13, pairs[1].Second.ID)
}

func TestGenerateDoesNotMutateInput(t *testing.T) {
	roster := []Entrant{{ID: 1, Rating: 1000}, {ID: 2, Rating: 1500}}
	_, err := Generate(roster)
	require.NoError(t, err)
	assert.Equal(t, 1, roster[0].ID)
}

func TestGenerateOddRoster(t *testing.T) {
	_, err := Generate([]Entrant{{ID: 1}, {ID: 2}, {ID: 3}})
	assert.ErrorIs(t, err, domain.ErrInvalidRosterSize)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGenerateEmptyRoster(t *testing.T) {
	pairs, err := Generate(nil)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestGenerateEveryPlayerOnce(t *testing.T) {
	roster := make([]Entrant, 0, 20)
	for i := 0; i < 20; i++ {
		roster = append(roster, Entrant{ID: i + 1, Rating: 1000 + (i*37)%300})
	}

	pairs, err := Generate(roster)
	require.NoError(t, err)
	require.Len(t, pairs, 10)

	seen := make(map[int]bool)
	for _, p := range pairs {
		assert.NotEqual(t, p.First.ID, p.Second.ID)
		assert.GreaterOrEqual(t, p.First.Rating, p.Second.Rating)
		assert.False(t, seen[p.First.ID])
		assert.False(t, seen[p.Second.ID])
		seen[p.First.ID] = true
		seen[p.Second.ID] = true
	}
	assert.Len(t, seen, 20)
}

func TestDropLowest(t *testing.T) {
	roster := []Entrant{
		{ID: 1, Rating: 1300},
		{ID: 2, Rating: 1100},
		{ID: 3, Rating: 1200},
	}

	kept, dropped := DropLowest(roster)
	require.NotNil(t, dropped)
	assert.Equal(t, 2, dropped.ID)
	assert.Equal(t, []Entrant{{ID: 1, Rating: 1300}, {ID: 3, Rating: 1200}}, kept)
}

func TestDropLowestTieDropsLastListed(t *testing.T) {
	roster := []Entrant{
		{ID: 1, Rating: 1250},
		{ID: 2, Rating: 1250},
		{ID: 3, Rating: 1250},
	}

	kept, dropped := DropLowest(roster)
	require.NotNil(t, dropped)
	assert.Equal(t, 3, dropped.ID)
	assert.Len(t, kept, 2)
}

func TestDropLowestEvenRoster(t *testing.T) {
	roster := []Entrant{{ID: 1}, {ID: 2}}
	kept, dropped := DropLowest(roster)
	assert.Nil(t, dropped)
	assert.Equal(t, roster, kept)
}

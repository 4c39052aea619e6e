package trashtalk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidatesBasePool(t *testing.T) {
	lines := Candidates("Adam", "Luke", 12, 11, 7)
	assert.Len(t, lines, 8)
	for _, l := range lines {
		assert.Contains(t, l, "Adam")
		assert.Contains(t, l, "Luke")
		assert.Contains(t, l, "11-7")
		assert.Contains(t, l, "(+12 ELO)")
	}
}

func TestCandidatesUpset(t *testing.T) {
	lines := Candidates("James", "Adam", 26, 11, 9)
	assert.Len(t, lines, 9)
	assert.True(t, strings.Contains(lines[8], "UPSET ALERT"))

	atThreshold := Candidates("James", "Adam", UpsetThreshold, 11, 9)
	assert.Len(t, atThreshold, 8)
}

func TestCandidatesDestruction(t *testing.T) {
	lines := Candidates("Sam", "Angus", 10, 11, 3)
	assert.Len(t, lines, 9)
	assert.Contains(t, lines[8], "TOTAL DESTRUCTION")

	narrow := Candidates("Sam", "Angus", 10, 11, 4)
	assert.Len(t, narrow, 8)

	notEleven := Candidates("Sam", "Angus", 10, 21, 2)
	assert.Len(t, notEleven, 8)
}

func TestCandidatesUpsetAndDestruction(t *testing.T) {
	lines := Candidates("James", "Adam", 40, 11, 0)
	assert.Len(t, lines, 10)
}

func TestMessageComesFromPool(t *testing.T) {
	g := NewWithSeed(42)
	pool := Candidates("A", "B", 30, 11, 2)
	for i := 0; i < 50; i++ {
		assert.Contains(t, pool, g.Message("A", "B", 30, 11, 2))
	}
}

func TestMessageDeterministicForSeed(t *testing.T) {
	a := NewWithSeed(7)
	b := NewWithSeed(7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Message("A", "B", 5, 11, 8), b.Message("A", "B", 5, 11, 8))
	}
}

package trashtalk

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	// UpsetThreshold is the rating change above which a win counts as an upset.
	UpsetThreshold = 25
	shutoutScore   = 11
	shutoutMaxLoss = 3
)

type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func New() *Generator {
	seed := uint64(time.Now().UnixNano())
	return NewWithSeed(seed)
}

func NewWithSeed(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

// Message picks one line from Candidates at random.
func (g *Generator) Message(winner, loser string, change, winnerScore, loserScore int) string {
	lines := Candidates(winner, loser, change, winnerScore, loserScore)

	g.mu.Lock()
	idx := g.rng.IntN(len(lines))
	g.mu.Unlock()

	return lines[idx]
}

// Candidates lists every line that fits the result. Upsets and 11-3 (or
// worse) beatings add an extra line to the pool.
func Candidates(winner, loser string, change, winnerScore, loserScore int) []string {
	score := fmt.Sprintf("%d-%d", winnerScore, loserScore)
	elo := fmt.Sprintf("(+%d ELO)", change)

	lines := []string{
		fmt.Sprintf("🏓 *%s* absolutely DEMOLISHED *%s* %s! %s", winner, loser, score, elo),
		fmt.Sprintf("🔥 *%s* served up a beating to *%s*! Final score: %s %s", winner, loser, score, elo),
		fmt.Sprintf("💪 *%s* proved who's boss, crushing *%s* %s! %s", winner, loser, score, elo),
		fmt.Sprintf("⚡ *%s* showed no mercy against *%s*! %s %s", winner, loser, score, elo),
		fmt.Sprintf("🎯 *%s* dominated the table, defeating *%s* %s! %s", winner, loser, score, elo),
		fmt.Sprintf("🏆 Victory for *%s*! *%s* goes down %s %s", winner, loser, score, elo),
		fmt.Sprintf("💥 SMASHED! *%s* takes down *%s* %s! %s", winner, loser, score, elo),
		fmt.Sprintf("🎪 *%s* put on a show, beating *%s* %s! %s", winner, loser, score, elo),
	}

	if change > UpsetThreshold {
		lines = append(lines, fmt.Sprintf("🚀 UPSET ALERT! *%s* shocked everyone by beating *%s* %s! %s", winner, loser, score, elo))
	}

	if winnerScore == shutoutScore && loserScore <= shutoutMaxLoss {
		lines = append(lines, fmt.Sprintf("😱 TOTAL DESTRUCTION! *%s* embarrassed *%s* %s! Better luck next time! %s", winner, loser, score, elo))
	}

	return lines
}

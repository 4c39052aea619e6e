// Package pairing builds a round's matchups from a rated roster.
//
// Players are ranked by rating (highest first, ties keep input order) and each
// unpaired player is matched with the next unpaired player below them. Rematches
// and bye history are not considered.
package pairing

import (
	"sort"

	"swyftx-slam/internal/domain"
)

type Entrant struct {
	ID     int
	Rating int
}

// Pair holds the higher-rated entrant first.
type Pair struct {
	First  Entrant
	Second Entrant
}

// Generate pairs an even-length roster. An odd roster fails with
// domain.ErrInvalidRosterSize; callers drop a player before calling.
func Generate(roster []Entrant) ([]Pair, error) {
	if len(roster)%2 != 0 {
		return nil, domain.ErrInvalidRosterSize
	}

	sorted := make([]Entrant, len(roster))
	copy(sorted, roster)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})

	pairs := make([]Pair, 0, len(sorted)/2)
	paired := make([]bool, len(sorted))

	for i := range sorted {
		if paired[i] {
			continue
		}
		for j := i + 1; j < len(sorted); j++ {
			if paired[j] {
				continue
			}
			pairs = append(pairs, Pair{First: sorted[i], Second: sorted[j]})
			paired[i] = true
			paired[j] = true
			break
		}
	}

	return pairs, nil
}

// DropLowest removes the lowest-rated entrant from an odd roster so it can be
// paired. Among equal lowest ratings the one listed last is dropped. Even
// rosters are returned unchanged with a nil drop.
func DropLowest(roster []Entrant) ([]Entrant, *Entrant) {
	if len(roster)%2 == 0 {
		return roster, nil
	}

	idx := 0
	for i, e := range roster {
		if e.Rating <= roster[idx].Rating {
			idx = i
		}
	}

	dropped := roster[idx]
	kept := make([]Entrant, 0, len(roster)-1)
	kept = append(kept, roster[:idx]...)
	kept = append(kept, roster[idx+1:]...)
	return kept, &dropped
}

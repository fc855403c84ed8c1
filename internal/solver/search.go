package solver

import (
	"errors"
	"math/rand/v2"
	"slices"

	"github.com/robalobadob/mastermind/internal/game"
)

// ErrNoGuess means no code satisfies the collected feedback, which only
// happens when some feedback was wrong.
var ErrNoGuess = errors.New("no guess possible")

// Search priorities, lowest first.
const (
	prioUnseen       = 0 // never guessed and not yet used in this guess
	prioKnown        = 1 // already guessed before (so confirmed right)
	prioUnseenRepeat = 2 // never guessed, but already used in this guess
)

// NextGuess returns a code that agrees with every constraint so far.
// Ties between equally useful colors are broken by rng.
func (t *Tracker) NextGuess(rng *rand.Rand) (game.Code, error) {
	checkable := make([]bool, t.rules.Colors)
	for c := range checkable {
		checkable[c] = t.right[c] || t.unseen[c]
	}
	guess := make(game.Code, t.rules.Positions)
	if !t.search(guess, checkable, 0, rng) {
		return nil, ErrNoGuess
	}
	return guess, nil
}

// search fills guess[pos:] depth first. checkable is a scratch mask owned
// by the current NextGuess call; a color taken under the no-duplicates
// rule is cleared for deeper positions and restored on backtrack.
func (t *Tracker) search(guess game.Code, checkable []bool, pos int, rng *rand.Rand) bool {
	if pos == len(guess) {
		return true
	}

	var candidates []int
	for c, ok := range checkable {
		if ok && t.valid[pos][c] {
			candidates = append(candidates, c)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	prio := make(map[int]int, len(candidates))
	for _, c := range candidates {
		prio[c] = t.priority(c, guess[:pos])
	}
	slices.SortStableFunc(candidates, func(a, b int) int { return prio[a] - prio[b] })

	for _, c := range candidates {
		guess[pos] = c + 1
		if !t.rules.Duplicates {
			checkable[c] = false
		}
		if t.search(guess, checkable, pos+1, rng) {
			return true
		}
		if !t.rules.Duplicates {
			checkable[c] = true
		}
	}
	return false
}

func (t *Tracker) priority(c int, placed game.Code) int {
	if !t.unseen[c] {
		return prioKnown
	}
	if slices.Contains(placed, c+1) {
		return prioUnseenRepeat
	}
	return prioUnseen
}

// Package solver is the computer code breaker's engine: a Tracker that
// folds every round of feedback into per-position constraints, and a
// randomized backtracking search that proposes the next consistent guess.
//
// Colors are 1-based at the package boundary and 0-based inside.
package solver

import "github.com/robalobadob/mastermind/internal/game"

// Tracker holds what the breaker has learned about the secret.
// It is not safe for concurrent use.
type Tracker struct {
	rules game.Rules

	// valid[p][c] is true while color c may still sit at position p.
	valid [][]bool

	unseen      []bool // never guessed yet
	unseenCount int
	right       []bool // confirmed to be in the secret
	rightCount  int
	found       bool // every right color is known
}

// NewTracker starts with every color possible everywhere.
// rules must already be validated.
func NewTracker(rules game.Rules) *Tracker {
	t := &Tracker{
		rules:       rules,
		valid:       make([][]bool, rules.Positions),
		unseen:      make([]bool, rules.Colors),
		unseenCount: rules.Colors,
		right:       make([]bool, rules.Colors),
	}
	for p := range t.valid {
		t.valid[p] = make([]bool, rules.Colors)
		for c := range t.valid[p] {
			t.valid[p][c] = true
		}
	}
	for c := range t.unseen {
		t.unseen[c] = true
	}
	return t
}

// Apply folds one guess and its feedback into the constraints.
// Both must be valid for the tracker's rules; nothing is re-checked here.
func (t *Tracker) Apply(guess game.Code, fb game.Feedback) {
	for p, color := range guess {
		c := color - 1
		if t.unseen[c] {
			t.unseen[c] = false
			t.unseenCount--
		}
		switch fb[p] {
		case game.PegBlack:
			if !t.rules.Duplicates {
				t.invalidateColor(c)
			}
			for other := range t.valid[p] {
				t.valid[p][other] = false
			}
			t.valid[p][c] = true
			t.markRight(c)
		case game.PegWhite:
			t.valid[p][c] = false
			t.markRight(c)
		default:
			t.invalidateColor(c)
		}
	}
	if !t.found && t.complete() {
		for c := range t.unseen {
			t.unseen[c] = false
		}
		t.unseenCount = 0
		t.found = true
	}
}

func (t *Tracker) invalidateColor(c int) {
	for p := range t.valid {
		t.valid[p][c] = false
	}
}

func (t *Tracker) markRight(c int) {
	if !t.right[c] {
		t.right[c] = true
		t.rightCount++
	}
}

// complete reports whether the set of colors in the secret is known.
// Without duplicates that is one right color per position; with them,
// only once every color has been tried.
func (t *Tracker) complete() bool {
	if !t.rules.Duplicates {
		return t.rightCount == t.rules.Positions
	}
	return t.unseenCount == 0
}

// Rules returns the configuration the tracker was built for.
func (t *Tracker) Rules() game.Rules { return t.rules }

// Valid reports whether color may still appear at pos (pos 0-based, color 1-based).
func (t *Tracker) Valid(pos, color int) bool { return t.valid[pos][color-1] }

// Unseen reports whether color has never been guessed.
func (t *Tracker) Unseen(color int) bool { return t.unseen[color-1] }

// Right reports whether color is known to be in the secret.
func (t *Tracker) Right(color int) bool { return t.right[color-1] }

// RightColorsFound reports whether probing for unseen colors has stopped.
func (t *Tracker) RightColorsFound() bool { return t.found }

// Candidates counts the (position, color) pairs still possible.
func (t *Tracker) Candidates() int {
	n := 0
	for _, row := range t.valid {
		for _, ok := range row {
			if ok {
				n++
			}
		}
	}
	return n
}

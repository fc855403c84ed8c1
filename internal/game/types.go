// internal/game/types.go
//
// Core type definitions for Mastermind.
// Defines:
//   - Peg / Feedback: per-position result of a guess (black/white/miss).
//   - Code: an ordered sequence of colors numbered from 1.
//   - Game: state for a single server-side game against a computer maker.

package game

import (
	"strconv"
	"strings"
)

// Peg represents the evaluation result for a single position in a guess.
// Possible values:
//   - PegBlack 'b': right color in the right position.
//   - PegWhite 'w': right color in a wrong position.
//   - PegMiss  '.': wrong color.
type Peg byte

const (
	PegBlack Peg = 'b'
	PegWhite Peg = 'w'
	PegMiss  Peg = '.'
)

// Feedback is one peg per guess position.
type Feedback []Peg

// String renders pegs the way players type them, e.g. "bw..".
func (f Feedback) String() string {
	b := make([]byte, len(f))
	for i, p := range f {
		b[i] = byte(p)
	}
	return string(b)
}

// Solved reports whether every peg is black.
// An empty feedback is never solved.
func (f Feedback) Solved() bool {
	if len(f) == 0 {
		return false
	}
	for _, p := range f {
		if p != PegBlack {
			return false
		}
	}
	return true
}

// Code is an ordered sequence of colors, each in [1, Rules.Colors].
type Code []int

// String renders single-digit colors back to back ("1234") and
// wider palettes separated by spaces ("1 12 3 10").
func (c Code) String() string {
	wide := false
	for _, color := range c {
		if color > 9 {
			wide = true
			break
		}
	}
	parts := make([]string, len(c))
	for i, color := range c {
		parts[i] = strconv.Itoa(color)
	}
	if wide {
		return strings.Join(parts, " ")
	}
	return strings.Join(parts, "")
}

// Game holds the state of a single game where a player breaks a secret
// held by the server.
type Game struct {
	ID         string     // Unique game identifier (random hex string).
	Rules      Rules      // Palette, length and duplicate policy.
	Secret     Code       // The code being broken.
	MaxGuesses int        // Guess limit; 0 means unlimited.
	Guesses    []Code     // Guesses made so far.
	Feedback   []Feedback // Feedback for each guess, same order.
	Finished   bool       // True once the game is over (won or lost).
	Won        bool       // True if the game was finished with a win.
}

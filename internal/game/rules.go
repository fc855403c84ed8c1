package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/robalobadob/mastermind/assets"
)

const (
	DefaultColors    = 6
	DefaultPositions = 4
)

var (
	ErrInvalidRules    = errors.New("invalid rules")
	ErrInvalidCode     = errors.New("invalid code")
	ErrInvalidFeedback = errors.New("invalid feedback")
)

// Rules is the immutable configuration of one game.
type Rules struct {
	Colors     int  `json:"colors"`
	Positions  int  `json:"positions"`
	Duplicates bool `json:"duplicates"`
}

// DefaultRules is the classic board: six colors, four positions, repeats allowed.
func DefaultRules() Rules {
	return Rules{Colors: DefaultColors, Positions: DefaultPositions, Duplicates: true}
}

// NewRules validates and returns a configuration.
// Without duplicates there must be at least as many colors as positions.
func NewRules(colors, positions int, duplicates bool) (Rules, error) {
	r := Rules{Colors: colors, Positions: positions, Duplicates: duplicates}
	return r, r.Validate()
}

// Validate checks the configuration invariants.
func (r Rules) Validate() error {
	if r.Colors < 1 {
		return fmt.Errorf("%w: number of colors must be positive", ErrInvalidRules)
	}
	if r.Positions < 1 {
		return fmt.Errorf("%w: number of positions must be positive", ErrInvalidRules)
	}
	if !r.Duplicates && r.Positions > r.Colors {
		return fmt.Errorf("%w: not enough colors for this number of positions", ErrInvalidRules)
	}
	return nil
}

// ParseCode reads a code typed by a player. Colors may be written back to
// back ("1234") or separated by spaces or commas ("1, 2, 10, 4").
func (r Rules) ParseCode(s string) (Code, error) {
	s = strings.TrimSpace(s)
	var fields []string
	if strings.ContainsAny(s, " ,\t") {
		fields = strings.FieldsFunc(s, func(c rune) bool {
			return c == ' ' || c == ',' || c == '\t'
		})
	} else {
		for _, c := range s {
			fields = append(fields, string(c))
		}
	}
	code := make(Code, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: code must be a sequence of numbers", ErrInvalidCode)
		}
		code = append(code, n)
	}
	return code, r.ValidateCode(code)
}

// ValidateCode checks length, color range and the duplicate policy.
func (r Rules) ValidateCode(code Code) error {
	if len(code) != r.Positions {
		return fmt.Errorf("%w: code must consist of exactly %d colors", ErrInvalidCode, r.Positions)
	}
	seen := make(map[int]struct{}, len(code))
	for _, color := range code {
		if color < 1 || color > r.Colors {
			return fmt.Errorf("%w: color must be a number between 1 and %d (inclusive)", ErrInvalidCode, r.Colors)
		}
		seen[color] = struct{}{}
	}
	if !r.Duplicates && len(seen) != len(code) {
		return fmt.Errorf("%w: duplicates are not allowed", ErrInvalidCode)
	}
	return nil
}

// ParseFeedback reads a peg string such as "bw..".
func (r Rules) ParseFeedback(s string) (Feedback, error) {
	s = strings.TrimSpace(s)
	if len(s) != r.Positions {
		return nil, fmt.Errorf("%w: feedback must consist of exactly %d pegs", ErrInvalidFeedback, r.Positions)
	}
	fb := make(Feedback, len(s))
	for i := 0; i < len(s); i++ {
		switch p := Peg(s[i]); p {
		case PegBlack, PegWhite, PegMiss:
			fb[i] = p
		default:
			return nil, fmt.Errorf("%w: peg must be one of following: 'b', 'w', '.'", ErrInvalidFeedback)
		}
	}
	return fb, nil
}

// RandomCode draws a uniformly random code that obeys the duplicate policy.
func (r Rules) RandomCode(rng *rand.Rand) Code {
	code := make(Code, r.Positions)
	if r.Duplicates {
		for i := range code {
			code[i] = rng.IntN(r.Colors) + 1
		}
		return code
	}
	perm := rng.Perm(r.Colors)
	for i := range code {
		code[i] = perm[i] + 1
	}
	return code
}

// Describe renders the player-facing rules for this configuration.
func (r Rules) Describe() string {
	repeat := " "
	if !r.Duplicates {
		repeat = " not "
	}
	return fmt.Sprintf(assets.RulesText(), r.Positions, r.Colors, repeat)
}

package solver

import (
	"errors"
	"slices"
	"testing"

	"github.com/robalobadob/mastermind/internal/game"
)

func TestFirstGuessPrefersUnseenColors(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		tr := NewTracker(game.DefaultRules())
		guess, err := tr.NextGuess(game.NewRand(seed))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		seen := map[int]bool{}
		for _, c := range guess {
			if seen[c] {
				t.Fatalf("seed %d: first guess %v repeats color %d", seed, guess, c)
			}
			seen[c] = true
		}
	}
}

func TestKnownColorBeatsRepeatedUnseen(t *testing.T) {
	rules, err := game.NewRules(3, 3, true)
	if err != nil {
		t.Fatal(err)
	}
	for seed := uint64(1); seed <= 50; seed++ {
		tr := NewTracker(rules)
		// Secret 311: color 1 is right but misplaced, 2 is absent, 3 unseen.
		tr.Apply(game.Code{1, 2, 2}, game.Feedback{game.PegWhite, game.PegMiss, game.PegMiss})

		guess, err := tr.NextGuess(game.NewRand(seed))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		// Position 0 only admits 3; afterwards 1 (known) outranks 3
		// (unseen but already placed).
		if guess.String() != "311" {
			t.Errorf("seed %d: NextGuess() = %v, want 311", seed, guess)
		}
	}
}

func TestNextGuessBacktracksWithoutDuplicates(t *testing.T) {
	rules, err := game.NewRules(4, 3, false)
	if err != nil {
		t.Fatal(err)
	}
	for seed := uint64(1); seed <= 50; seed++ {
		tr := NewTracker(rules)
		// Leaves position 0 with {2,3,4} and positions 1 and 2 with {3,4}.
		// Unseen 3 and 4 are tried first at position 0 and both dead-end,
		// so each must be handed back before 2 can succeed.
		tr.Apply(game.Code{1, 2, 2}, game.Feedback{game.PegMiss, game.PegWhite, game.PegWhite})

		guess, err := tr.NextGuess(game.NewRand(seed))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if got := guess.String(); got != "234" && got != "243" {
			t.Errorf("seed %d: NextGuess() = %s, want 234 or 243", seed, got)
		}
	}
}

func TestNextGuessDeterministic(t *testing.T) {
	history := func(tr *Tracker) {
		g := game.Code{1, 2, 3, 4}
		tr.Apply(g, game.Score(game.Code{4, 5, 3, 6}, g))
	}
	a, b := NewTracker(game.DefaultRules()), NewTracker(game.DefaultRules())
	history(a)
	history(b)

	ga, errA := a.NextGuess(game.NewRand(42))
	gb, errB := b.NextGuess(game.NewRand(42))
	if errA != nil || errB != nil {
		t.Fatalf("NextGuess errors: %v, %v", errA, errB)
	}
	if !slices.Equal(ga, gb) {
		t.Errorf("same seed and history gave %v and %v", ga, gb)
	}
}

func TestNextGuessNoCandidates(t *testing.T) {
	r, err := game.NewRules(3, 3, false)
	if err != nil {
		t.Fatal(err)
	}
	tr := NewTracker(r)
	tr.Apply(game.Code{1, 2, 3}, game.Feedback{game.PegMiss, game.PegMiss, game.PegMiss})

	if _, err := tr.NextGuess(game.NewRand(1)); !errors.Is(err, ErrNoGuess) {
		t.Fatalf("NextGuess err = %v, want ErrNoGuess", err)
	}
}

func TestNextGuessRespectsConstraints(t *testing.T) {
	rules := game.DefaultRules()
	rng := game.NewRand(7)
	secret := game.Code{2, 6, 6, 1}
	tr := NewTracker(rules)

	var history []game.Code
	var pegs []game.Feedback
	for turn := 0; turn < rules.Colors*rules.Positions; turn++ {
		guess, err := tr.NextGuess(rng)
		if err != nil {
			t.Fatalf("turn %d: %v", turn, err)
		}
		for p, c := range guess {
			if !tr.Valid(p, c) {
				t.Fatalf("turn %d: guess %v uses invalidated (%d, %d)", turn, guess, p, c)
			}
		}
		// Every earlier peg must still hold for the new guess.
		for i, old := range history {
			for p, peg := range pegs[i] {
				switch peg {
				case game.PegBlack:
					if guess[p] != old[p] {
						t.Fatalf("guess %v drops black %d at %d", guess, old[p], p)
					}
				case game.PegWhite:
					if guess[p] == old[p] {
						t.Fatalf("guess %v repeats white %d at %d", guess, old[p], p)
					}
				default:
					if slices.Contains(guess, old[p]) {
						t.Fatalf("guess %v reuses missed color %d", guess, old[p])
					}
				}
			}
		}
		fb := game.Score(secret, guess)
		if fb.Solved() {
			return
		}
		history = append(history, guess)
		pegs = append(pegs, fb)
		tr.Apply(guess, fb)
	}
	t.Fatalf("secret %v not found in %d turns", secret, rules.Colors*rules.Positions)
}

func TestGuessesUseRightColorsOnceFound(t *testing.T) {
	rules := game.DefaultRules()
	rng := game.NewRand(3)
	for g := 0; g < 30; g++ {
		secret := rules.RandomCode(rng)
		tr := NewTracker(rules)
		for turn := 0; turn < rules.Colors*rules.Positions; turn++ {
			guess, err := tr.NextGuess(rng)
			if err != nil {
				t.Fatalf("secret %v: %v", secret, err)
			}
			if tr.RightColorsFound() {
				for _, c := range guess {
					if !tr.Right(c) {
						t.Fatalf("secret %v: guess %v uses color %d not known right", secret, guess, c)
					}
				}
			}
			fb := game.Score(secret, guess)
			if fb.Solved() {
				break
			}
			tr.Apply(guess, fb)
		}
	}
}

func TestSolvesWithinBound(t *testing.T) {
	for _, dup := range []bool{true, false} {
		rules, err := game.NewRules(6, 4, dup)
		if err != nil {
			t.Fatal(err)
		}
		rng := game.NewRand(2024)
		limit := rules.Colors * rules.Positions
		for g := 0; g < 200; g++ {
			secret := rules.RandomCode(rng)
			tr := NewTracker(rules)
			solved := false
			for turn := 0; turn < limit && !solved; turn++ {
				guess, err := tr.NextGuess(rng)
				if err != nil {
					t.Fatalf("dup=%v secret %v: %v", dup, secret, err)
				}
				if !dup {
					seen := map[int]bool{}
					for _, c := range guess {
						if seen[c] {
							t.Fatalf("guess %v repeats a color without duplicates", guess)
						}
						seen[c] = true
					}
				}
				fb := game.Score(secret, guess)
				if fb.Solved() {
					solved = true
					break
				}
				before := tr.Candidates()
				tr.Apply(guess, fb)
				if tr.Candidates() >= before {
					t.Fatalf("dup=%v secret %v: guess %v %v did not shrink the matrix", dup, secret, guess, fb)
				}
			}
			if !solved {
				t.Fatalf("dup=%v secret %v unsolved after %d turns", dup, secret, limit)
			}
		}
	}
}

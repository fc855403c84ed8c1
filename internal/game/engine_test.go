package game

import (
	"errors"
	"testing"
)

func TestGameWin(t *testing.T) {
	g := New(DefaultRules(), Code{1, 2, 3, 4}, 10, nil)

	fb, state, err := g.ApplyGuess("1356")
	if err != nil {
		t.Fatalf("ApplyGuess: %v", err)
	}
	if fb.String() != "bw.." || state != StatePlaying {
		t.Fatalf("got %q %s, want bw.. playing", fb, state)
	}

	fb, state, err = g.ApplyGuess("1234")
	if err != nil {
		t.Fatalf("ApplyGuess: %v", err)
	}
	if !fb.Solved() || state != StateWon || !g.Won || !g.Finished {
		t.Fatalf("got %q %s won=%v finished=%v", fb, state, g.Won, g.Finished)
	}
	if len(g.Guesses) != 2 || len(g.Feedback) != 2 {
		t.Errorf("history lengths %d/%d, want 2/2", len(g.Guesses), len(g.Feedback))
	}

	if _, _, err := g.ApplyGuess("1234"); !errors.Is(err, ErrGameFinished) {
		t.Errorf("guess after win: err = %v, want ErrGameFinished", err)
	}
}

func TestGameLossAtLimit(t *testing.T) {
	g := New(DefaultRules(), Code{1, 2, 3, 4}, 2, nil)
	if _, state, _ := g.ApplyGuess("5555"); state != StatePlaying {
		t.Fatalf("state after first guess = %s", state)
	}
	_, state, err := g.ApplyGuess("6666")
	if err != nil {
		t.Fatal(err)
	}
	if state != StateLost || g.Won {
		t.Fatalf("state = %s won = %v, want lost", state, g.Won)
	}
}

func TestGameInvalidGuessDoesNotCount(t *testing.T) {
	g := New(DefaultRules(), nil, 0, NewRand(1))
	if err := g.Rules.ValidateCode(g.Secret); err != nil {
		t.Fatalf("random secret invalid: %v", err)
	}
	if _, _, err := g.ApplyGuess("12"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("err = %v, want ErrInvalidCode", err)
	}
	if len(g.Guesses) != 0 {
		t.Errorf("invalid guess was recorded")
	}
	if g.ID == "" || len(g.ID) != 16 {
		t.Errorf("ID = %q, want 16 hex chars", g.ID)
	}
}

// internal/player/player.go
//
// The two roles of a Mastermind game and their human/computer variants.
//   - CodeMaker invents the secret and scores guesses.
//   - CodeBreaker proposes guesses and learns from feedback.
//
// Human variants talk through a Prompter (stdin/stdout in the CLI);
// computer variants use the game oracle and the solver.

package player

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/solver"
)

// ErrNoCode is returned when feedback is requested before a secret exists.
var ErrNoCode = errors.New("no code to provide feedback for")

// CodeMaker invents a secret code and evaluates guesses against it.
type CodeMaker interface {
	MakeCode() error
	GiveFeedback(guess game.Code) (game.Feedback, error)
}

// CodeBreaker proposes guesses and may use feedback to pick the next one.
type CodeBreaker interface {
	MakeGuess() (game.Code, error)
	ReceiveFeedback(guess game.Code, fb game.Feedback)
}

// Prompter reads one line of player input per question.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Ask prints prompt and returns the next input line.
// Running out of input is io.ErrUnexpectedEOF.
func (p *Prompter) Ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return p.in.Text(), nil
}

// Tell prints one line to the player.
func (p *Prompter) Tell(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// askCode repeats prompt until the player enters a valid code.
func askCode(p *Prompter, rules game.Rules, prompt string) (game.Code, error) {
	for {
		line, err := p.Ask(prompt)
		if err != nil {
			return nil, err
		}
		code, err := rules.ParseCode(line)
		if err == nil {
			return code, nil
		}
		p.Tell("Entered code is invalid: %v", err)
	}
}

// ------------------------------ makers --------------------------------------

// HumanCodeMaker lets the player hold the secret. With auto feedback the
// oracle scores guesses; otherwise the player types the pegs.
type HumanCodeMaker struct {
	rules        game.Rules
	prompt       *Prompter
	autoFeedback bool
	code         game.Code
}

func NewHumanCodeMaker(rules game.Rules, p *Prompter, autoFeedback bool) *HumanCodeMaker {
	return &HumanCodeMaker{rules: rules, prompt: p, autoFeedback: autoFeedback}
}

func (m *HumanCodeMaker) MakeCode() error {
	code, err := askCode(m.prompt, m.rules, "Enter secret code: ")
	if err != nil {
		return err
	}
	m.code = code
	return nil
}

func (m *HumanCodeMaker) GiveFeedback(guess game.Code) (game.Feedback, error) {
	if m.code == nil {
		return nil, ErrNoCode
	}
	if m.autoFeedback {
		return game.Score(m.code, guess), nil
	}
	for {
		line, err := m.prompt.Ask(fmt.Sprintf("Enter feedback for %s: ", guess))
		if err != nil {
			return nil, err
		}
		fb, err := m.rules.ParseFeedback(line)
		if err == nil {
			return fb, nil
		}
		m.prompt.Tell("Entered feedback is invalid: %v", err)
	}
}

// ComputerCodeMaker draws a random secret and scores guesses with the oracle.
type ComputerCodeMaker struct {
	rules game.Rules
	rng   *rand.Rand
	code  game.Code
}

func NewComputerCodeMaker(rules game.Rules, rng *rand.Rand) *ComputerCodeMaker {
	return &ComputerCodeMaker{rules: rules, rng: rng}
}

func (m *ComputerCodeMaker) MakeCode() error {
	m.code = m.rules.RandomCode(m.rng)
	return nil
}

func (m *ComputerCodeMaker) GiveFeedback(guess game.Code) (game.Feedback, error) {
	if m.code == nil {
		return nil, ErrNoCode
	}
	return game.Score(m.code, guess), nil
}

// Secret exposes the drawn code, nil before MakeCode.
func (m *ComputerCodeMaker) Secret() game.Code { return m.code }

// ------------------------------ breakers ------------------------------------

// HumanCodeBreaker asks the player for each guess. Feedback is already
// printed by the turn loop, so there is nothing to record.
type HumanCodeBreaker struct {
	rules  game.Rules
	prompt *Prompter
}

func NewHumanCodeBreaker(rules game.Rules, p *Prompter) *HumanCodeBreaker {
	return &HumanCodeBreaker{rules: rules, prompt: p}
}

func (b *HumanCodeBreaker) MakeGuess() (game.Code, error) {
	return askCode(b.prompt, b.rules, "Enter code: ")
}

func (b *HumanCodeBreaker) ReceiveFeedback(game.Code, game.Feedback) {}

// ComputerCodeBreaker guesses with the solver.
type ComputerCodeBreaker struct {
	tracker *solver.Tracker
	rng     *rand.Rand
}

func NewComputerCodeBreaker(rules game.Rules, rng *rand.Rand) *ComputerCodeBreaker {
	return &ComputerCodeBreaker{tracker: solver.NewTracker(rules), rng: rng}
}

// MakeGuess returns solver.ErrNoGuess when the feedback so far is contradictory.
func (b *ComputerCodeBreaker) MakeGuess() (game.Code, error) {
	return b.tracker.NextGuess(b.rng)
}

func (b *ComputerCodeBreaker) ReceiveFeedback(guess game.Code, fb game.Feedback) {
	b.tracker.Apply(guess, fb)
}

// Tracker exposes the solver state for logging and tests.
func (b *ComputerCodeBreaker) Tracker() *solver.Tracker { return b.tracker }

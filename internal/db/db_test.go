package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robalobadob/mastermind/internal/game"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := Migrate(context.Background(), d); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return d
}

func TestMigrateIdempotent(t *testing.T) {
	d := openTestDB(t)
	if err := Migrate(context.Background(), d); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("_migrations has %d rows, want 2", n)
	}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)

	u, err := CreateUser(ctx, d, "u1", "  alice ", "correct horse")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("Username = %q, want trimmed", u.Username)
	}
	if _, err := CreateUser(ctx, d, "u2", "ALICE", "another password"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate name err = %v, want ErrUsernameTaken", err)
	}

	bad := []struct{ name, pw string }{
		{"al", "long enough"},
		{"bad name", "long enough"},
		{"bob", "short"},
	}
	for _, b := range bad {
		if _, err := CreateUser(ctx, d, "x", b.name, b.pw); !errors.Is(err, ErrInvalidSignup) {
			t.Errorf("CreateUser(%q, %q) err = %v, want ErrInvalidSignup", b.name, b.pw, err)
		}
	}

	got, err := FindUserByUsername(ctx, d, "Alice")
	if err != nil {
		t.Fatalf("FindUserByUsername: %v", err)
	}
	if got.ID != "u1" || !got.CheckPassword("correct horse") || got.CheckPassword("wrong") {
		t.Errorf("loaded user %+v", got)
	}
	if _, err := FindUserByID(ctx, d, "nobody"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("FindUserByID(nobody) err = %v", err)
	}
}

func TestCreateUserLookupFailure(t *testing.T) {
	d := openTestDB(t)
	_ = d.Close()

	_, err := CreateUser(context.Background(), d, "u1", "alice", "correct horse")
	if err == nil || errors.Is(err, ErrUsernameTaken) || !strings.Contains(err.Error(), "check username") {
		t.Fatalf("CreateUser on a closed db err = %v", err)
	}
}

func TestUniqueViolationMapsToTaken(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	if _, err := CreateUser(ctx, d, "u1", "alice", "correct horse"); err != nil {
		t.Fatal(err)
	}
	// A second signup that slipped past the lookup reaches the index.
	_, err := d.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES ('u2','Alice','x','2026-01-01T00:00:00Z')`)
	if err == nil {
		t.Fatal("duplicate username inserted")
	}
	if !isUniqueViolation(err) {
		t.Errorf("isUniqueViolation(%v) = false", err)
	}
	if isUniqueViolation(errors.New("other")) {
		t.Error("plain error reported as unique violation")
	}
}

func TestRecordGuessAndStats(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	if _, err := CreateUser(ctx, d, "u1", "alice", "correct horse"); err != nil {
		t.Fatal(err)
	}
	me := Owner{UserID: "u1"}
	rules := game.DefaultRules()

	if err := InsertGame(ctx, d, "g1", rules, me); err != nil {
		t.Fatal(err)
	}
	for _, st := range []string{game.StatePlaying, game.StatePlaying, game.StateWon} {
		if err := RecordGuess(ctx, d, "g1", me, st); err != nil {
			t.Fatalf("RecordGuess: %v", err)
		}
	}
	if err := InsertGame(ctx, d, "g2", rules, me); err != nil {
		t.Fatal(err)
	}
	if err := RecordGuess(ctx, d, "g2", me, game.StateLost); err != nil {
		t.Fatal(err)
	}

	u, err := FindUserByID(ctx, d, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if u.GamesPlayed != 2 || u.Wins != 1 || u.Streak != 0 {
		t.Errorf("stats = %d/%d/%d, want 2/1/0", u.GamesPlayed, u.Wins, u.Streak)
	}

	rows, err := RecentGames(ctx, d, "u1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("RecentGames returned %d rows", len(rows))
	}
	byID := map[string]GameRow{}
	for _, r := range rows {
		byID[r.ID] = r
	}
	if g := byID["g1"]; g.Status != game.StateWon || g.Guesses != 3 || g.FinishedAt == "" {
		t.Errorf("g1 = %+v", g)
	}
	if g := byID["g2"]; g.Status != game.StateLost || g.Guesses != 1 {
		t.Errorf("g2 = %+v", g)
	}
}

func TestRecordGuessWrongOwner(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	if err := InsertGame(ctx, d, "g1", game.DefaultRules(), Owner{AnonID: "anon-a"}); err != nil {
		t.Fatal(err)
	}
	if err := RecordGuess(ctx, d, "g1", Owner{AnonID: "anon-b"}, game.StateWon); err != nil {
		t.Fatal(err)
	}
	var guesses int
	var status string
	if err := d.QueryRow(`SELECT guesses, status FROM games WHERE id='g1'`).Scan(&guesses, &status); err != nil {
		t.Fatal(err)
	}
	if guesses != 0 || status != game.StatePlaying {
		t.Errorf("foreign owner changed the game: %d %s", guesses, status)
	}
}

func TestClaimAnonGames(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	if _, err := CreateUser(ctx, d, "u1", "alice", "correct horse"); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"g1", "g2"} {
		if err := InsertGame(ctx, d, id, game.DefaultRules(), Owner{AnonID: "anon"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := ClaimAnonGames(ctx, d, "anon", "u1"); err != nil {
		t.Fatal(err)
	}
	rows, err := RecentGames(ctx, d, "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("claimed %d games, want 2", len(rows))
	}
	if err := ClaimAnonGames(ctx, d, "", "u1"); err != nil {
		t.Errorf("empty anon id: %v", err)
	}
}

package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/robalobadob/mastermind/internal/game"
)

// Owner identifies who played a game: a signed-in user or an anonymous
// cookie id. Exactly one of the fields is set.
type Owner struct {
	UserID string
	AnonID string
}

func (o Owner) clause() (string, any) {
	if o.UserID != "" {
		return `user_id=?`, o.UserID
	}
	return `anonymous_id=?`, o.AnonID
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// GameRow is one entry of a player's history.
type GameRow struct {
	ID         string `json:"id"`
	Colors     int    `json:"colors"`
	Positions  int    `json:"positions"`
	Duplicates bool   `json:"duplicates"`
	Status     string `json:"status"`
	Guesses    int    `json:"guesses"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// InsertGame records the owner of a new game. The secret is never stored.
func InsertGame(ctx context.Context, db *sql.DB, id string, rules game.Rules, owner Owner) error {
	_, err := db.ExecContext(ctx, `
        INSERT INTO games (id, user_id, anonymous_id, colors, positions, duplicates, started_at, status, guesses)
        VALUES (?,?,?,?,?,?,?,?,0)`,
		id, nullable(owner.UserID), nullable(owner.AnonID), rules.Colors, rules.Positions, rules.Duplicates,
		time.Now().UTC().Format(time.RFC3339), game.StatePlaying,
	)
	return err
}

// RecordGuess bumps the guess counter and, once state is won or lost,
// closes the game and updates the owner's stats in the same transaction.
func RecordGuess(ctx context.Context, db *sql.DB, id string, owner Owner, state string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	clause, arg := owner.clause()
	if _, err := tx.ExecContext(ctx, `UPDATE games SET guesses = guesses + 1 WHERE id=? AND `+clause, id, arg); err != nil {
		return err
	}
	if state == game.StateWon || state == game.StateLost {
		if _, err := tx.ExecContext(ctx, `UPDATE games SET status=?, finished_at=? WHERE id=? AND `+clause,
			state, time.Now().UTC().Format(time.RFC3339), id, arg); err != nil {
			return err
		}
		if owner.UserID != "" {
			if err := bumpStats(ctx, tx, owner.UserID, state == game.StateWon); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// RecentGames lists a user's latest games, newest first.
func RecentGames(ctx context.Context, db *sql.DB, userID string, limit int) ([]GameRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
        SELECT id, colors, positions, duplicates, status, guesses, started_at, COALESCE(finished_at,'')
        FROM games WHERE user_id=? ORDER BY started_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRow{}
	for rows.Next() {
		var g GameRow
		if err := rows.Scan(&g.ID, &g.Colors, &g.Positions, &g.Duplicates, &g.Status, &g.Guesses, &g.StartedAt, &g.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ClaimAnonGames transfers anonymous games to a user account after auth.
func ClaimAnonGames(ctx context.Context, db *sql.DB, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := db.ExecContext(ctx, `UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}

package daily

import (
	"context"
	"database/sql"
)

// Result is one player's solved daily board.
type Result struct {
	PlayerID string `json:"playerId"`
	Date     string `json:"date"`
	Answer   string `json:"-"`
	Guesses  int    `json:"guesses"`
}

// Store records daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether playerID has a result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	var played bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM daily_results WHERE player_id=? AND date=?)`,
		playerID, date,
	).Scan(&played)
	return played, err
}

// InsertResult stores r; a second result for the same player and date is
// ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(player_id, date, answer, guesses)
        VALUES(?,?,?,?)`, r.PlayerID, r.Date, r.Answer, r.Guesses,
	)
	return err
}

type LBRow struct {
	PlayerID string `json:"playerId"`
	Guesses  int    `json:"guesses"`
}

// Leaderboard returns the best results for date: fewest guesses first, then
// earliest.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, guesses
        FROM daily_results
        WHERE date=?
        ORDER BY guesses ASC, created_at ASC, rowid ASC
        LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Guesses); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

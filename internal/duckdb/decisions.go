package duckdb

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tinytelemetry/swipedeck/internal/model"
)

const decisionColumns = "journal, seq, session, deck, card_id, card_title, direction, position, dx, dy, swiped_at"

// InsertDecisions writes a batch of decisions in one transaction. Decisions
// whose journal and sequence pair is already stored are skipped, so journal
// replay is idempotent.
func (s *Store) InsertDecisions(decisions []model.Decision) error {
	if len(decisions) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("duckdb: begin insert: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR IGNORE INTO swipes ("+decisionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("duckdb: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range decisions {
		var journal, seq any
		if d.Seq > 0 {
			journal, seq = d.Journal, int64(d.Seq)
		}
		swipedAt := d.SwipedAt
		if swipedAt.IsZero() {
			swipedAt = time.Now()
		}
		_, err := stmt.ExecContext(ctx,
			journal, seq, d.Session, d.Deck, d.CardID, d.CardTitle,
			d.Direction, d.Position, d.DX, d.DY, swipedAt.UTC(),
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("duckdb: insert decision %s: %w", d.CardID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("duckdb: commit insert: %w", err)
	}
	return nil
}

// Tally counts decisions per direction. An empty deck counts every deck.
func (s *Store) Tally(deck string) (model.Tally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	query := "SELECT direction, COUNT(*) FROM swipes"
	var args []any
	if deck != "" {
		query += " WHERE deck = ?"
		args = append(args, deck)
	}
	query += " GROUP BY direction"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return model.Tally{}, fmt.Errorf("duckdb: tally: %w", err)
	}
	defer rows.Close()

	t := model.Tally{Deck: deck}
	for rows.Next() {
		var (
			dir   string
			count int64
		)
		if err := rows.Scan(&dir, &count); err != nil {
			return model.Tally{}, fmt.Errorf("duckdb: tally scan: %w", err)
		}
		switch dir {
		case model.DirectionLeft:
			t.Left = count
		case model.DirectionRight:
			t.Right = count
		}
	}
	return t, rows.Err()
}

// RecentDecisions returns up to limit decisions, newest first. An empty deck
// returns decisions from every deck.
func (s *Store) RecentDecisions(deck string, limit int) ([]model.Decision, error) {
	if limit <= 0 {
		limit = model.DefaultRecentLimit
	}

	var (
		where []string
		args  []any
	)
	if deck != "" {
		where = append(where, "deck = ?")
		args = append(args, deck)
	}
	args = append(args, limit)
	return s.selectDecisions(where, "ORDER BY swiped_at DESC LIMIT ?", args)
}

// CardHistory returns every decision recorded for a card, oldest first.
func (s *Store) CardHistory(cardID string) ([]model.Decision, error) {
	return s.selectDecisions([]string{"card_id = ?"}, "ORDER BY swiped_at ASC", []any{cardID})
}

// Decks lists deck names with their decision counts, busiest first.
func (s *Store) Decks() ([]model.DeckCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"SELECT deck, COUNT(*) AS n FROM swipes GROUP BY deck ORDER BY n DESC, deck ASC")
	if err != nil {
		return nil, fmt.Errorf("duckdb: list decks: %w", err)
	}
	defer rows.Close()

	var out []model.DeckCount
	for rows.Next() {
		var dc model.DeckCount
		if err := rows.Scan(&dc.Deck, &dc.Count); err != nil {
			return nil, fmt.Errorf("duckdb: list decks scan: %w", err)
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

// DeleteBefore removes decisions older than cutoff and returns how many were
// removed.
func (s *Store) DeleteBefore(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	res, err := s.db.ExecContext(ctx, "DELETE FROM swipes WHERE swiped_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("duckdb: delete before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return res.RowsAffected()
}

func (s *Store) selectDecisions(where []string, tail string, args []any) ([]model.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	query := "SELECT " + decisionColumns + " FROM swipes"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " " + tail

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("duckdb: select decisions: %w", err)
	}
	defer rows.Close()

	var out []model.Decision
	for rows.Next() {
		var (
			d       model.Decision
			journal sql.NullString
			seq     sql.NullInt64
		)
		if err := rows.Scan(&journal, &seq, &d.Session, &d.Deck, &d.CardID, &d.CardTitle,
			&d.Direction, &d.Position, &d.DX, &d.DY, &d.SwipedAt); err != nil {
			return nil, fmt.Errorf("duckdb: scan decision: %w", err)
		}
		if seq.Valid {
			d.Journal, d.Seq = journal.String, uint64(seq.Int64)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

package sqlite

import (
	"fmt"

	"chartarcade/internal/game"
)

// AppendTrades writes executed trades to the journal in one
// transaction. Trades already journaled (same ID) are skipped, so the
// caller can safely re-send a session's full trade log.
func (s *Store) AppendTrades(sessionID string, trades []game.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite journal begin: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO trade_journal
			(id, session_id, ticker, type, bar_index, price, shares, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite journal prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		if _, err := stmt.Exec(t.ID, sessionID, t.Ticker, string(t.Type),
			t.BarIndex, t.Price, t.Shares, t.At.Unix()); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite journal insert: %w", err)
		}
	}
	return tx.Commit()
}

// SessionTradeCount returns how many trades a session has journaled.
func (s *Store) SessionTradeCount(sessionID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM trade_journal WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite journal count: %w", err)
	}
	return n, nil
}

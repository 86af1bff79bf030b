package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"chartarcade/internal/game"
)

// DefaultPlayer is the stats row key for the single local player.
const DefaultPlayer = "local"

// SaveStats upserts the session aggregate for a player. The stats blob
// is stored as JSON so counter additions never need a migration.
func (s *Store) SaveStats(player string, stats game.SessionStats) error {
	blob, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("sqlite marshal stats: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO session_stats (player, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(player) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, player, string(blob), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("sqlite save stats: %w", err)
	}
	return nil
}

// LoadStats rehydrates a player's session aggregate. A missing row is
// not an error: a zero SessionStats is returned for a fresh player.
func (s *Store) LoadStats(player string) (game.SessionStats, error) {
	var blob string
	err := s.db.QueryRow(`SELECT data FROM session_stats WHERE player = ?`, player).Scan(&blob)
	if err == sql.ErrNoRows {
		return game.SessionStats{}, nil
	}
	if err != nil {
		return game.SessionStats{}, fmt.Errorf("sqlite load stats: %w", err)
	}

	var stats game.SessionStats
	if err := json.Unmarshal([]byte(blob), &stats); err != nil {
		return game.SessionStats{}, fmt.Errorf("sqlite parse stats: %w", err)
	}
	return stats, nil
}

// ResetStats deletes a player's persisted aggregate.
func (s *Store) ResetStats(player string) error {
	_, err := s.db.Exec(`DELETE FROM session_stats WHERE player = ?`, player)
	if err != nil {
		return fmt.Errorf("sqlite reset stats: %w", err)
	}
	return nil
}

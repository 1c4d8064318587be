package store

import (
	"database/sql"
	"fmt"

	"github.com/bithab/bithab/internal/habit"
)

// LogStore is the persistence collaborator for the in-memory habit log. It
// never enforces streak or calendar semantics; it only mirrors date/unit
// rows. The caller owns the empty-set rule: when a day's set empties it calls
// DeleteDay, so a date never persists with zero units.
type LogStore struct {
	db *sql.DB
}

func NewLogStore(db *sql.DB) *LogStore {
	return &LogStore{db: db}
}

// LoadAll bulk-loads every logged day for the user into a habit.Log.
func (s *LogStore) LoadAll(userID int64) (habit.Log, error) {
	rows, err := s.db.Query(`SELECT date, unit_id FROM logs WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("load logs: %w", err)
	}
	defer rows.Close()

	log := habit.Log{}
	for rows.Next() {
		var date, unitID string
		if err := rows.Scan(&date, &unitID); err != nil {
			return nil, fmt.Errorf("scan log row: %w", err)
		}
		day := log[date]
		if day == nil {
			day = make(map[string]bool)
			log[date] = day
		}
		day[unitID] = true
	}
	return log, rows.Err()
}

// SaveDay replaces the persisted set for one date with unitIDs.
func (s *LogStore) SaveDay(userID int64, date string, unitIDs []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM logs WHERE user_id = ? AND date = ?`, userID, date); err != nil {
		return fmt.Errorf("clear day: %w", err)
	}
	for _, id := range unitIDs {
		if _, err := tx.Exec(
			`INSERT INTO logs (user_id, date, unit_id) VALUES (?, ?, ?)`,
			userID, date, id,
		); err != nil {
			return fmt.Errorf("insert log row: %w", err)
		}
	}
	return tx.Commit()
}

// DeleteDay removes every row for one date.
func (s *LogStore) DeleteDay(userID int64, date string) error {
	_, err := s.db.Exec(`DELETE FROM logs WHERE user_id = ? AND date = ?`, userID, date)
	if err != nil {
		return fmt.Errorf("delete day: %w", err)
	}
	return nil
}

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/bithab/bithab/internal/model"
)

type NoteStore struct {
	db *sql.DB
}

func NewNoteStore(db *sql.DB) *NoteStore {
	return &NoteStore{db: db}
}

// GetDayNote returns the note attached to a calendar date, or nil if the
// date has no note.
func (s *NoteStore) GetDayNote(userID int64, date string) (*model.DayNote, error) {
	var n model.DayNote
	err := s.db.QueryRow(
		`SELECT user_id, date, body, updated_at FROM day_notes WHERE user_id = ? AND date = ?`,
		userID, date,
	).Scan(&n.UserID, &n.Date, &n.Body, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get day note: %w", err)
	}
	return &n, nil
}

// SetDayNote upserts the note for a date. An empty body deletes the row so
// the calendar does not flag the day as annotated.
func (s *NoteStore) SetDayNote(userID int64, date, body string) (*model.DayNote, error) {
	if body == "" {
		if err := s.DeleteDayNote(userID, date); err != nil {
			return nil, err
		}
		return nil, nil
	}

	_, err := s.db.Exec(
		`INSERT INTO day_notes (user_id, date, body) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, date) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`,
		userID, date, body,
	)
	if err != nil {
		return nil, fmt.Errorf("set day note: %w", err)
	}
	return s.GetDayNote(userID, date)
}

func (s *NoteStore) DeleteDayNote(userID int64, date string) error {
	_, err := s.db.Exec(`DELETE FROM day_notes WHERE user_id = ? AND date = ?`, userID, date)
	if err != nil {
		return fmt.Errorf("delete day note: %w", err)
	}
	return nil
}

// ListDayNoteDates returns the set of dates that carry a note, for marking
// calendar cells.
func (s *NoteStore) ListDayNoteDates(userID int64) ([]string, error) {
	rows, err := s.db.Query(`SELECT date FROM day_notes WHERE user_id = ? ORDER BY date ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list day note dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan day note date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func scanNote(scanner interface{ Scan(...any) error }) (*model.Note, error) {
	var n model.Note
	err := scanner.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

const noteCols = `id, user_id, title, body, created_at, updated_at`

func (s *NoteStore) Create(userID int64, title, body string) (*model.Note, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO notes (id, user_id, title, body) VALUES (?, ?, ?, ?)`,
		id, userID, title, body,
	)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return s.GetByID(userID, id)
}

func (s *NoteStore) GetByID(userID int64, id string) (*model.Note, error) {
	row := s.db.QueryRow(
		`SELECT `+noteCols+` FROM notes WHERE id = ? AND user_id = ?`, id, userID,
	)
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

func (s *NoteStore) List(userID int64) ([]model.Note, error) {
	rows, err := s.db.Query(
		`SELECT `+noteCols+` FROM notes WHERE user_id = ? ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

func (s *NoteStore) Update(userID int64, id, title, body string) (*model.Note, error) {
	_, err := s.db.Exec(
		`UPDATE notes SET title = ?, body = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		title, body, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return s.GetByID(userID, id)
}

func (s *NoteStore) Delete(userID int64, id string) error {
	_, err := s.db.Exec(`DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

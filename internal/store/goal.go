package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/bithab/bithab/internal/model"
)

type GoalStore struct {
	db *sql.DB
}

func NewGoalStore(db *sql.DB) *GoalStore {
	return &GoalStore{db: db}
}

func scanGoal(scanner interface{ Scan(...any) error }) (*model.Goal, error) {
	var g model.Goal
	var completed int
	err := scanner.Scan(&g.ID, &g.UserID, &g.Name, &completed, &g.SortOrder, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	g.Completed = completed != 0
	return &g, nil
}

const goalCols = `id, user_id, name, completed, sort_order, created_at, updated_at`

func (s *GoalStore) Create(userID int64, name string) (*model.Goal, error) {
	id := uuid.NewString()

	var next int
	if err := s.db.QueryRow(
		`SELECT COALESCE(MAX(sort_order), -1) + 1 FROM goals WHERE user_id = ?`, userID,
	).Scan(&next); err != nil {
		return nil, fmt.Errorf("next sort order: %w", err)
	}

	_, err := s.db.Exec(
		`INSERT INTO goals (id, user_id, name, sort_order) VALUES (?, ?, ?, ?)`,
		id, userID, name, next,
	)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	return s.GetByID(userID, id)
}

func (s *GoalStore) GetByID(userID int64, id string) (*model.Goal, error) {
	row := s.db.QueryRow(
		`SELECT `+goalCols+` FROM goals WHERE id = ? AND user_id = ?`, id, userID,
	)
	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (s *GoalStore) List(userID int64) ([]model.Goal, error) {
	rows, err := s.db.Query(
		`SELECT `+goalCols+` FROM goals WHERE user_id = ? ORDER BY sort_order ASC, created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []model.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *GoalStore) Update(userID int64, id, name string) (*model.Goal, error) {
	_, err := s.db.Exec(
		`UPDATE goals SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		name, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return s.GetByID(userID, id)
}

// ToggleCompleted flips the goal's completed flag.
func (s *GoalStore) ToggleCompleted(userID int64, id string) (*model.Goal, error) {
	g, err := s.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, nil
	}

	newCompleted := 0
	if !g.Completed {
		newCompleted = 1
	}

	_, err = s.db.Exec(
		`UPDATE goals SET completed = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		newCompleted, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle goal: %w", err)
	}
	return s.GetByID(userID, id)
}

func (s *GoalStore) Delete(userID int64, id string) error {
	_, err := s.db.Exec(`DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

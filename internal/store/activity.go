package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/bithab/bithab/internal/model"
)

type ActivityStore struct {
	db *sql.DB
}

func NewActivityStore(db *sql.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

func scanActivity(scanner interface{ Scan(...any) error }) (*model.Activity, error) {
	var a model.Activity
	err := scanner.Scan(&a.ID, &a.UserID, &a.Name, &a.SortOrder, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanSubActivity(scanner interface{ Scan(...any) error }) (*model.SubActivity, error) {
	var s model.SubActivity
	err := scanner.Scan(&s.ID, &s.ActivityID, &s.Name, &s.Color, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const activityCols = `id, user_id, name, sort_order, created_at, updated_at`
const subActivityCols = `id, activity_id, name, color, sort_order, created_at, updated_at`

func (s *ActivityStore) Create(userID int64, name string) (*model.Activity, error) {
	id := uuid.NewString()

	var next int
	if err := s.db.QueryRow(
		`SELECT COALESCE(MAX(sort_order), -1) + 1 FROM activities WHERE user_id = ?`, userID,
	).Scan(&next); err != nil {
		return nil, fmt.Errorf("next sort order: %w", err)
	}

	_, err := s.db.Exec(
		`INSERT INTO activities (id, user_id, name, sort_order) VALUES (?, ?, ?, ?)`,
		id, userID, name, next,
	)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	return s.GetByID(userID, id)
}

func (s *ActivityStore) GetByID(userID int64, id string) (*model.Activity, error) {
	row := s.db.QueryRow(
		`SELECT `+activityCols+` FROM activities WHERE id = ? AND user_id = ?`, id, userID,
	)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}

	subs, err := s.listSubs(id)
	if err != nil {
		return nil, err
	}
	a.SubActivities = subs
	return a, nil
}

// List returns the user's activities in sort order, each with its
// sub-activities attached in their declared order.
func (s *ActivityStore) List(userID int64) ([]model.Activity, error) {
	rows, err := s.db.Query(
		`SELECT `+activityCols+` FROM activities WHERE user_id = ? ORDER BY sort_order ASC, created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []model.Activity
	byID := make(map[string]int)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		byID[a.ID] = len(activities)
		activities = append(activities, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	subRows, err := s.db.Query(
		`SELECT `+subActivityCols+` FROM sub_activities
		 WHERE activity_id IN (SELECT id FROM activities WHERE user_id = ?)
		 ORDER BY sort_order ASC, created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sub-activities: %w", err)
	}
	defer subRows.Close()

	for subRows.Next() {
		sub, err := scanSubActivity(subRows)
		if err != nil {
			return nil, fmt.Errorf("scan sub-activity: %w", err)
		}
		if i, ok := byID[sub.ActivityID]; ok {
			activities[i].SubActivities = append(activities[i].SubActivities, *sub)
		}
	}
	return activities, subRows.Err()
}

func (s *ActivityStore) Update(userID int64, id, name string) (*model.Activity, error) {
	_, err := s.db.Exec(
		`UPDATE activities SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		name, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}
	return s.GetByID(userID, id)
}

// Delete removes the activity, its sub-activities, and every log row that
// references the activity or any of its sub-activities.
func (s *ActivityStore) Delete(userID int64, id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM logs WHERE user_id = ? AND (unit_id = ? OR unit_id IN
			(SELECT id FROM sub_activities WHERE activity_id = ?))`,
		userID, id, id,
	); err != nil {
		return fmt.Errorf("delete activity logs: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM activities WHERE id = ? AND user_id = ?`, id, userID,
	); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return tx.Commit()
}

func (s *ActivityStore) listSubs(activityID string) ([]model.SubActivity, error) {
	rows, err := s.db.Query(
		`SELECT `+subActivityCols+` FROM sub_activities WHERE activity_id = ? ORDER BY sort_order ASC, created_at ASC`,
		activityID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sub-activities: %w", err)
	}
	defer rows.Close()

	var subs []model.SubActivity
	for rows.Next() {
		sub, err := scanSubActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sub-activity: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func (s *ActivityStore) CreateSub(activityID, name, color string) (*model.SubActivity, error) {
	id := uuid.NewString()

	var next int
	if err := s.db.QueryRow(
		`SELECT COALESCE(MAX(sort_order), -1) + 1 FROM sub_activities WHERE activity_id = ?`, activityID,
	).Scan(&next); err != nil {
		return nil, fmt.Errorf("next sub sort order: %w", err)
	}

	_, err := s.db.Exec(
		`INSERT INTO sub_activities (id, activity_id, name, color, sort_order) VALUES (?, ?, ?, ?, ?)`,
		id, activityID, name, color, next,
	)
	if err != nil {
		return nil, fmt.Errorf("insert sub-activity: %w", err)
	}
	return s.GetSubByID(id)
}

func (s *ActivityStore) GetSubByID(id string) (*model.SubActivity, error) {
	row := s.db.QueryRow(`SELECT `+subActivityCols+` FROM sub_activities WHERE id = ?`, id)
	sub, err := scanSubActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sub-activity: %w", err)
	}
	return sub, nil
}

func (s *ActivityStore) UpdateSub(id, name, color string) (*model.SubActivity, error) {
	_, err := s.db.Exec(
		`UPDATE sub_activities SET name = ?, color = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, color, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update sub-activity: %w", err)
	}
	return s.GetSubByID(id)
}

// DeleteSub removes one sub-activity and its log rows.
func (s *ActivityStore) DeleteSub(userID int64, id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM logs WHERE user_id = ? AND unit_id = ?`, userID, id,
	); err != nil {
		return fmt.Errorf("delete sub-activity logs: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM sub_activities WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete sub-activity: %w", err)
	}
	return tx.Commit()
}

// OwnerOfUnit resolves which of the user's activities owns the given loggable
// unit id (either an atomic activity's own id or a sub-activity id). Returns
// nil when no activity owns it.
func (s *ActivityStore) OwnerOfUnit(userID int64, unitID string) (*model.Activity, error) {
	a, err := s.GetByID(userID, unitID)
	if err != nil {
		return nil, err
	}
	if a != nil {
		return a, nil
	}

	sub, err := s.GetSubByID(unitID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, nil
	}
	return s.GetByID(userID, sub.ActivityID)
}

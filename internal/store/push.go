package store

import (
	"database/sql"
	"fmt"

	"github.com/bithab/bithab/internal/model"
)

type PushStore struct {
	db *sql.DB
}

func NewPushStore(db *sql.DB) *PushStore {
	return &PushStore{db: db}
}

// Subscribe upserts a push subscription keyed by endpoint. Re-subscribing
// from the same browser replaces the stored keys.
func (s *PushStore) Subscribe(userID int64, endpoint, p256dh, auth string) error {
	_, err := s.db.Exec(
		`INSERT INTO push_subscriptions (user_id, endpoint, p256dh_key, auth_key) VALUES (?, ?, ?, ?)
		 ON CONFLICT(endpoint) DO UPDATE SET user_id = excluded.user_id, p256dh_key = excluded.p256dh_key, auth_key = excluded.auth_key`,
		userID, endpoint, p256dh, auth,
	)
	if err != nil {
		return fmt.Errorf("insert push subscription: %w", err)
	}
	return nil
}

func (s *PushStore) Unsubscribe(userID int64, endpoint string) error {
	_, err := s.db.Exec(
		`DELETE FROM push_subscriptions WHERE user_id = ? AND endpoint = ?`,
		userID, endpoint,
	)
	if err != nil {
		return fmt.Errorf("delete push subscription: %w", err)
	}
	return nil
}

// DeleteByEndpoint removes a subscription regardless of owner, for pruning
// endpoints the push service reports as gone.
func (s *PushStore) DeleteByEndpoint(endpoint string) error {
	_, err := s.db.Exec(`DELETE FROM push_subscriptions WHERE endpoint = ?`, endpoint)
	if err != nil {
		return fmt.Errorf("delete push subscription: %w", err)
	}
	return nil
}

func (s *PushStore) ListByUser(userID int64) ([]model.PushSubscription, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, endpoint, p256dh_key, auth_key, created_at
		 FROM push_subscriptions WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list push subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []model.PushSubscription
	for rows.Next() {
		var sub model.PushSubscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Endpoint, &sub.P256dhKey, &sub.AuthKey, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan push subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// WasReminderSent reports whether a reminder already went out for a date.
func (s *PushStore) WasReminderSent(userID int64, date string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM sent_reminders WHERE user_id = ? AND date = ?`,
		userID, date,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check sent reminder: %w", err)
	}
	return n > 0, nil
}

func (s *PushStore) MarkReminderSent(userID int64, date string) error {
	_, err := s.db.Exec(
		`INSERT INTO sent_reminders (user_id, date) VALUES (?, ?)
		 ON CONFLICT(user_id, date) DO NOTHING`,
		userID, date,
	)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}

// DeleteRemindersBefore prunes reminder records older than a date.
func (s *PushStore) DeleteRemindersBefore(date string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM sent_reminders WHERE date < ?`, date)
	if err != nil {
		return 0, fmt.Errorf("delete old reminders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

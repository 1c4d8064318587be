package store

import (
	"testing"

	"github.com/bithab/bithab/internal/database"
)

func setupSettingsTestDB(t *testing.T) (*SettingsStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	us := NewUserStore(db)
	user, err := us.Create("test@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return NewSettingsStore(db), user.ID
}

func TestSettingsSetGet(t *testing.T) {
	ss, userID := setupSettingsTestDB(t)

	if err := ss.Set(userID, SettingTheme, "dark"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	got, err := ss.Get(userID, SettingTheme)
	if err != nil {
		t.Fatalf("get theme: %v", err)
	}
	if got != "dark" {
		t.Errorf("theme = %q, want %q", got, "dark")
	}

	// Upsert overwrites.
	if err := ss.Set(userID, SettingTheme, "light"); err != nil {
		t.Fatalf("overwrite theme: %v", err)
	}
	got, err = ss.Get(userID, SettingTheme)
	if err != nil {
		t.Fatalf("get theme: %v", err)
	}
	if got != "light" {
		t.Errorf("theme = %q, want %q", got, "light")
	}
}

func TestSettingsGetUnset(t *testing.T) {
	ss, userID := setupSettingsTestDB(t)

	got, err := ss.Get(userID, SettingReminderTime)
	if err != nil {
		t.Fatalf("get unset: %v", err)
	}
	if got != "" {
		t.Errorf("value = %q, want empty", got)
	}
}

func TestSettingsGetAll(t *testing.T) {
	ss, userID := setupSettingsTestDB(t)

	if err := ss.Set(userID, SettingTheme, "dark"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if err := ss.Set(userID, SettingReminderTime, "20:00"); err != nil {
		t.Fatalf("set reminder time: %v", err)
	}

	all, err := ss.GetAll(userID)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("settings = %d, want 2", len(all))
	}
	if all[SettingTheme] != "dark" || all[SettingReminderTime] != "20:00" {
		t.Errorf("settings = %v", all)
	}
}

func TestSettingsDelete(t *testing.T) {
	ss, userID := setupSettingsTestDB(t)

	if err := ss.Set(userID, SettingTheme, "dark"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if err := ss.Delete(userID, SettingTheme); err != nil {
		t.Fatalf("delete theme: %v", err)
	}
	got, err := ss.Get(userID, SettingTheme)
	if err != nil {
		t.Fatalf("get deleted: %v", err)
	}
	if got != "" {
		t.Errorf("value = %q, want empty", got)
	}
}

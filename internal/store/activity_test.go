package store

import (
	"testing"

	"github.com/bithab/bithab/internal/database"
)

func setupActivityTestDB(t *testing.T) (*ActivityStore, *LogStore, int64) {
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
	return NewActivityStore(db), NewLogStore(db), user.ID
}

func TestActivityCRUD(t *testing.T) {
	as, _, userID := setupActivityTestDB(t)

	act, err := as.Create(userID, "Exercise")
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	if act.Name != "Exercise" {
		t.Errorf("name = %q, want %q", act.Name, "Exercise")
	}
	if act.ID == "" {
		t.Error("expected non-empty id")
	}
	if len(act.SubActivities) != 0 {
		t.Errorf("sub activities = %d, want 0", len(act.SubActivities))
	}

	got, err := as.GetByID(userID, act.ID)
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}
	if got == nil {
		t.Fatal("expected activity, got nil")
	}
	if got.Name != "Exercise" {
		t.Errorf("name = %q, want %q", got.Name, "Exercise")
	}

	updated, err := as.Update(userID, act.ID, "Workout")
	if err != nil {
		t.Fatalf("update activity: %v", err)
	}
	if updated.Name != "Workout" {
		t.Errorf("name = %q, want %q", updated.Name, "Workout")
	}

	if err := as.Delete(userID, act.ID); err != nil {
		t.Fatalf("delete activity: %v", err)
	}
	got, err = as.GetByID(userID, act.ID)
	if err != nil {
		t.Fatalf("get deleted activity: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestActivityGetMissing(t *testing.T) {
	as, _, userID := setupActivityTestDB(t)

	got, err := as.GetByID(userID, "no-such-id")
	if err != nil {
		t.Fatalf("get missing activity: %v", err)
	}
	if got != nil {
		t.Error("expected nil for missing activity")
	}
}

func TestActivityOwnerScoping(t *testing.T) {
	as, _, userID := setupActivityTestDB(t)

	act, err := as.Create(userID, "Reading")
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}

	got, err := as.GetByID(userID+1, act.ID)
	if err != nil {
		t.Fatalf("get as other user: %v", err)
	}
	if got != nil {
		t.Error("expected nil when queried by another user")
	}
}

func TestSubActivityDeclaredOrder(t *testing.T) {
	as, _, userID := setupActivityTestDB(t)

	act, err := as.Create(userID, "Exercise")
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}

	names := []string{"Running", "Cycling", "Swimming"}
	colors := []string{"#ff0000", "#00ff00", "#0000ff"}
	for i := range names {
		if _, err := as.CreateSub(act.ID, names[i], colors[i]); err != nil {
			t.Fatalf("create sub %s: %v", names[i], err)
		}
	}

	got, err := as.GetByID(userID, act.ID)
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}
	if len(got.SubActivities) != 3 {
		t.Fatalf("sub activities = %d, want 3", len(got.SubActivities))
	}
	for i, sub := range got.SubActivities {
		if sub.Name != names[i] {
			t.Errorf("sub[%d].Name = %q, want %q", i, sub.Name, names[i])
		}
		if sub.Color != colors[i] {
			t.Errorf("sub[%d].Color = %q, want %q", i, sub.Color, colors[i])
		}
	}
}

func TestSubActivityUpdateAndDelete(t *testing.T) {
	as, ls, userID := setupActivityTestDB(t)

	act, err := as.Create(userID, "Exercise")
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	sub, err := as.CreateSub(act.ID, "Running", "#ff0000")
	if err != nil {
		t.Fatalf("create sub: %v", err)
	}

	updated, err := as.UpdateSub(sub.ID, "Jogging", "#aa0000")
	if err != nil {
		t.Fatalf("update sub: %v", err)
	}
	if updated.Name != "Jogging" || updated.Color != "#aa0000" {
		t.Errorf("sub = %q/%q, want Jogging/#aa0000", updated.Name, updated.Color)
	}

	if err := ls.SaveDay(userID, "2026-08-30", []string{sub.ID}); err != nil {
		t.Fatalf("save day: %v", err)
	}

	if err := as.DeleteSub(userID, sub.ID); err != nil {
		t.Fatalf("delete sub: %v", err)
	}

	log, err := ls.LoadAll(userID)
	if err != nil {
		t.Fatalf("load log: %v", err)
	}
	if log.Logged("2026-08-30", sub.ID) {
		t.Error("expected sub's log entries removed with the sub")
	}
}

func TestActivityDeleteCascadesLogs(t *testing.T) {
	as, ls, userID := setupActivityTestDB(t)

	act, err := as.Create(userID, "Meditation")
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	sub, err := as.CreateSub(act.ID, "Morning", "#123456")
	if err != nil {
		t.Fatalf("create sub: %v", err)
	}

	if err := ls.SaveDay(userID, "2026-08-29", []string{sub.ID}); err != nil {
		t.Fatalf("save day: %v", err)
	}
	if err := ls.SaveDay(userID, "2026-08-30", []string{act.ID}); err != nil {
		t.Fatalf("save day: %v", err)
	}

	if err := as.Delete(userID, act.ID); err != nil {
		t.Fatalf("delete activity: %v", err)
	}

	log, err := ls.LoadAll(userID)
	if err != nil {
		t.Fatalf("load log: %v", err)
	}
	if len(log) != 0 {
		t.Errorf("log entries remain after delete: %v", log)
	}
}

func TestOwnerOfUnit(t *testing.T) {
	as, _, userID := setupActivityTestDB(t)

	atomic, err := as.Create(userID, "Meditation")
	if err != nil {
		t.Fatalf("create atomic: %v", err)
	}
	composite, err := as.Create(userID, "Exercise")
	if err != nil {
		t.Fatalf("create composite: %v", err)
	}
	sub, err := as.CreateSub(composite.ID, "Running", "#ff0000")
	if err != nil {
		t.Fatalf("create sub: %v", err)
	}

	owner, err := as.OwnerOfUnit(userID, atomic.ID)
	if err != nil {
		t.Fatalf("owner of atomic: %v", err)
	}
	if owner == nil || owner.ID != atomic.ID {
		t.Errorf("owner of atomic id = %v, want %s", owner, atomic.ID)
	}

	owner, err = as.OwnerOfUnit(userID, sub.ID)
	if err != nil {
		t.Fatalf("owner of sub: %v", err)
	}
	if owner == nil || owner.ID != composite.ID {
		t.Errorf("owner of sub = %v, want %s", owner, composite.ID)
	}

	owner, err = as.OwnerOfUnit(userID, "no-such-unit")
	if err != nil {
		t.Fatalf("owner of unknown: %v", err)
	}
	if owner != nil {
		t.Error("expected nil owner for unknown unit")
	}
}

func TestActivityListOrder(t *testing.T) {
	as, _, userID := setupActivityTestDB(t)

	for _, name := range []string{"First", "Second", "Third"} {
		if _, err := as.Create(userID, name); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	list, err := as.List(userID)
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("activities = %d, want 3", len(list))
	}
	want := []string{"First", "Second", "Third"}
	for i, act := range list {
		if act.Name != want[i] {
			t.Errorf("list[%d].Name = %q, want %q", i, act.Name, want[i])
		}
	}
}

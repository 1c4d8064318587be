package habit

// Kind distinguishes how an activity is logged.
type Kind int

const (
	// KindAtomic activities are logged under their own ID.
	KindAtomic Kind = iota
	// KindComposite activities are logged only through their sub-activities;
	// the parent ID never appears in the log.
	KindComposite
)

// SubActivity is a colored child unit of a composite activity. It is
// independently loggable and owned exclusively by its parent.
type SubActivity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Activity is a trackable habit. The order of SubActivities is the user's
// declared order and is preserved everywhere, including calendar marks.
type Activity struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	SubActivities []SubActivity `json:"sub_activities"`
}

// Kind reports whether the activity is logged atomically or through
// sub-activities.
func (a Activity) Kind() Kind {
	if len(a.SubActivities) > 0 {
		return KindComposite
	}
	return KindAtomic
}

// Units returns the loggable unit IDs for the activity in declared order:
// the activity's own ID for an atomic activity, the sub-activity IDs for a
// composite one.
func (a Activity) Units() []string {
	switch a.Kind() {
	case KindComposite:
		ids := make([]string, len(a.SubActivities))
		for i, sub := range a.SubActivities {
			ids[i] = sub.ID
		}
		return ids
	default:
		return []string{a.ID}
	}
}

// OwnsUnit reports whether unitID is a loggable unit of this activity.
func (a Activity) OwnsUnit(unitID string) bool {
	for _, id := range a.Units() {
		if id == unitID {
			return true
		}
	}
	return false
}

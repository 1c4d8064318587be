package push

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bithab/bithab/internal/habit"
	"github.com/bithab/bithab/internal/model"
	"github.com/bithab/bithab/internal/store"
)

// defaultReminderTime is used when a user has not set one.
const defaultReminderTime = "20:00"

// Scheduler periodically checks whether users with nothing logged today
// should get an evening reminder before their streaks break.
type Scheduler struct {
	mu         sync.RWMutex
	service    *Service
	push       *store.PushStore
	users      *store.UserStore
	activities *store.ActivityStore
	logs       *store.LogStore
	settings   *store.SettingsStore
	interval   time.Duration
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewScheduler creates a reminder scheduler.
func NewScheduler(svc *Service, pushStore *store.PushStore, userStore *store.UserStore, activityStore *store.ActivityStore, logStore *store.LogStore, settingsStore *store.SettingsStore) *Scheduler {
	return &Scheduler{
		service:    svc,
		push:       pushStore,
		users:      userStore,
		activities: activityStore,
		logs:       logStore,
		settings:   settingsStore,
		interval:   60 * time.Second,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(time.Now())
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick(now time.Time) {
	userIDs, err := s.users.ListIDs()
	if err != nil {
		log.Printf("push scheduler: list users: %v", err)
		return
	}

	for _, uid := range userIDs {
		s.checkReminder(uid, now)
	}
}

func (s *Scheduler) checkReminder(userID int64, now time.Time) {
	reminderAt, err := s.settings.Get(userID, store.SettingReminderTime)
	if err != nil {
		log.Printf("push scheduler: reminder time: %v", err)
		return
	}
	if reminderAt == "" {
		reminderAt = defaultReminderTime
	}
	if now.Format("15:04") < reminderAt {
		return
	}

	today := habit.FormatDate(now)
	sent, err := s.push.WasReminderSent(userID, today)
	if err != nil {
		log.Printf("push scheduler: check sent: %v", err)
		return
	}
	if sent {
		return
	}

	logData, err := s.logs.LoadAll(userID)
	if err != nil {
		log.Printf("push scheduler: load log: %v", err)
		return
	}
	if len(logData.UnitIDs(today)) > 0 {
		// Something was logged today — no reminder needed.
		return
	}

	activities, err := s.activities.List(userID)
	if err != nil {
		log.Printf("push scheduler: list activities: %v", err)
		return
	}
	if len(activities) == 0 {
		return
	}

	payload := buildPayload(activities, logData, now)

	subs, err := s.push.ListByUser(userID)
	if err != nil {
		log.Printf("push scheduler: list subs: %v", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	for _, sub := range subs {
		if err := s.service.Send(&sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				s.push.DeleteByEndpoint(sub.Endpoint)
			} else {
				log.Printf("push scheduler: send reminder: %v", err)
			}
		}
	}

	if err := s.push.MarkReminderSent(userID, today); err != nil {
		log.Printf("push scheduler: mark sent: %v", err)
	}
}

// buildPayload names the longest streak that would break if the user logs
// nothing today. Streaks are measured as of yesterday, since today is the
// day the reminder is about.
func buildPayload(activities []model.Activity, logData habit.Log, now time.Time) Payload {
	yesterday := now.AddDate(0, 0, -1)

	var atRiskName string
	var atRiskLen int
	for _, act := range activities {
		st := habit.ComputeStreaks(act.Habit(), logData, yesterday)
		if st.Current > atRiskLen {
			atRiskLen = st.Current
			atRiskName = act.Name
		}
	}

	body := "You haven't logged anything today."
	if atRiskLen > 0 {
		body = fmt.Sprintf("Your %d-day %s streak ends tonight if you don't log today.", atRiskLen, atRiskName)
	}

	return Payload{
		Title: "BitHab",
		Body:  body,
		URL:   "/",
		Tag:   "daily-reminder",
	}
}

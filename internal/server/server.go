package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/bithab/bithab/internal/backup"
	"github.com/bithab/bithab/internal/handler"
	"github.com/bithab/bithab/internal/middleware"
	"github.com/bithab/bithab/internal/push"
	"github.com/bithab/bithab/internal/store"
	ws "github.com/bithab/bithab/internal/websocket"
)

type Config struct {
	SecureCookies bool
	Backup        backup.Config
	VAPIDPublic   string
	VAPIDPrivate  string
}

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	authH         *handler.AuthHandler
	activityH     *handler.ActivityHandler
	logH          *handler.LogHandler
	goalH         *handler.GoalHandler
	noteH         *handler.NoteHandler
	settingsH     *handler.SettingsHandler
	pushH         *handler.PushHandler
	backupH       *handler.BackupHandler
	sessionStore  *store.SessionStore
	pushStore     *store.PushStore
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	pushScheduler *push.Scheduler
	logger        *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	activityStore := store.NewActivityStore(db)
	logStore := store.NewLogStore(db)
	goalStore := store.NewGoalStore(db)
	noteStore := store.NewNoteStore(db)
	settingsStore := store.NewSettingsStore(db)
	pushStore := store.NewPushStore(db)
	backupStore := store.NewBackupStore(db)

	backupMgr := backup.NewManager(cfg.Backup, db, backupStore, func(s backup.Status) {
		// Backup status is global; single-tenant deployments have user 1.
		hub.Broadcast(1, ws.Message{
			Type:   "backup_status",
			Entity: "backup",
			Action: string(s.State),
			Extra: map[string]any{
				"in_progress": s.InProgress,
				"error":       s.Error,
			},
		})
	})

	var pushSvc *push.Service
	var pushSched *push.Scheduler
	var pushH *handler.PushHandler
	if cfg.VAPIDPublic != "" && cfg.VAPIDPrivate != "" {
		pushSvc = push.NewService(cfg.VAPIDPublic, cfg.VAPIDPrivate)
		pushSched = push.NewScheduler(pushSvc, pushStore, userStore, activityStore, logStore, settingsStore)
		pushH = handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler"))
	}

	return &Server{
		db:            db,
		hub:           hub,
		authH:         handler.NewAuthHandler(userStore, sessionStore, logger.With("component", "auth"), cfg.SecureCookies),
		activityH:     handler.NewActivityHandler(activityStore, hub, logger.With("component", "activity")),
		logH:          handler.NewLogHandler(activityStore, logStore, noteStore, hub, logger.With("component", "log")),
		goalH:         handler.NewGoalHandler(goalStore, hub, logger.With("component", "goal")),
		noteH:         handler.NewNoteHandler(noteStore, hub, logger.With("component", "note")),
		settingsH:     handler.NewSettingsHandler(settingsStore, hub, logger.With("component", "settings")),
		pushH:         pushH,
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, logger.With("component", "backup_handler")),
		sessionStore:  sessionStore,
		pushStore:     pushStore,
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		pushScheduler: pushSched,
		logger:        logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// PushStore returns the push store for cleanup tasks.
func (s *Server) PushStore() *store.PushStore {
	return s.pushStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// PushScheduler returns the push scheduler, nil when VAPID keys are unset.
func (s *Server) PushScheduler() *push.Scheduler {
	return s.pushScheduler
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)

	// Activity API routes
	mux.HandleFunc("GET /api/activities", s.activityH.List)
	mux.HandleFunc("POST /api/activities", s.activityH.Create)
	mux.HandleFunc("GET /api/activities/{id}", s.activityH.Get)
	mux.HandleFunc("PUT /api/activities/{id}", s.activityH.Update)
	mux.HandleFunc("DELETE /api/activities/{id}", s.activityH.Delete)
	mux.HandleFunc("POST /api/activities/{id}/subactivities", s.activityH.CreateSub)
	mux.HandleFunc("PUT /api/subactivities/{id}", s.activityH.UpdateSub)
	mux.HandleFunc("DELETE /api/subactivities/{id}", s.activityH.DeleteSub)

	// Log, calendar, and streak routes
	mux.HandleFunc("POST /api/logs/toggle", s.logH.Toggle)
	mux.HandleFunc("GET /api/logs/{date}", s.logH.Day)
	mux.HandleFunc("GET /api/activities/{id}/calendar", s.logH.Calendar)
	mux.HandleFunc("GET /api/activities/{id}/streaks", s.logH.Streaks)

	// Goal API routes
	mux.HandleFunc("GET /api/goals", s.goalH.List)
	mux.HandleFunc("POST /api/goals", s.goalH.Create)
	mux.HandleFunc("PUT /api/goals/{id}", s.goalH.Update)
	mux.HandleFunc("POST /api/goals/{id}/toggle", s.goalH.Toggle)
	mux.HandleFunc("DELETE /api/goals/{id}", s.goalH.Delete)

	// Day note and general note routes
	mux.HandleFunc("GET /api/days/{date}/note", s.noteH.GetDayNote)
	mux.HandleFunc("PUT /api/days/{date}/note", s.noteH.PutDayNote)
	mux.HandleFunc("GET /api/notes", s.noteH.List)
	mux.HandleFunc("POST /api/notes", s.noteH.Create)
	mux.HandleFunc("PUT /api/notes/{id}", s.noteH.Update)
	mux.HandleFunc("DELETE /api/notes/{id}", s.noteH.Delete)

	// Settings routes
	mux.HandleFunc("GET /api/settings", s.settingsH.Get)
	mux.HandleFunc("PUT /api/settings", s.settingsH.Update)

	// Push notification routes
	if s.pushH != nil {
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	}

	// Backup routes
	mux.HandleFunc("GET /api/backup", s.backupH.List)
	mux.HandleFunc("GET /api/backup/status", s.backupH.Status)
	mux.HandleFunc("POST /api/backup/run", s.backupH.Run)
	mux.HandleFunc("GET /api/backup/{id}/download", s.backupH.Download)
	mux.HandleFunc("POST /api/backup/{id}/restore", s.backupH.Restore)

	// Real-time sync
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}

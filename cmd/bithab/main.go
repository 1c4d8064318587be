package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bithab/bithab/internal/backup"
	"github.com/bithab/bithab/internal/database"
	"github.com/bithab/bithab/internal/habit"
	"github.com/bithab/bithab/internal/logging"
	"github.com/bithab/bithab/internal/push"
	"github.com/bithab/bithab/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("BITHAB_LOG_LEVEL"))

	port := os.Getenv("BITHAB_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("BITHAB_DB_PATH")
	if dbPath == "" {
		dbPath = "bithab.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	vapidPublic := os.Getenv("BITHAB_VAPID_PUBLIC_KEY")
	vapidPrivate := os.Getenv("BITHAB_VAPID_PRIVATE_KEY")
	if vapidPublic == "" || vapidPrivate == "" {
		pub, priv, err := push.GenerateVAPIDKeys()
		if err != nil {
			logger.Warn("generate VAPID keys", "error", err)
		} else {
			logger.Info("generated ephemeral VAPID keys; set BITHAB_VAPID_PUBLIC_KEY and BITHAB_VAPID_PRIVATE_KEY to keep subscriptions across restarts")
			vapidPublic, vapidPrivate = pub, priv
		}
	}

	cfg := server.Config{
		SecureCookies: os.Getenv("BITHAB_SECURE_COOKIES") != "false",
		VAPIDPublic:   vapidPublic,
		VAPIDPrivate:  vapidPrivate,
		Backup: backup.Config{
			S3: backup.S3Config{
				Endpoint:  os.Getenv("BITHAB_S3_ENDPOINT"),
				Bucket:    os.Getenv("BITHAB_S3_BUCKET"),
				Region:    envDefault("BITHAB_S3_REGION", "auto"),
				AccessKey: os.Getenv("BITHAB_S3_ACCESS_KEY"),
				SecretKey: os.Getenv("BITHAB_S3_SECRET_KEY"),
			},
			DBPath:        dbPath,
			Passphrase:    os.Getenv("BITHAB_BACKUP_PASSPHRASE"),
			Hour:          envInt("BITHAB_BACKUP_HOUR", 3),
			RetentionDays: envInt("BITHAB_BACKUP_RETENTION_DAYS", 30),
		},
	}

	srv := server.New(db, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sched := srv.PushScheduler(); sched != nil {
		sched.Start(ctx)
		defer sched.Stop()
	}
	srv.BackupManager().Start(ctx)
	defer srv.BackupManager().Stop()

	go cleanupLoop(ctx, srv)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("BitHab running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

// cleanupLoop prunes expired sessions, stale rate-limit entries, and old
// reminder records once an hour.
func cleanupLoop(ctx context.Context, srv *server.Server) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := srv.SessionStore().DeleteExpired(); err != nil {
				log.Printf("cleanup: delete expired sessions: %v", err)
			} else if n > 0 {
				log.Printf("cleanup: deleted %d expired sessions", n)
			}
			srv.RateLimiter().Cleanup()

			weekAgo := habit.FormatDate(time.Now().AddDate(0, 0, -7))
			if _, err := srv.PushStore().DeleteRemindersBefore(weekAgo); err != nil {
				log.Printf("cleanup: delete old reminders: %v", err)
			}
		}
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

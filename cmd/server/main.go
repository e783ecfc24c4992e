package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"echobackend/internal/config"
	"echobackend/internal/domain"
	"echobackend/internal/event"
	"echobackend/internal/httpserver"
	"echobackend/internal/scheduler"
	"echobackend/internal/security"
	"echobackend/internal/service"
	"echobackend/internal/store/sqlite"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	tokenSvc := security.NewTokenService(cfg.JWTSecret, time.Duration(cfg.AccessTokenMinutes)*time.Minute)

	// Repositories
	noteRepo := sqlite.NewNoteRepo(db)
	inviteRepo := sqlite.NewInviteRepo(db)
	chatRepo := sqlite.NewChatRepo(db)
	msgRepo := sqlite.NewMessageRepo(db)
	counterRepo := sqlite.NewCounterRepo(db)

	clock := domain.SystemClock{}
	sink := event.NewLogSink()
	limits := service.Limits{
		NoteMaxChars:          cfg.NoteMaxChars,
		InviteMessageMaxChars: cfg.InviteMessageMaxChars,
		InviteTTL:             cfg.InviteTTL(),
		ChatTTL:               cfg.ChatTTL(),
		DailyMessageLimit:     cfg.DailyMessageLimit,
		GlobalDailyLimit:      cfg.GlobalDailyMessageLimit,
		CharacterLimit:        cfg.MessageCharacterLimit,
		MessagePaceHours:      cfg.MessagePaceHours,
		NudgeAfter:            cfg.NudgeAfter(),
		CompletionAfter:       cfg.CompletionAfter(),
		SingleThreadEnforced:  cfg.SingleThreadEnforced,
	}

	// Services
	svcs := httpserver.Services{
		Notes:     service.NewNoteService(noteRepo, clock, limits),
		Invites:   service.NewInviteService(noteRepo, inviteRepo, clock, sink, limits),
		Chats:     service.NewChatService(chatRepo, msgRepo, counterRepo, clock, limits),
		Lifecycle: service.NewLifecycleService(chatRepo, inviteRepo, clock, sink, limits),
	}

	// Background lifecycle sweep
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	sweeper := scheduler.NewSweeper(svcs.Lifecycle, cfg.SweepInterval())
	go sweeper.Run(sweepCtx)

	router := httpserver.NewRouter(cfg, tokenSvc, svcs)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		log.Printf("Starting Echo Connection server on %s\n", cfg.HTTPAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server...")
	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

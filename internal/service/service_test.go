package service_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"echobackend/internal/domain"
	"echobackend/internal/service"
	"echobackend/internal/store/sqlite"
)

var testStart = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

// fakeClock is a settable Clock so tests can cross day boundaries and age
// chats without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(at time.Time) *fakeClock {
	return &fakeClock{now: at}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordSink collects published events for assertions.
type recordSink struct {
	mu     sync.Mutex
	events []domain.Event
}

func (s *recordSink) Publish(_ context.Context, e domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordSink) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []string
	for _, e := range s.events {
		res = append(res, e.Name)
	}
	return res
}

func (s *recordSink) last() domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return domain.Event{}
	}
	return s.events[len(s.events)-1]
}

func defaultLimits() service.Limits {
	return service.Limits{
		NoteMaxChars:          300,
		InviteMessageMaxChars: 150,
		InviteTTL:             48 * time.Hour,
		ChatTTL:               14 * 24 * time.Hour,
		DailyMessageLimit:     5,
		GlobalDailyLimit:      25,
		CharacterLimit:        500,
		MessagePaceHours:      0,
		NudgeAfter:            3 * 24 * time.Hour,
		CompletionAfter:       7 * 24 * time.Hour,
		SingleThreadEnforced:  true,
	}
}

// env wires the full service stack onto a throwaway sqlite database.
type env struct {
	notes     *service.NoteService
	invites   *service.InviteService
	chats     *service.ChatService
	lifecycle *service.LifecycleService
	clock     *fakeClock
	sink      *recordSink
}

func newEnv(t *testing.T, limits service.Limits) *env {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := sqlite.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	noteRepo := sqlite.NewNoteRepo(db)
	inviteRepo := sqlite.NewInviteRepo(db)
	chatRepo := sqlite.NewChatRepo(db)
	messageRepo := sqlite.NewMessageRepo(db)
	counterRepo := sqlite.NewCounterRepo(db)

	clock := newFakeClock(testStart)
	sink := &recordSink{}

	return &env{
		notes:     service.NewNoteService(noteRepo, clock, limits),
		invites:   service.NewInviteService(noteRepo, inviteRepo, clock, sink, limits),
		chats:     service.NewChatService(chatRepo, messageRepo, counterRepo, clock, limits),
		lifecycle: service.NewLifecycleService(chatRepo, inviteRepo, clock, sink, limits),
		clock:     clock,
		sink:      sink,
	}
}

// startChat walks the whole entry path: sender leaves a quiet note,
// recipient responds with an invite, sender accepts. Returns the chat.
func startChat(t *testing.T, e *env, noteSender, noteRecipient string) *domain.LimitedChat {
	t.Helper()
	ctx := context.Background()

	note, err := e.notes.Send(ctx, noteSender, noteRecipient, "thought of you at the book fair")
	if err != nil {
		t.Fatalf("send note: %v", err)
	}
	inv, err := e.invites.Create(ctx, note.ID, noteRecipient, "tell me more")
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}
	chat, err := e.invites.Accept(ctx, inv.ID, noteSender)
	if err != nil {
		t.Fatalf("accept invite: %v", err)
	}
	return chat
}

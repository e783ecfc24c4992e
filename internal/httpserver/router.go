package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"echobackend/internal/config"
	"echobackend/internal/security"
	"echobackend/internal/service"
)

// Services bundles the lifecycle services the router exposes. They are
// constructed in main so the background sweeper can share them.
type Services struct {
	Notes     *service.NoteService
	Invites   *service.InviteService
	Chats     *service.ChatService
	Lifecycle *service.LifecycleService
}

// NewRouter constructs the main HTTP router and wires routes and middleware.
func NewRouter(cfg *config.Config, tokens *security.TokenService, svcs Services) http.Handler {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"Echo Connection Lifecycle API","version":"1.0.0"}`))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	// API routes; every operation requires an authenticated caller.
	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(tokens))

		r.Route("/notes", func(r chi.Router) {
			r.Post("/", handleSendNote(svcs.Notes))
			r.Get("/", handleListReceivedNotes(svcs.Notes))
			r.Get("/sent", handleListSentNotes(svcs.Notes))
			r.Post("/{noteID}/read", handleMarkNoteRead(svcs.Notes))
			r.Post("/{noteID}/invite", handleCreateInvite(svcs.Invites))
		})

		r.Route("/invites", func(r chi.Router) {
			r.Get("/", handleListInvites(svcs.Invites))
			r.Post("/{inviteID}/accept", handleAcceptInvite(svcs.Invites, svcs.Chats))
			r.Post("/{inviteID}/decline", handleDeclineInvite(svcs.Invites))
		})

		r.Route("/chats", func(r chi.Router) {
			r.Get("/", handleListChats(svcs.Chats))
			r.Get("/{chatID}", handleGetChat(svcs.Chats))
			r.Get("/{chatID}/messages", handleListMessages(svcs.Chats))
			r.Post("/{chatID}/messages", handleSendMessage(svcs.Chats))
			r.Post("/{chatID}/read", handleMarkChatRead(svcs.Chats))
			r.Post("/{chatID}/complete", handleCompleteConnection(svcs.Lifecycle, svcs.Chats))
			r.Post("/{chatID}/archive", handleArchiveChat(svcs.Lifecycle, svcs.Chats))
			r.Post("/{chatID}/rekindle", handleRekindleChat(svcs.Lifecycle))
		})

		r.Get("/quota", handleGetQuota(svcs.Chats))
	})

	return r
}

// writeJSON is a small helper to send JSON responses.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

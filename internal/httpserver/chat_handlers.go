package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"echobackend/internal/service"
)

type messageSendRequest struct {
	Text string `json:"message_text"`
}

func handleSendMessage(chats *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "chatID")
		var req messageSendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body", Reason: "validation_error"})
			return
		}

		msg, err := chats.SendMessage(r.Context(), chatID, CurrentUserID(r), req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

func handleListMessages(chats *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "chatID")
		msgs, err := chats.ListMessages(r.Context(), chatID, CurrentUserID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

func handleListChats(chats *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := chats.ListForUser(r.Context(), CurrentUserID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, chats.ToViews(res))
	}
}

func handleGetChat(chats *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "chatID")
		chat, err := chats.Get(r.Context(), chatID, CurrentUserID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, chats.ToView(chat))
	}
}

func handleMarkChatRead(chats *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "chatID")
		if err := chats.MarkMessagesRead(r.Context(), chatID, CurrentUserID(r)); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
	}
}

func handleCompleteConnection(lifecycle *service.LifecycleService, chats *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "chatID")
		chat, err := lifecycle.Complete(r.Context(), chatID, CurrentUserID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, chats.ToView(chat))
	}
}

func handleArchiveChat(lifecycle *service.LifecycleService, chats *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "chatID")
		chat, err := lifecycle.Archive(r.Context(), chatID, CurrentUserID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, chats.ToView(chat))
	}
}

type rekindleRequest struct {
	Message string `json:"invite_message"`
}

func handleRekindleChat(lifecycle *service.LifecycleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "chatID")
		var req rekindleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body", Reason: "validation_error"})
			return
		}

		inv, err := lifecycle.Rekindle(r.Context(), chatID, CurrentUserID(r), req.Message)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, inv)
	}
}

func handleGetQuota(chats *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remaining, err := chats.GlobalRemaining(r.Context(), CurrentUserID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"remaining_today": remaining})
	}
}

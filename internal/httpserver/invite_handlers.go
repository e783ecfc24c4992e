package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"echobackend/internal/service"
)

type inviteCreateRequest struct {
	Message string `json:"invite_message"`
}

func handleCreateInvite(invites *service.InviteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noteID := chi.URLParam(r, "noteID")
		var req inviteCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body", Reason: "validation_error"})
			return
		}

		inv, err := invites.Create(r.Context(), noteID, CurrentUserID(r), req.Message)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, inv)
	}
}

func handleListInvites(invites *service.InviteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := invites.ListForUser(r.Context(), CurrentUserID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleAcceptInvite(invites *service.InviteService, chats *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inviteID := chi.URLParam(r, "inviteID")
		chat, err := invites.Accept(r.Context(), inviteID, CurrentUserID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, chats.ToView(chat))
	}
}

func handleDeclineInvite(invites *service.InviteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inviteID := chi.URLParam(r, "inviteID")
		if err := invites.Decline(r.Context(), inviteID, CurrentUserID(r)); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "declined"})
	}
}

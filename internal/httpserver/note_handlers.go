package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"echobackend/internal/service"
)

type noteSendRequest struct {
	RecipientID string `json:"recipient_id"`
	Text        string `json:"note_text"`
}

func handleSendNote(notes *service.NoteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req noteSendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body", Reason: "validation_error"})
			return
		}

		n, err := notes.Send(r.Context(), CurrentUserID(r), req.RecipientID, req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, n)
	}
}

func handleListReceivedNotes(notes *service.NoteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := notes.ListReceived(r.Context(), CurrentUserID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleListSentNotes(notes *service.NoteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := notes.ListSent(r.Context(), CurrentUserID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleMarkNoteRead(notes *service.NoteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noteID := chi.URLParam(r, "noteID")
		if err := notes.MarkRead(r.Context(), noteID, CurrentUserID(r)); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
	}
}

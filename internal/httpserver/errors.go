package httpserver

import (
	"errors"
	"net/http"

	"echobackend/internal/domain"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// writeError maps a domain error to an HTTP status and a machine-readable
// reason. Every state conflict keeps its own reason so clients can render
// "come back after 3 days" and "daily limit reached" distinctly.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), errorResponse{
		Error:  err.Error(),
		Reason: reasonOf(err),
	})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrMessageTooLong):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotAuthorized),
		errors.Is(err, domain.ErrNotParticipant),
		errors.Is(err, domain.ErrNotRecipient):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrDailyLimitReached),
		errors.Is(err, domain.ErrTooSoon):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrAlreadyInvited),
		errors.Is(err, domain.ErrNotPending),
		errors.Is(err, domain.ErrInviteExpired),
		errors.Is(err, domain.ErrChatExpired),
		errors.Is(err, domain.ErrNotEligible),
		errors.Is(err, domain.ErrActiveChatExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation_error"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, domain.ErrNotParticipant):
		return "not_participant"
	case errors.Is(err, domain.ErrNotRecipient):
		return "not_recipient"
	case errors.Is(err, domain.ErrAlreadyInvited):
		return "already_invited"
	case errors.Is(err, domain.ErrNotPending):
		return "not_pending"
	case errors.Is(err, domain.ErrInviteExpired):
		return "invite_expired"
	case errors.Is(err, domain.ErrChatExpired):
		return "chat_expired"
	case errors.Is(err, domain.ErrMessageTooLong):
		return "message_too_long"
	case errors.Is(err, domain.ErrDailyLimitReached):
		return "daily_limit_reached"
	case errors.Is(err, domain.ErrTooSoon):
		return "too_soon"
	case errors.Is(err, domain.ErrNotEligible):
		return "not_eligible"
	case errors.Is(err, domain.ErrActiveChatExists):
		return "active_chat_exists"
	default:
		return "internal_error"
	}
}

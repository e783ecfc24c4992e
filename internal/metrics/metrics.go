// Package metrics exposes the lifecycle engine's Prometheus collectors.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"echobackend/internal/domain"
)

var (
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "echo_messages_sent_total",
		Help: "Limited chat messages accepted.",
	})

	SendRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "echo_send_rejections_total",
		Help: "Limited chat sends rejected, by reason.",
	}, []string{"reason"})

	ChatsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "echo_chats_created_total",
		Help: "Limited chats created from accepted invites.",
	})

	ConnectionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "echo_connections_completed_total",
		Help: "Limited chats completed into full connections.",
	})

	SweepRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "echo_sweep_runs_total",
		Help: "Lifecycle sweep executions.",
	})

	SweepTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "echo_sweep_transitions_total",
		Help: "State transitions applied by the lifecycle sweep, by kind.",
	}, []string{"transition"})
)

// RejectReason maps a send-gate error to its metric label.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotParticipant):
		return "not_participant"
	case errors.Is(err, domain.ErrChatExpired):
		return "chat_expired"
	case errors.Is(err, domain.ErrMessageTooLong):
		return "message_too_long"
	case errors.Is(err, domain.ErrTooSoon):
		return "too_soon"
	case errors.Is(err, domain.ErrDailyLimitReached):
		return "daily_limit_reached"
	default:
		return "other"
	}
}

// Package event carries domain events to the external notification and
// match systems. The core only emits; delivery lives outside this service.
package event

import (
	"context"
	"encoding/json"
	"log"

	"echobackend/internal/domain"
)

// LogSink writes events to the process log. It stands in for the real
// delivery pipeline in development and keeps the emission path exercised.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

var _ domain.EventSink = (*LogSink)(nil)

func (s *LogSink) Publish(_ context.Context, e domain.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		log.Printf("event %s: marshal failed: %v", e.Name, err)
		return
	}
	log.Printf("event %s", payload)
}

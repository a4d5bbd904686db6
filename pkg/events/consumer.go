package events

import (
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
)

type BatchConsumer struct {
	Handle func(TrackingEvent)
}

func NewBatchConsumer() *BatchConsumer {
	return &BatchConsumer{Handle: logEvent}
}

func (consumer *BatchConsumer) Consume(batch rmq.Deliveries) {
	for _, payload := range batch.Payloads() {
		var event TrackingEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Error().Err(err).Str("payload", payload).Msg("Failed to decode tracking event")
			continue
		}

		consumer.Handle(event)
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Error().Err(err).Msg("Failed to ack tracking event")
		}
	}
}

func logEvent(event TrackingEvent) {
	log.Info().
		Str("type", string(event.Type)).
		Str("code", event.Code).
		Str("status", event.Status).
		Int("waypoints", event.Waypoints).
		Time("timestamp", event.Timestamp).
		Msg("Tracking event")
}

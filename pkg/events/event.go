package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/globaltrack/globaltrack/pkg/redis_client"
)

const QueueName = "tracking-events"

type EventType string

const (
	EventTypeLookup         EventType = "tracking.lookup"
	EventTypeLookupNotFound EventType = "tracking.not_found"
	EventTypeAnimation      EventType = "tracking.animation"
)

type TrackingEvent struct {
	Type      EventType `json:"type"`
	Code      string    `json:"code"`
	Status    string    `json:"status,omitempty"`
	Waypoints int       `json:"waypoints,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publish pushes the event on the tracking queue. Without Redis it does nothing.
func Publish(event TrackingEvent) error {
	if redis_client.QueueConnection == nil {
		return nil
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	queue, err := redis_client.QueueConnection.OpenQueue(QueueName)
	if err != nil {
		return fmt.Errorf("open queue %s: %w", QueueName, err)
	}

	return queue.PublishBytes(payload)
}

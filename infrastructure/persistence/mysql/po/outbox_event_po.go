package po

import (
	"encoding/json"
	"time"

	"cafeledger/domain/shared"

	"github.com/google/uuid"
)

// OutboxEventPO outbox row mapping for the transactional outbox pattern.
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"`
	Payload     string    `gorm:"type:json;not null"`
	Status      string    `gorm:"size:20;default:PENDING;not null"`
	RetryCount  int       `gorm:"default:0;not null"`
	CreatedAt   time.Time `gorm:"index;not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (OutboxEventPO) TableName() string { return "outbox_events" }

// EventStatus outbox event lifecycle.
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// FromDomainEvent converts a domain event to an outbox row. The event's own
// payload map is serialized as-is; the envelope fields come from the event
// interface.
func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	envelope := map[string]any{
		"event_name":   event.EventName(),
		"aggregate_id": event.AggregateID(),
		"occurred_on":  event.OccurredOn(),
		"data":         event.Payload(),
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &OutboxEventPO{
		ID:          uuid.New().String(),
		AggregateID: event.AggregateID(),
		EventType:   event.EventName(),
		Payload:     string(payload),
		Status:      string(EventStatusPending),
		RetryCount:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ToEventData extracts the serialized envelope, for the publisher and tests.
func (p *OutboxEventPO) ToEventData() (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(p.Payload), &data); err != nil {
		return nil, err
	}
	return data, nil
}

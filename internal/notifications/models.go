package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType names a domain event published to the broker
type EventType string

const (
	EventReservationCreated    EventType = "reservation.created"
	EventReservationCancelled  EventType = "reservation.cancelled"
	EventReservationCheckedIn  EventType = "reservation.checked_in"
	EventReservationCheckedOut EventType = "reservation.checked_out"
	EventReservationRebooked   EventType = "reservation.rebooked"
	EventViolationRecorded     EventType = "violation.recorded"
	EventUserDisabled          EventType = "user.disabled"
)

// DomainEvent is the JSON envelope written to Kafka or RabbitMQ
type DomainEvent struct {
	ID            uuid.UUID              `json:"id"`
	Type          EventType              `json:"type"`
	UserID        uuid.UUID              `json:"user_id"`
	ReservationID *uuid.UUID             `json:"reservation_id,omitempty"`
	SeatID        *uuid.UUID             `json:"seat_id,omitempty"`
	OccurredAt    time.Time              `json:"occurred_at"`
	Data          map[string]interface{} `json:"data,omitempty"`
}

// NewEvent stamps a new event for userID
func NewEvent(eventType EventType, userID uuid.UUID, data map[string]interface{}) *DomainEvent {
	return &DomainEvent{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// ForReservation attaches the reservation and seat ids
func (e *DomainEvent) ForReservation(reservationID, seatID uuid.UUID) *DomainEvent {
	e.ReservationID = &reservationID
	e.SeatID = &seatID
	return e
}

// PartitionKey keeps one user's events ordered within a partition
func (e *DomainEvent) PartitionKey() string {
	return e.UserID.String()
}

func (e *DomainEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

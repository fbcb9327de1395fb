package events

import "time"

const PersonnelCreatedTopic = "bfp.personnel.lifecycle.v1"

type PersonnelCreatedEvent struct {
	EventType   string    `json:"event_type"`
	PersonnelID string    `json:"personnel_id"`
	DateHired   string    `json:"date_hired"`
	OccurredAt  time.Time `json:"occurred_at"`
}

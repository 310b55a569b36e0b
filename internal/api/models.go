package api

import (
	"time"

	"gorm.io/gorm"
)

// FacilitySnapshot is the persisted readout of a facility after a mutation.
// Snapshots are append-only; the latest row per facility is the current view.
type FacilitySnapshot struct {
	gorm.Model `json:"-"`
	FacilityID string    `gorm:"index" json:"facility_id"`
	AccountID  string    `json:"account_id"`
	CustomerID string    `json:"customer_id"`
	Status     string    `json:"status"`
	Kind       string    `json:"kind"`
	Snapshot   string    `gorm:"type:text" json:"snapshot"`
	Trigger    string    `json:"trigger"`
	CapturedAt time.Time `json:"captured_at"`
}

// EventRecord is one drained engine event, journaled for audit.
type EventRecord struct {
	gorm.Model `json:"-"`
	EventID    string    `gorm:"uniqueIndex" json:"event_id"`
	FacilityID string    `gorm:"index" json:"facility_id"`
	EventType  string    `json:"event_type"`
	Payload    string    `gorm:"type:text" json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

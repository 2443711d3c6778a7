package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ModificationAction string

const (
	ModificationEdit   ModificationAction = "edit"
	ModificationDelete ModificationAction = "delete"
	ModificationReset  ModificationAction = "reset"
)

// ModificationLog is an append-only record of an edit to a completed fixture.
type ModificationLog struct {
	ID        uuid.UUID          `json:"id" db:"id"`
	FixtureID int                `json:"fixture_id" db:"fixture_id"`
	EventID   *int64             `json:"event_id,omitempty" db:"event_id"`
	Editor    string             `json:"editor" db:"editor"`
	Action    ModificationAction `json:"action" db:"action"`
	Before    json.RawMessage    `json:"before,omitempty" db:"before"`
	After     json.RawMessage    `json:"after,omitempty" db:"after"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
}

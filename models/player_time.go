package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PlayPeriod is one uninterrupted on-field spell, in seconds of match time.
type PlayPeriod struct {
	Start    int `json:"start"`
	End      int `json:"end"`
	Duration int `json:"duration"`
}

// PlayPeriods is stored as a jsonb column.
type PlayPeriods []PlayPeriod

func (p PlayPeriods) Value() (driver.Value, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p)
}

func (p *PlayPeriods) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*p = PlayPeriods{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("play periods: unsupported scan type %T", src)
	}
	return json.Unmarshal(data, p)
}

// PlayerTimeRecord is the on-field time of one player in one fixture.
type PlayerTimeRecord struct {
	ID           int         `json:"id" db:"id"`
	FixtureID    int         `json:"fixture_id" db:"fixture_id"`
	TeamID       int         `json:"team_id" db:"team_id"`
	MemberID     *int        `json:"member_id,omitempty" db:"member_id"`
	PlayerName   string      `json:"player_name" db:"player_name"`
	TotalSeconds int         `json:"total_seconds" db:"total_seconds"`
	Periods      PlayPeriods `json:"periods" db:"periods"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// Participation aggregates a player's time records across fixtures.
type Participation struct {
	TeamID        int    `json:"team_id"`
	PlayerName    string `json:"player_name"`
	MatchesPlayed int    `json:"matches_played"`
	TotalSeconds  int    `json:"total_seconds"`
}

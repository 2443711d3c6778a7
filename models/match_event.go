package models

import "time"

type EventType string

const (
	EventGoal         EventType = "goal"
	EventYellowCard   EventType = "yellow_card"
	EventRedCard      EventType = "red_card"
	EventAssist       EventType = "assist"
	EventSubstitution EventType = "substitution"
	EventOther        EventType = "other"
)

func (t EventType) Valid() bool {
	switch t {
	case EventGoal, EventYellowCard, EventRedCard, EventAssist, EventSubstitution, EventOther:
		return true
	}
	return false
}

func (t EventType) IsCard() bool {
	return t == EventYellowCard || t == EventRedCard
}

// MatchEvent is one atomic occurrence during a match.
// TeamID is the player's own team; ScoringTeamID, when set, is the team credited with a goal.
type MatchEvent struct {
	ID            int64     `json:"id" db:"id"`
	FixtureID     int       `json:"fixture_id" db:"fixture_id"`
	EventType     EventType `json:"event_type" db:"event_type"`
	PlayerName    string    `json:"player_name" db:"player_name"`
	TeamID        int       `json:"team_id" db:"team_id"`
	ScoringTeamID *int      `json:"scoring_team_id,omitempty" db:"scoring_team_id"`
	EventTime     int       `json:"event_time" db:"event_time"`
	IsOwnGoal     bool      `json:"is_own_goal" db:"is_own_goal"`
	Description   *string   `json:"description,omitempty" db:"description"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// CreditedTeamID is the team a goal counts for.
func (e *MatchEvent) CreditedTeamID() int {
	if e.ScoringTeamID != nil {
		return *e.ScoringTeamID
	}
	return e.TeamID
}

// EventFilter narrows event listings by type. An empty filter matches every type.
type EventFilter struct {
	Types []EventType
}

// DuplicateQuery selects events of one (fixture, team, player, type) tuple
// whose event_time lies within [FromTime, ToTime].
type DuplicateQuery struct {
	FixtureID  int
	TeamID     int
	PlayerName string
	EventType  EventType
	FromTime   int
	ToTime     int
}

// PlayerEventCount is the number of events of one type attributed to a player.
type PlayerEventCount struct {
	TeamID     int
	PlayerName string
	EventType  EventType
	IsOwnGoal  bool
	Count      int
}

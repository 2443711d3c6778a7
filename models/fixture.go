package models

import "time"

type FixtureStatus string

const (
	FixtureScheduled FixtureStatus = "scheduled"
	FixtureLive      FixtureStatus = "live"
	FixtureCompleted FixtureStatus = "completed"
	FixturePostponed FixtureStatus = "postponed"
)

func (s FixtureStatus) Valid() bool {
	switch s {
	case FixtureScheduled, FixtureLive, FixtureCompleted, FixturePostponed:
		return true
	}
	return false
}

// Fixture is one scheduled, live or completed match between two teams.
type Fixture struct {
	ID          int           `json:"id" db:"id"`
	HomeTeamID  int           `json:"home_team_id" db:"home_team_id"`
	AwayTeamID  int           `json:"away_team_id" db:"away_team_id"`
	ScheduledAt time.Time     `json:"scheduled_at" db:"scheduled_at"`
	Venue       *string       `json:"venue,omitempty" db:"venue"`
	Status      FixtureStatus `json:"status" db:"status"`
	HomeScore   *int          `json:"home_score" db:"home_score"`
	AwayScore   *int          `json:"away_score" db:"away_score"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`

	HomeTeam *Team        `json:"home_team,omitempty" db:"-"`
	AwayTeam *Team        `json:"away_team,omitempty" db:"-"`
	Events   []MatchEvent `json:"events,omitempty" db:"-"`
}

// TeamID returns the team playing on the given side.
func (f *Fixture) TeamID(side Side) (int, bool) {
	switch side {
	case SideHome:
		return f.HomeTeamID, f.HomeTeamID != 0
	case SideAway:
		return f.AwayTeamID, f.AwayTeamID != 0
	}
	return 0, false
}

// SideOf reports which side teamID plays on in this fixture.
func (f *Fixture) SideOf(teamID int) (Side, bool) {
	switch teamID {
	case f.HomeTeamID:
		return SideHome, true
	case f.AwayTeamID:
		return SideAway, true
	}
	return "", false
}

func (f *Fixture) IsCompleted() bool {
	return f.Status == FixtureCompleted
}

// HasScore reports whether both scores are set.
func (f *Fixture) HasScore() bool {
	return f.HomeScore != nil && f.AwayScore != nil
}

// FixtureFilter narrows fixture listings. Nil fields are ignored.
type FixtureFilter struct {
	Status *FixtureStatus
	TeamID *int
}

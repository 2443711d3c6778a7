package models

import "time"

// Team is a league entrant. The standings fields are a cache derived from completed fixtures.
type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     *string   `json:"color,omitempty" db:"color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Played           int `json:"played" db:"played"`
	Won              int `json:"won" db:"won"`
	Drawn            int `json:"drawn" db:"drawn"`
	Lost             int `json:"lost" db:"lost"`
	GoalsFor         int `json:"goals_for" db:"goals_for"`
	GoalsAgainst     int `json:"goals_against" db:"goals_against"`
	GoalDifference   int `json:"goal_difference" db:"goal_difference"`
	Points           int `json:"points" db:"points"`
	Position         int `json:"position" db:"position"`
	PreviousPosition int `json:"previous_position" db:"previous_position"`

	Members []Member `json:"members,omitempty" db:"-"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

// PositionUpdate is one row written by the position calculator.
type PositionUpdate struct {
	TeamID           int `json:"team_id"`
	Position         int `json:"position"`
	PreviousPosition int `json:"previous_position"`
}

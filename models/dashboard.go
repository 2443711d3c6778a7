package models

type DashboardStats struct {
	TeamsTotal        int `json:"teams_total"`
	FixturesTotal     int `json:"fixtures_total"`
	FixturesCompleted int `json:"fixtures_completed"`
	FixturesLive      int `json:"fixtures_live"`
	GoalsTotal        int `json:"goals_total"`
	CardsTotal        int `json:"cards_total"`
}

// LeaderEntry is one row of a player leaderboard.
type LeaderEntry struct {
	MemberID int    `json:"member_id"`
	TeamID   int    `json:"team_id"`
	TeamName string `json:"team_name,omitempty"`
	Name     string `json:"name"`
	Value    int    `json:"value"`
}

type Leaders struct {
	Scorers    []LeaderEntry `json:"scorers"`
	Assists    []LeaderEntry `json:"assists"`
	Discipline []LeaderEntry `json:"discipline"`
}

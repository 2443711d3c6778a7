package models

import "time"

type MemberRole string

const (
	RoleCaptain MemberRole = "Captain"
	RoleSClass  MemberRole = "S-class"
	RoleStarter MemberRole = "Starter"
	RoleOther   MemberRole = "other"
)

// Member is a roster player. The counters are a cache of the match event log.
type Member struct {
	ID                 int        `json:"id" db:"id"`
	TeamID             int        `json:"team_id" db:"team_id"`
	Name               string     `json:"name" db:"name"`
	Number             *int       `json:"number,omitempty" db:"number"`
	Role               MemberRole `json:"role" db:"role"`
	Goals              int        `json:"goals" db:"goals"`
	Assists            int        `json:"assists" db:"assists"`
	YellowCards        int        `json:"yellow_cards" db:"yellow_cards"`
	RedCards           int        `json:"red_cards" db:"red_cards"`
	TotalMinutesPlayed int        `json:"total_minutes_played" db:"total_minutes_played"`
	MatchesPlayed      int        `json:"matches_played" db:"matches_played"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
}

// MemberStat names one cumulative counter column of the members table.
type MemberStat string

const (
	StatGoals       MemberStat = "goals"
	StatAssists     MemberStat = "assists"
	StatYellowCards MemberStat = "yellow_cards"
	StatRedCards    MemberStat = "red_cards"
)

// MemberCounters holds the event-derived counters of a member.
type MemberCounters struct {
	Goals       int `json:"goals"`
	Assists     int `json:"assists"`
	YellowCards int `json:"yellow_cards"`
	RedCards    int `json:"red_cards"`
}

func (m Member) Counters() MemberCounters {
	return MemberCounters{
		Goals:       m.Goals,
		Assists:     m.Assists,
		YellowCards: m.YellowCards,
		RedCards:    m.RedCards,
	}
}

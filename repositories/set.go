package repositories

import "database/sql"

// Set groups the repositories the match engine works with.
type Set struct {
	Fixtures    FixtureRepository
	Teams       TeamRepository
	Members     MemberRepository
	Events      MatchEventRepository
	PlayerTimes PlayerTimeRepository
	ModLogs     ModificationLogRepository
}

func NewPostgresSet(db *sql.DB) Set {
	return Set{
		Fixtures:    NewPostgresFixtureRepository(db),
		Teams:       NewPostgresTeamRepository(db),
		Members:     NewPostgresMemberRepository(db),
		Events:      NewPostgresMatchEventRepository(db),
		PlayerTimes: NewPostgresPlayerTimeRepository(db),
		ModLogs:     NewPostgresModificationLogRepository(db),
	}
}

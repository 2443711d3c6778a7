package services

import (
	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/notify"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
)

// ContainerDeps is the infrastructure shared by every service. Nil Hub, Notifier and Uploader
// disable broadcasts, notifications and object storage.
type ContainerDeps struct {
	Policy   config.MatchPolicy
	Hub      Broadcaster
	Notifier notify.Notifier
	Uploader storage.FileUploader
	Obs      Observability
}

// Container wires the engine once for the server and for leaguectl.
type Container struct {
	Locks     *FixtureLocks
	Gate      *DuplicateGate
	Standings *StandingsService
	Positions *PositionService
	Scores    *ScoreService
	Stats     *StatsService
	Recorder  *EventService
	Saver     *SaveService

	Admin     AdminService
	Match     MatchService
	Teams     TeamService
	Dashboard DashboardService
}

func NewContainer(repos repositories.Set, deps ContainerDeps) *Container {
	obs := deps.Obs.withDefaults()
	c := &Container{Locks: NewFixtureLocks()}

	c.Gate = NewDuplicateGate(repos.Events, deps.Policy, obs)
	c.Standings = NewStandingsService(repos.Fixtures, repos.Teams, c.Locks, obs)
	c.Positions = NewPositionService(repos.Teams, repos.Fixtures, obs)
	c.Scores = NewScoreService(repos.Fixtures, repos.Events, c.Standings, c.Positions, deps.Hub, c.Locks, obs)
	c.Stats = NewStatsService(repos.Members, repos.Events, repos.PlayerTimes, deps.Policy, obs)
	c.Recorder = NewEventService(repos.Fixtures, repos.Members, repos.Events, repos.PlayerTimes, c.Gate, deps.Policy, deps.Hub, obs)
	c.Saver = NewSaveService(repos.Fixtures, c.Recorder, c.Gate, c.Scores, c.Stats, deps.Notifier, deps.Uploader, deps.Hub, deps.Policy, obs)

	c.Admin = NewAdminService(AdminDeps{
		Fixtures:    repos.Fixtures,
		Events:      repos.Events,
		Members:     repos.Members,
		PlayerTimes: repos.PlayerTimes,
		ModLogs:     repos.ModLogs,
		Gate:        c.Gate,
		Scores:      c.Scores,
		Standings:   c.Standings,
		Positions:   c.Positions,
		Stats:       c.Stats,
		Notifier:    deps.Notifier,
		Hub:         deps.Hub,
		Policy:      deps.Policy,
	}, obs)
	c.Match = NewMatchService(MatchDeps{
		Fixtures:    repos.Fixtures,
		Teams:       repos.Teams,
		Events:      repos.Events,
		PlayerTimes: repos.PlayerTimes,
		ModLog:      repos.ModLogs,
		Recorder:    c.Recorder,
		Scores:      c.Scores,
		Saver:       c.Saver,
		Uploader:    deps.Uploader,
	}, obs.Logger)
	c.Teams = NewTeamService(repos.Teams, repos.Members, deps.Uploader, obs.Logger)
	c.Dashboard = NewDashboardService(repos.Teams, repos.Fixtures, repos.Events, repos.Members, deps.Uploader)
	return c
}

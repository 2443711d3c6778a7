package handlers

import (
	"context"
	"io"
	"sync"

	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

type fakeMatchService struct {
	CreateFixtureFunc     func(ctx context.Context, in services.CreateFixtureInput) (*models.Fixture, error)
	ListFixturesFunc      func(ctx context.Context, filter models.FixtureFilter) ([]*models.Fixture, error)
	GetFixtureFunc        func(ctx context.Context, id int) (*models.Fixture, error)
	ListEventsFunc        func(ctx context.Context, fixtureID int, filter models.EventFilter) ([]*models.MatchEvent, error)
	ListPlayerTimesFunc   func(ctx context.Context, fixtureID int) ([]*models.PlayerTimeRecord, error)
	ListModificationsFunc func(ctx context.Context, fixtureID int) ([]*models.ModificationLog, error)
	AssignGoalFunc        func(ctx context.Context, in services.GoalInput) (*services.GoalAssignment, error)
	AssignAssistFunc      func(ctx context.Context, in services.AssistInput) (*models.MatchEvent, error)
	AssignCardFunc        func(ctx context.Context, in services.CardInput) (*services.CardResult, error)
	RecordPlayerTimeFunc  func(ctx context.Context, in services.PlayerTimeInput) (*services.PlayerTimeResult, error)
	SaveMatchFunc         func(ctx context.Context, in services.SaveMatchInput) (*services.SaveMatchResult, error)
}

func (f *fakeMatchService) CreateFixture(ctx context.Context, in services.CreateFixtureInput) (*models.Fixture, error) {
	return f.CreateFixtureFunc(ctx, in)
}

func (f *fakeMatchService) ListFixtures(ctx context.Context, filter models.FixtureFilter) ([]*models.Fixture, error) {
	return f.ListFixturesFunc(ctx, filter)
}

func (f *fakeMatchService) GetFixture(ctx context.Context, id int) (*models.Fixture, error) {
	return f.GetFixtureFunc(ctx, id)
}

func (f *fakeMatchService) ListEvents(ctx context.Context, fixtureID int, filter models.EventFilter) ([]*models.MatchEvent, error) {
	return f.ListEventsFunc(ctx, fixtureID, filter)
}

func (f *fakeMatchService) ListPlayerTimes(ctx context.Context, fixtureID int) ([]*models.PlayerTimeRecord, error) {
	return f.ListPlayerTimesFunc(ctx, fixtureID)
}

func (f *fakeMatchService) ListModifications(ctx context.Context, fixtureID int) ([]*models.ModificationLog, error) {
	return f.ListModificationsFunc(ctx, fixtureID)
}

func (f *fakeMatchService) AssignGoal(ctx context.Context, in services.GoalInput) (*services.GoalAssignment, error) {
	return f.AssignGoalFunc(ctx, in)
}

func (f *fakeMatchService) AssignAssist(ctx context.Context, in services.AssistInput) (*models.MatchEvent, error) {
	return f.AssignAssistFunc(ctx, in)
}

func (f *fakeMatchService) AssignCard(ctx context.Context, in services.CardInput) (*services.CardResult, error) {
	return f.AssignCardFunc(ctx, in)
}

func (f *fakeMatchService) RecordPlayerTime(ctx context.Context, in services.PlayerTimeInput) (*services.PlayerTimeResult, error) {
	return f.RecordPlayerTimeFunc(ctx, in)
}

func (f *fakeMatchService) SaveMatch(ctx context.Context, in services.SaveMatchInput) (*services.SaveMatchResult, error) {
	return f.SaveMatchFunc(ctx, in)
}

type fakeAdminService struct {
	ResetMatchFunc            func(ctx context.Context, fixtureID int, editor string) (*services.ResetResult, error)
	EditEventFunc             func(ctx context.Context, eventID int64, patch services.EventPatch, editor string) (*models.MatchEvent, error)
	DeleteEventFunc           func(ctx context.Context, eventID int64, editor string) error
	CleanupDuplicatesFunc     func(ctx context.Context, fixtureID int) (services.CleanupResult, error)
	VerifySyncFunc            func(ctx context.Context, fixtureID int) (*services.SyncReport, error)
	SyncAllPlayerStatsFunc    func(ctx context.Context) (*services.SyncResult, error)
	ValidatePlayerStatsFunc   func(ctx context.Context) (*services.StatsValidation, error)
	RecomputeAllPositionsFunc func(ctx context.Context) ([]models.PositionUpdate, error)
}

func (f *fakeAdminService) ResetMatch(ctx context.Context, fixtureID int, editor string) (*services.ResetResult, error) {
	return f.ResetMatchFunc(ctx, fixtureID, editor)
}

func (f *fakeAdminService) EditEvent(ctx context.Context, eventID int64, patch services.EventPatch, editor string) (*models.MatchEvent, error) {
	return f.EditEventFunc(ctx, eventID, patch, editor)
}

func (f *fakeAdminService) DeleteEvent(ctx context.Context, eventID int64, editor string) error {
	return f.DeleteEventFunc(ctx, eventID, editor)
}

func (f *fakeAdminService) CleanupDuplicates(ctx context.Context, fixtureID int) (services.CleanupResult, error) {
	return f.CleanupDuplicatesFunc(ctx, fixtureID)
}

func (f *fakeAdminService) VerifySync(ctx context.Context, fixtureID int) (*services.SyncReport, error) {
	return f.VerifySyncFunc(ctx, fixtureID)
}

func (f *fakeAdminService) SyncAllPlayerStats(ctx context.Context) (*services.SyncResult, error) {
	return f.SyncAllPlayerStatsFunc(ctx)
}

func (f *fakeAdminService) ValidatePlayerStats(ctx context.Context) (*services.StatsValidation, error) {
	return f.ValidatePlayerStatsFunc(ctx)
}

func (f *fakeAdminService) RecomputeAllPositions(ctx context.Context) ([]models.PositionUpdate, error) {
	return f.RecomputeAllPositionsFunc(ctx)
}

type fakeTeamService struct {
	CreateTeamFunc func(ctx context.Context, team *models.Team) error
	GetTeamFunc    func(ctx context.Context, id int) (*models.Team, error)
	ListTeamsFunc  func(ctx context.Context) ([]*models.Team, error)
	GetRosterFunc  func(ctx context.Context, teamID int) ([]*models.Member, error)
	AddMemberFunc  func(ctx context.Context, member *models.Member) error
	UploadLogoFunc func(ctx context.Context, teamID int, contentType string, body io.Reader) (*models.Team, error)
}

func (f *fakeTeamService) CreateTeam(ctx context.Context, team *models.Team) error {
	return f.CreateTeamFunc(ctx, team)
}

func (f *fakeTeamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	return f.GetTeamFunc(ctx, id)
}

func (f *fakeTeamService) ListTeams(ctx context.Context) ([]*models.Team, error) {
	return f.ListTeamsFunc(ctx)
}

func (f *fakeTeamService) GetRoster(ctx context.Context, teamID int) ([]*models.Member, error) {
	return f.GetRosterFunc(ctx, teamID)
}

func (f *fakeTeamService) AddMember(ctx context.Context, member *models.Member) error {
	return f.AddMemberFunc(ctx, member)
}

func (f *fakeTeamService) UploadLogo(ctx context.Context, teamID int, contentType string, body io.Reader) (*models.Team, error) {
	return f.UploadLogoFunc(ctx, teamID, contentType, body)
}

type fakeDashboardService struct {
	GetStatsFunc     func(ctx context.Context) (models.DashboardStats, error)
	GetStandingsFunc func(ctx context.Context) ([]*models.Team, error)
	GetLeadersFunc   func(ctx context.Context, limit int) (models.Leaders, error)
}

func (f *fakeDashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	return f.GetStatsFunc(ctx)
}

func (f *fakeDashboardService) GetStandings(ctx context.Context) ([]*models.Team, error) {
	return f.GetStandingsFunc(ctx)
}

func (f *fakeDashboardService) GetLeaders(ctx context.Context, limit int) (models.Leaders, error) {
	return f.GetLeadersFunc(ctx, limit)
}

type recordingBroadcaster struct {
	mu   sync.Mutex
	sent []live.Message
}

func (b *recordingBroadcaster) BroadcastToRoom(room string, msg live.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	msg.RoomID = room
	b.sent = append(b.sent, msg)
}

func (b *recordingBroadcaster) count(msgType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, m := range b.sent {
		if m.Type == msgType {
			n++
		}
	}
	return n
}

func alphaBetaFixture(id int) *models.Fixture {
	return &models.Fixture{
		ID:         id,
		HomeTeamID: 10,
		AwayTeamID: 20,
		Status:     models.FixtureScheduled,
		HomeTeam:   &models.Team{ID: 10, Name: "Alpha"},
		AwayTeam:   &models.Team{ID: 20, Name: "Beta"},
	}
}

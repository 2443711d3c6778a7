package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
)

// ErrFixturesListFailed - общая ошибка для листинга матчей
var ErrFixturesListFailed = errors.New("failed to list fixtures")

// GoalAssignment is the outcome of a single referee goal action.
type GoalAssignment struct {
	*GoalResult
	Score *ScoreResult `json:"score,omitempty"`
}

type CreateFixtureInput struct {
	HomeTeamID  int       `json:"home_team_id"`
	AwayTeamID  int       `json:"away_team_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Venue       *string   `json:"venue,omitempty"`
}

type MatchService interface {
	CreateFixture(ctx context.Context, in CreateFixtureInput) (*models.Fixture, error)
	ListFixtures(ctx context.Context, filter models.FixtureFilter) ([]*models.Fixture, error)
	GetFixture(ctx context.Context, id int) (*models.Fixture, error)
	ListEvents(ctx context.Context, fixtureID int, filter models.EventFilter) ([]*models.MatchEvent, error)
	ListPlayerTimes(ctx context.Context, fixtureID int) ([]*models.PlayerTimeRecord, error)
	ListModifications(ctx context.Context, fixtureID int) ([]*models.ModificationLog, error)

	AssignGoal(ctx context.Context, in GoalInput) (*GoalAssignment, error)
	AssignAssist(ctx context.Context, in AssistInput) (*models.MatchEvent, error)
	AssignCard(ctx context.Context, in CardInput) (*CardResult, error)
	RecordPlayerTime(ctx context.Context, in PlayerTimeInput) (*PlayerTimeResult, error)
	SaveMatch(ctx context.Context, in SaveMatchInput) (*SaveMatchResult, error)
}

type matchService struct {
	fixtures    repositories.FixtureRepository
	teams       repositories.TeamRepository
	events      repositories.MatchEventRepository
	playerTimes repositories.PlayerTimeRepository
	modlog      repositories.ModificationLogRepository
	recorder    *EventService
	scores      *ScoreService
	saver       *SaveService
	uploader    storage.FileUploader
	logger      *slog.Logger
}

type MatchDeps struct {
	Fixtures    repositories.FixtureRepository
	Teams       repositories.TeamRepository
	Events      repositories.MatchEventRepository
	PlayerTimes repositories.PlayerTimeRepository
	ModLog      repositories.ModificationLogRepository
	Recorder    *EventService
	Scores      *ScoreService
	Saver       *SaveService
	Uploader    storage.FileUploader
}

func NewMatchService(deps MatchDeps, logger *slog.Logger) MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &matchService{
		fixtures:    deps.Fixtures,
		teams:       deps.Teams,
		events:      deps.Events,
		playerTimes: deps.PlayerTimes,
		modlog:      deps.ModLog,
		recorder:    deps.Recorder,
		scores:      deps.Scores,
		saver:       deps.Saver,
		uploader:    deps.Uploader,
		logger:      logger,
	}
}

func (s *matchService) CreateFixture(ctx context.Context, in CreateFixtureInput) (*models.Fixture, error) {
	var errs ValidationErrors
	if in.HomeTeamID <= 0 {
		errs = append(errs, &ValidationError{Field: "home_team_id", Message: "home team is required"})
	}
	if in.AwayTeamID <= 0 {
		errs = append(errs, &ValidationError{Field: "away_team_id", Message: "away team is required"})
	}
	if in.HomeTeamID > 0 && in.HomeTeamID == in.AwayTeamID {
		errs = append(errs, &ValidationError{Field: "away_team_id", Message: "a team cannot play itself"})
	}
	if in.ScheduledAt.IsZero() {
		errs = append(errs, &ValidationError{Field: "scheduled_at", Message: "kick-off time is required"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	fixture := &models.Fixture{
		HomeTeamID:  in.HomeTeamID,
		AwayTeamID:  in.AwayTeamID,
		ScheduledAt: in.ScheduledAt,
		Venue:       in.Venue,
		Status:      models.FixtureScheduled,
	}
	if err := s.fixtures.Create(ctx, fixture); err != nil {
		if errors.Is(err, repositories.ErrFixtureTeamInvalid) {
			return nil, fmt.Errorf("%w: %d or %d", ErrTeamNotFound, in.HomeTeamID, in.AwayTeamID)
		}
		return nil, fmt.Errorf("create fixture: %w", err)
	}
	s.logger.InfoContext(ctx, "Fixture created",
		slog.Int("fixture_id", fixture.ID),
		slog.Int("home_team_id", fixture.HomeTeamID),
		slog.Int("away_team_id", fixture.AwayTeamID))
	return fixture, nil
}

func (s *matchService) ListFixtures(ctx context.Context, filter models.FixtureFilter) ([]*models.Fixture, error) {
	fixtures, err := s.fixtures.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFixturesListFailed, err)
	}
	if fixtures == nil {
		return []*models.Fixture{}, nil
	}
	return fixtures, nil
}

// GetFixture loads a fixture with both teams and its event log.
func (s *matchService) GetFixture(ctx context.Context, id int) (*models.Fixture, error) {
	fixture, err := loadFixture(ctx, s.fixtures, id)
	if err != nil {
		return nil, err
	}
	if fixture.HomeTeam, err = s.team(ctx, fixture.HomeTeamID); err != nil {
		return nil, err
	}
	if fixture.AwayTeam, err = s.team(ctx, fixture.AwayTeamID); err != nil {
		return nil, err
	}
	events, err := s.events.ListByFixture(ctx, id, models.EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load events of fixture %d: %w", id, err)
	}
	fixture.Events = make([]models.MatchEvent, len(events))
	for i, e := range events {
		fixture.Events[i] = *e
	}
	return fixture, nil
}

func (s *matchService) team(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			s.logger.WarnContext(ctx, "Fixture references missing team", slog.Int("team_id", id))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load team %d: %w", id, err)
	}
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *matchService) ListEvents(ctx context.Context, fixtureID int, filter models.EventFilter) ([]*models.MatchEvent, error) {
	if _, err := loadFixture(ctx, s.fixtures, fixtureID); err != nil {
		return nil, err
	}
	return s.events.ListByFixture(ctx, fixtureID, filter)
}

func (s *matchService) ListPlayerTimes(ctx context.Context, fixtureID int) ([]*models.PlayerTimeRecord, error) {
	if _, err := loadFixture(ctx, s.fixtures, fixtureID); err != nil {
		return nil, err
	}
	return s.playerTimes.ListByFixture(ctx, fixtureID)
}

func (s *matchService) ListModifications(ctx context.Context, fixtureID int) ([]*models.ModificationLog, error) {
	if _, err := loadFixture(ctx, s.fixtures, fixtureID); err != nil {
		return nil, err
	}
	return s.modlog.ListByFixture(ctx, fixtureID)
}

// AssignGoal records a goal and refreshes the derived score. The goal stays recorded when the
// score refresh fails; the error is logged and the next reconciliation repairs it.
func (s *matchService) AssignGoal(ctx context.Context, in GoalInput) (*GoalAssignment, error) {
	goal, err := s.recorder.RecordGoal(ctx, in)
	if err != nil {
		return nil, err
	}
	out := &GoalAssignment{GoalResult: goal}
	score, err := s.scores.RecomputeLiveScore(ctx, in.FixtureID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Score refresh after goal failed",
			slog.Int("fixture_id", in.FixtureID),
			slog.Int64("event_id", goal.Goal.ID),
			slog.Any("error", err))
		return out, nil
	}
	out.Score = score
	return out, nil
}

func (s *matchService) AssignAssist(ctx context.Context, in AssistInput) (*models.MatchEvent, error) {
	return s.recorder.RecordAssist(ctx, in)
}

func (s *matchService) AssignCard(ctx context.Context, in CardInput) (*CardResult, error) {
	return s.recorder.RecordCard(ctx, in)
}

func (s *matchService) RecordPlayerTime(ctx context.Context, in PlayerTimeInput) (*PlayerTimeResult, error) {
	return s.recorder.RecordPlayerTime(ctx, in)
}

func (s *matchService) SaveMatch(ctx context.Context, in SaveMatchInput) (*SaveMatchResult, error) {
	return s.saver.SaveMatch(ctx, in)
}

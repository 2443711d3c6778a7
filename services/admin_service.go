package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/notify"
	"github.com/Dosada05/league-system/repositories"
)

// EventPatch changes fields of a recorded event. Nil fields are kept.
type EventPatch struct {
	PlayerName  *string      `json:"player_name,omitempty"`
	Side        *models.Side `json:"side,omitempty"`
	EventTime   *int         `json:"event_time,omitempty"`
	IsOwnGoal   *bool        `json:"is_own_goal,omitempty"`
	Description *string      `json:"description,omitempty"`
}

func (p EventPatch) empty() bool {
	return p.PlayerName == nil && p.Side == nil && p.EventTime == nil && p.IsOwnGoal == nil && p.Description == nil
}

type ResetResult struct {
	FixtureID          int           `json:"fixture_id"`
	Reversed           *ResultChange `json:"reversed,omitempty"`
	EventsDeleted      int64         `json:"events_deleted"`
	PlayerTimesDeleted int64         `json:"player_times_deleted"`
	PlayersSynced      int           `json:"players_synced"`
}

type AdminService interface {
	ResetMatch(ctx context.Context, fixtureID int, editor string) (*ResetResult, error)
	EditEvent(ctx context.Context, eventID int64, patch EventPatch, editor string) (*models.MatchEvent, error)
	DeleteEvent(ctx context.Context, eventID int64, editor string) error

	CleanupDuplicates(ctx context.Context, fixtureID int) (CleanupResult, error)
	VerifySync(ctx context.Context, fixtureID int) (*SyncReport, error)
	SyncAllPlayerStats(ctx context.Context) (*SyncResult, error)
	ValidatePlayerStats(ctx context.Context) (*StatsValidation, error)
	RecomputeAllPositions(ctx context.Context) ([]models.PositionUpdate, error)
}

type adminService struct {
	fixtures    repositories.FixtureRepository
	events      repositories.MatchEventRepository
	members     repositories.MemberRepository
	playerTimes repositories.PlayerTimeRepository
	modLogs     repositories.ModificationLogRepository
	gate        *DuplicateGate
	scores      *ScoreService
	standings   *StandingsService
	positions   *PositionService
	stats       *StatsService
	notifier    notify.Notifier
	hub         Broadcaster
	policy      config.MatchPolicy
	obs         Observability
}

type AdminDeps struct {
	Fixtures    repositories.FixtureRepository
	Events      repositories.MatchEventRepository
	Members     repositories.MemberRepository
	PlayerTimes repositories.PlayerTimeRepository
	ModLogs     repositories.ModificationLogRepository
	Gate        *DuplicateGate
	Scores      *ScoreService
	Standings   *StandingsService
	Positions   *PositionService
	Stats       *StatsService
	Notifier    notify.Notifier
	Hub         Broadcaster
	Policy      config.MatchPolicy
}

func NewAdminService(deps AdminDeps, obs Observability) AdminService {
	s := &adminService{
		fixtures:    deps.Fixtures,
		events:      deps.Events,
		members:     deps.Members,
		playerTimes: deps.PlayerTimes,
		modLogs:     deps.ModLogs,
		gate:        deps.Gate,
		scores:      deps.Scores,
		standings:   deps.Standings,
		positions:   deps.Positions,
		stats:       deps.Stats,
		notifier:    deps.Notifier,
		hub:         deps.Hub,
		policy:      deps.Policy,
		obs:         obs.withDefaults(),
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	if s.hub == nil {
		s.hub = nopBroadcaster{}
	}
	return s
}

// ResetMatch withdraws a fixture's result and deletes everything recorded for it.
// Every step is safe to repeat, so a failed reset is retried as a whole.
func (s *adminService) ResetMatch(ctx context.Context, fixtureID int, editor string) (*ResetResult, error) {
	return observe(ctx, s.obs, "reset_match", fixtureID, func(ctx context.Context) (*ResetResult, error) {
		fixture, err := loadFixture(ctx, s.fixtures, fixtureID)
		if err != nil {
			return nil, err
		}
		before, _ := json.Marshal(fixture)

		change, err := s.standings.Reverse(ctx, fixtureID)
		if err != nil {
			return nil, err
		}
		result := &ResetResult{FixtureID: fixtureID}
		if change.Changed() {
			result.Reversed = &change
		}

		if result.EventsDeleted, err = s.events.DeleteByFixture(ctx, fixtureID); err != nil {
			return result, persistenceError("delete fixture events", err)
		}
		if result.PlayerTimesDeleted, err = s.playerTimes.DeleteByFixture(ctx, fixtureID); err != nil {
			return result, persistenceError("delete fixture player times", err)
		}
		if change.Changed() {
			if _, err := s.positions.RecomputeAllPositions(ctx); err != nil {
				return result, err
			}
		}
		synced, err := s.stats.SyncTeams(ctx, fixture.HomeTeamID, fixture.AwayTeamID)
		if err != nil {
			return result, err
		}
		result.PlayersSynced = synced.PlayersUpdated
		if _, err := s.stats.RecomputeParticipation(ctx, fixture.HomeTeamID, fixture.AwayTeamID); err != nil {
			return result, err
		}

		after, _ := json.Marshal(result)
		if err := s.modLogs.Create(ctx, &models.ModificationLog{
			FixtureID: fixtureID,
			Editor:    editor,
			Action:    models.ModificationReset,
			Before:    before,
			After:     after,
		}); err != nil {
			s.obs.Logger.ErrorContext(ctx, "Failed to write reset log", slog.Int("fixture_id", fixtureID), slog.Any("error", err))
		}

		s.obs.Logger.InfoContext(ctx, "Match reset",
			slog.Int("fixture_id", fixtureID),
			slog.String("editor", editor),
			slog.Int64("events_deleted", result.EventsDeleted),
		)
		s.hub.BroadcastToRoom(live.FixtureRoom(fixtureID), live.Message{Type: live.TypeMatchReset, Payload: result})
		s.notifier.Notify(ctx, notify.Notification{
			FixtureID: fixtureID,
			Title:     "Match reset",
			Body:      fmt.Sprintf("%d events removed", result.EventsDeleted),
			Severity:  notify.SeverityInfo,
		})
		return result, nil
	})
}

func (s *adminService) loadEditable(ctx context.Context, eventID int64) (*models.MatchEvent, *models.Fixture, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchEventNotFound) {
			return nil, nil, fmt.Errorf("%w: %d", ErrEventNotFound, eventID)
		}
		return nil, nil, err
	}
	fixture, err := loadFixture(ctx, s.fixtures, event.FixtureID)
	if err != nil {
		return nil, nil, err
	}
	if !fixture.IsCompleted() {
		return nil, nil, fmt.Errorf("%w: fixture %d is %s", ErrFixtureNotCompleted, fixture.ID, fixture.Status)
	}
	return event, fixture, nil
}

func (s *adminService) applyPatch(ctx context.Context, fixture *models.Fixture, event *models.MatchEvent, patch EventPatch) error {
	if patch.empty() {
		return &ValidationError{Field: "patch", Message: "nothing to change"}
	}
	if patch.Side != nil {
		teamID, err := teamForSide(fixture, *patch.Side)
		if err != nil {
			return err
		}
		event.TeamID = teamID
	}
	if patch.PlayerName != nil {
		if e := validatePlayerName("player_name", *patch.PlayerName, s.policy); e != nil {
			return e
		}
		event.PlayerName = strings.TrimSpace(*patch.PlayerName)
	}
	if patch.EventTime != nil {
		if e := validateEventTime("event_time", *patch.EventTime, s.policy); e != nil {
			return e
		}
		event.EventTime = *patch.EventTime
	}
	if patch.IsOwnGoal != nil {
		if *patch.IsOwnGoal && event.EventType != models.EventGoal {
			return &ValidationError{Field: "is_own_goal", Message: "only goals can be own goals"}
		}
		event.IsOwnGoal = *patch.IsOwnGoal
	}
	if patch.Description != nil {
		event.Description = patch.Description
	}

	event.ScoringTeamID = nil
	if event.EventType == models.EventGoal && event.IsOwnGoal {
		side, ok := fixture.SideOf(event.TeamID)
		if !ok {
			return &TeamResolutionError{FixtureID: fixture.ID, Label: fmt.Sprint(event.TeamID)}
		}
		credited, _ := fixture.TeamID(side.Opposite())
		event.ScoringTeamID = &credited
	}

	if patch.PlayerName != nil || patch.Side != nil {
		member, err := s.members.GetByTeamAndName(ctx, event.TeamID, event.PlayerName)
		if err != nil {
			if errors.Is(err, repositories.ErrMemberNotFound) {
				return fmt.Errorf("%w: %q (team %d)", ErrPlayerNotFound, event.PlayerName, event.TeamID)
			}
			return err
		}
		event.PlayerName = member.Name
	}
	return nil
}

// EditEvent corrects an event of a completed fixture, logs the change and reconciles the
// score, table and both rosters.
func (s *adminService) EditEvent(ctx context.Context, eventID int64, patch EventPatch, editor string) (*models.MatchEvent, error) {
	return observe(ctx, s.obs, "edit_event", 0, func(ctx context.Context) (*models.MatchEvent, error) {
		event, fixture, err := s.loadEditable(ctx, eventID)
		if err != nil {
			return nil, err
		}
		original := *event
		if err := s.applyPatch(ctx, fixture, event, patch); err != nil {
			return nil, err
		}

		tx := newSaga(fmt.Sprintf("edit event %d", eventID), s.obs.Logger)
		if err := s.events.Update(ctx, event); err != nil {
			return nil, persistenceError("update event", err)
		}
		tx.done("update event", func(ctx context.Context) error {
			restored := original
			return s.events.Update(ctx, &restored)
		})
		if err := s.logModification(ctx, fixture.ID, eventID, editor, models.ModificationEdit, &original, event); err != nil {
			return nil, tx.fail(ctx, "write modification log", err)
		}

		if err := s.reconcileAfterModification(ctx, fixture, original.EventType == models.EventGoal); err != nil {
			return event, err
		}
		return event, nil
	})
}

func (s *adminService) DeleteEvent(ctx context.Context, eventID int64, editor string) error {
	_, err := observe(ctx, s.obs, "delete_event", 0, func(ctx context.Context) (struct{}, error) {
		event, fixture, err := s.loadEditable(ctx, eventID)
		if err != nil {
			return struct{}{}, err
		}

		tx := newSaga(fmt.Sprintf("delete event %d", eventID), s.obs.Logger)
		if err := s.events.Delete(ctx, eventID); err != nil {
			return struct{}{}, persistenceError("delete event", err)
		}
		tx.done("delete event", func(ctx context.Context) error {
			restored := *event
			return s.events.Create(ctx, &restored)
		})
		if err := s.logModification(ctx, fixture.ID, eventID, editor, models.ModificationDelete, event, nil); err != nil {
			return struct{}{}, tx.fail(ctx, "write modification log", err)
		}

		return struct{}{}, s.reconcileAfterModification(ctx, fixture, event.EventType == models.EventGoal)
	})
	return err
}

func (s *adminService) logModification(ctx context.Context, fixtureID int, eventID int64, editor string, action models.ModificationAction, before, after *models.MatchEvent) error {
	entry := &models.ModificationLog{
		FixtureID: fixtureID,
		EventID:   &eventID,
		Editor:    editor,
		Action:    action,
	}
	if before != nil {
		entry.Before, _ = json.Marshal(before)
	}
	if after != nil {
		entry.After, _ = json.Marshal(after)
	}
	return s.modLogs.Create(ctx, entry)
}

func (s *adminService) reconcileAfterModification(ctx context.Context, fixture *models.Fixture, goalsChanged bool) error {
	if goalsChanged {
		if _, err := s.scores.RecomputeScore(ctx, fixture.ID); err != nil {
			return err
		}
	}
	if _, err := s.stats.SyncTeams(ctx, fixture.HomeTeamID, fixture.AwayTeamID); err != nil {
		return err
	}
	return nil
}

func (s *adminService) CleanupDuplicates(ctx context.Context, fixtureID int) (CleanupResult, error) {
	if _, err := loadFixture(ctx, s.fixtures, fixtureID); err != nil {
		return CleanupResult{}, err
	}
	return s.gate.CleanupFixture(ctx, fixtureID)
}

func (s *adminService) VerifySync(ctx context.Context, fixtureID int) (*SyncReport, error) {
	return s.scores.VerifySync(ctx, fixtureID)
}

func (s *adminService) SyncAllPlayerStats(ctx context.Context) (*SyncResult, error) {
	return s.stats.SyncAllPlayerStats(ctx)
}

func (s *adminService) ValidatePlayerStats(ctx context.Context) (*StatsValidation, error) {
	return s.stats.ValidatePlayerStats(ctx)
}

func (s *adminService) RecomputeAllPositions(ctx context.Context) ([]models.PositionUpdate, error) {
	return s.positions.RecomputeAllPositions(ctx)
}

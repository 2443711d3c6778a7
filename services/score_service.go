package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-system/league"
	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// Broadcaster publishes live updates to websocket rooms.
type Broadcaster interface {
	BroadcastToRoom(room string, msg live.Message)
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastToRoom(string, live.Message) {}

type ScoreResult struct {
	FixtureID int                  `json:"fixture_id"`
	Score     league.Score         `json:"score"`
	Status    models.FixtureStatus `json:"status"`
	Change    *ResultChange        `json:"change,omitempty"`
	Ignored   int                  `json:"ignored_goals,omitempty"`
}

// SyncReport compares the stored score with a fresh derivation. It never corrects anything.
type SyncReport struct {
	FixtureID int                  `json:"fixture_id"`
	Status    models.FixtureStatus `json:"status"`
	Stored    *league.Score        `json:"stored,omitempty"`
	Derived   league.Score         `json:"derived"`
	InSync    bool                 `json:"in_sync"`
}

// ScoreService derives fixture scores from goal events. It never increments a counter,
// so calling it any number of times over the same events gives the same result.
type ScoreService struct {
	fixtures  repositories.FixtureRepository
	events    repositories.MatchEventRepository
	standings *StandingsService
	positions *PositionService
	hub       Broadcaster
	locks     *FixtureLocks
	obs       Observability
}

func NewScoreService(
	fixtures repositories.FixtureRepository,
	events repositories.MatchEventRepository,
	standings *StandingsService,
	positions *PositionService,
	hub Broadcaster,
	locks *FixtureLocks,
	obs Observability,
) *ScoreService {
	if hub == nil {
		hub = nopBroadcaster{}
	}
	return &ScoreService{
		fixtures:  fixtures,
		events:    events,
		standings: standings,
		positions: positions,
		hub:       hub,
		locks:     locks,
		obs:       obs.withDefaults(),
	}
}

// tallyGoals counts goals per side by crediting team. Goals credited to a team outside the
// fixture are not counted and are returned as ignored.
func tallyGoals(fixture *models.Fixture, events []*models.MatchEvent) (score league.Score, ignored int) {
	for _, e := range events {
		if e.EventType != models.EventGoal {
			continue
		}
		switch e.CreditedTeamID() {
		case fixture.HomeTeamID:
			score.Home++
		case fixture.AwayTeamID:
			score.Away++
		default:
			ignored++
		}
	}
	return score, ignored
}

func (s *ScoreService) derive(ctx context.Context, fixture *models.Fixture) (league.Score, int, error) {
	goals, err := s.events.ListByFixture(ctx, fixture.ID, models.EventFilter{Types: []models.EventType{models.EventGoal}})
	if err != nil {
		return league.Score{}, 0, fmt.Errorf("list goals for fixture %d: %w", fixture.ID, err)
	}
	score, ignored := tallyGoals(fixture, goals)
	if ignored > 0 {
		s.obs.Logger.WarnContext(ctx, "Goals credited to a team outside the fixture were ignored",
			slog.Int("fixture_id", fixture.ID),
			slog.Int("ignored", ignored),
		)
	}
	return score, ignored, nil
}

// RecomputeScore re-derives the score, completes the fixture, moves standings by the folded
// delta and recomputes positions when the table changed.
func (s *ScoreService) RecomputeScore(ctx context.Context, fixtureID int) (*ScoreResult, error) {
	return observe(ctx, s.obs, "recompute_score", fixtureID, func(ctx context.Context) (*ScoreResult, error) {
		fixture, err := loadFixture(ctx, s.fixtures, fixtureID)
		if err != nil {
			return nil, err
		}
		if fixture.Status == models.FixturePostponed {
			return nil, fmt.Errorf("%w: %d", ErrFixturePostponed, fixtureID)
		}
		score, ignored, err := s.derive(ctx, fixture)
		if err != nil {
			return nil, err
		}

		change, err := s.standings.ApplyResult(ctx, fixtureID, score)
		if err != nil {
			return nil, err
		}
		result := &ScoreResult{FixtureID: fixtureID, Score: score, Status: models.FixtureCompleted, Change: &change, Ignored: ignored}

		if change.Changed() {
			if _, err := s.positions.RecomputeAllPositions(ctx); err != nil {
				return result, err
			}
			s.hub.BroadcastToRoom(live.LeagueRoom, live.Message{Type: live.TypeStandings, Payload: change})
		}
		s.hub.BroadcastToRoom(live.FixtureRoom(fixtureID), live.Message{Type: live.TypeScoreUpdated, Payload: result})
		return result, nil
	})
}

// RecomputeLiveScore writes the derived score of a fixture that is still being played and marks
// it live. Standings are untouched until the fixture completes. A completed fixture is fully
// reconciled instead.
func (s *ScoreService) RecomputeLiveScore(ctx context.Context, fixtureID int) (*ScoreResult, error) {
	return observe(ctx, s.obs, "recompute_live_score", fixtureID, func(ctx context.Context) (*ScoreResult, error) {
		unlock := s.locks.Lock(fixtureID)
		fixture, err := loadFixture(ctx, s.fixtures, fixtureID)
		if err != nil {
			unlock()
			return nil, err
		}
		if fixture.IsCompleted() {
			unlock()
			return s.RecomputeScore(ctx, fixtureID)
		}
		defer unlock()

		score, ignored, err := s.derive(ctx, fixture)
		if err != nil {
			return nil, err
		}
		home, away := score.Home, score.Away
		if err := s.fixtures.UpdateResult(ctx, fixtureID, &home, &away, models.FixtureLive); err != nil {
			return nil, persistenceError("update live score", err)
		}
		result := &ScoreResult{FixtureID: fixtureID, Score: score, Status: models.FixtureLive, Ignored: ignored}
		s.hub.BroadcastToRoom(live.FixtureRoom(fixtureID), live.Message{Type: live.TypeScoreUpdated, Payload: result})
		return result, nil
	})
}

func (s *ScoreService) VerifySync(ctx context.Context, fixtureID int) (*SyncReport, error) {
	fixture, err := loadFixture(ctx, s.fixtures, fixtureID)
	if err != nil {
		return nil, err
	}
	derived, _, err := s.derive(ctx, fixture)
	if err != nil {
		return nil, err
	}
	report := &SyncReport{FixtureID: fixtureID, Status: fixture.Status, Derived: derived}
	if fixture.HasScore() {
		report.Stored = &league.Score{Home: *fixture.HomeScore, Away: *fixture.AwayScore}
		report.InSync = *report.Stored == derived
	} else {
		report.InSync = derived == league.Score{}
	}
	if !report.InSync {
		s.obs.Logger.WarnContext(ctx, "Fixture score out of sync with events",
			slog.Int("fixture_id", fixtureID),
			slog.Any("stored", report.Stored),
			slog.Any("derived", derived),
		)
	}
	return report, nil
}

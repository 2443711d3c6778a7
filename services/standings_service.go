package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-system/league"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// ResultChange describes what one standings application did.
type ResultChange struct {
	FixtureID int           `json:"fixture_id"`
	Previous  *league.Score `json:"previous,omitempty"`
	Current   *league.Score `json:"current,omitempty"`
	Home      league.Delta  `json:"home_delta"`
	Away      league.Delta  `json:"away_delta"`
}

// Changed reports whether any standings row moved.
func (c ResultChange) Changed() bool {
	return !c.Home.IsZero() || !c.Away.IsZero()
}

// StandingsService writes fixture results and keeps team standings equal to the sum of
// completed fixtures. Every update applies one folded delta per team, computed from the
// previously stored result and the new one.
type StandingsService struct {
	fixtures repositories.FixtureRepository
	teams    repositories.TeamRepository
	locks    *FixtureLocks
	obs      Observability
}

func NewStandingsService(fixtures repositories.FixtureRepository, teams repositories.TeamRepository, locks *FixtureLocks, obs Observability) *StandingsService {
	return &StandingsService{
		fixtures: fixtures,
		teams:    teams,
		locks:    locks,
		obs:      obs.withDefaults(),
	}
}

// ApplyResult completes the fixture with the given score and moves both teams' standings by
// the difference between the new result and whatever the fixture contributed before.
func (s *StandingsService) ApplyResult(ctx context.Context, fixtureID int, next league.Score) (ResultChange, error) {
	if next.Home < 0 || next.Away < 0 {
		return ResultChange{}, &ValidationError{Field: "score", Message: "scores must not be negative"}
	}
	return observe(ctx, s.obs, "apply_result", fixtureID, func(ctx context.Context) (ResultChange, error) {
		unlock := s.locks.Lock(fixtureID)
		defer unlock()

		fixture, err := loadFixture(ctx, s.fixtures, fixtureID)
		if err != nil {
			return ResultChange{}, err
		}
		return s.writeResult(ctx, fixture, &next, models.FixtureCompleted)
	})
}

// Reverse withdraws a fixture's result from the table and returns it to scheduled.
func (s *StandingsService) Reverse(ctx context.Context, fixtureID int) (ResultChange, error) {
	return observe(ctx, s.obs, "reverse_result", fixtureID, func(ctx context.Context) (ResultChange, error) {
		unlock := s.locks.Lock(fixtureID)
		defer unlock()

		fixture, err := loadFixture(ctx, s.fixtures, fixtureID)
		if err != nil {
			return ResultChange{}, err
		}
		return s.writeResult(ctx, fixture, nil, models.FixtureScheduled)
	})
}

func (s *StandingsService) writeResult(ctx context.Context, fixture *models.Fixture, next *league.Score, status models.FixtureStatus) (ResultChange, error) {
	prev := storedScore(fixture)
	change := ResultChange{FixtureID: fixture.ID, Previous: prev, Current: next}
	change.Home, change.Away = league.ResultDelta(prev, next)

	var homeScore, awayScore *int
	if next != nil {
		h, a := next.Home, next.Away
		homeScore, awayScore = &h, &a
	}

	tx := newSaga(fmt.Sprintf("result fixture %d", fixture.ID), s.obs.Logger)

	if err := s.fixtures.UpdateResult(ctx, fixture.ID, homeScore, awayScore, status); err != nil {
		return change, persistenceError("update fixture result", err)
	}
	prevHome, prevAway, prevStatus := fixture.HomeScore, fixture.AwayScore, fixture.Status
	tx.done("fixture result", func(ctx context.Context) error {
		return s.fixtures.UpdateResult(ctx, fixture.ID, prevHome, prevAway, prevStatus)
	})

	if !change.Home.IsZero() {
		if err := s.teams.ApplyStandingsDelta(ctx, fixture.HomeTeamID, change.Home); err != nil {
			return change, tx.fail(ctx, "apply home standings", err)
		}
		homeDelta := change.Home
		tx.done("home standings", func(ctx context.Context) error {
			return s.teams.ApplyStandingsDelta(ctx, fixture.HomeTeamID, homeDelta.Negate())
		})
	}
	if !change.Away.IsZero() {
		if err := s.teams.ApplyStandingsDelta(ctx, fixture.AwayTeamID, change.Away); err != nil {
			return change, tx.fail(ctx, "apply away standings", err)
		}
	}

	if change.Changed() {
		s.obs.Logger.InfoContext(ctx, "Standings updated",
			slog.Int("fixture_id", fixture.ID),
			slog.Any("previous", prev),
			slog.Any("current", next),
		)
	}
	return change, nil
}

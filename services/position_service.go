package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/Dosada05/league-system/league"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type PositionService struct {
	teams    repositories.TeamRepository
	fixtures repositories.FixtureRepository
	obs      Observability

	mu sync.Mutex
}

func NewPositionService(teams repositories.TeamRepository, fixtures repositories.FixtureRepository, obs Observability) *PositionService {
	return &PositionService{teams: teams, fixtures: fixtures, obs: obs.withDefaults()}
}

// RecomputeAllPositions ranks every team and stores position and previous_position.
func (s *PositionService) RecomputeAllPositions(ctx context.Context) ([]models.PositionUpdate, error) {
	return observe(ctx, s.obs, "recompute_positions", 0, func(ctx context.Context) ([]models.PositionUpdate, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		teams, err := s.teams.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("positions list teams: %w", err)
		}
		completed := models.FixtureCompleted
		fixtures, err := s.fixtures.List(ctx, models.FixtureFilter{Status: &completed})
		if err != nil {
			return nil, fmt.Errorf("positions list fixtures: %w", err)
		}

		entries := make([]league.Entry, len(teams))
		for i, t := range teams {
			entries[i] = league.Entry{
				TeamID:         t.ID,
				Name:           t.Name,
				Points:         t.Points,
				GoalDifference: t.GoalDifference,
				GoalsFor:       t.GoalsFor,
				Position:       t.Position,
			}
		}
		matches := make([]league.Match, 0, len(fixtures))
		for _, f := range fixtures {
			if !f.HasScore() {
				continue
			}
			matches = append(matches, league.Match{
				HomeTeamID: f.HomeTeamID,
				AwayTeamID: f.AwayTeamID,
				Score:      league.Score{Home: *f.HomeScore, Away: *f.AwayScore},
			})
		}

		placements := league.Placements(league.Rank(entries, matches))
		updates := make([]models.PositionUpdate, len(placements))
		for i, p := range placements {
			updates[i] = models.PositionUpdate{TeamID: p.TeamID, Position: p.Position, PreviousPosition: p.PreviousPosition}
		}
		if err := s.teams.UpdatePositions(ctx, updates); err != nil {
			return nil, persistenceError("update positions", err)
		}
		return updates, nil
	})
}

package services

import (
	"context"
	"sort"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
	"golang.org/x/sync/errgroup"
)

const defaultLeadersLimit = 10

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
	GetStandings(ctx context.Context) ([]*models.Team, error)
	GetLeaders(ctx context.Context, limit int) (models.Leaders, error)
}

type dashboardService struct {
	teams    repositories.TeamRepository
	fixtures repositories.FixtureRepository
	events   repositories.MatchEventRepository
	members  repositories.MemberRepository
	uploader storage.FileUploader
}

func NewDashboardService(
	teams repositories.TeamRepository,
	fixtures repositories.FixtureRepository,
	events repositories.MatchEventRepository,
	members repositories.MemberRepository,
	uploader storage.FileUploader,
) DashboardService {
	return &dashboardService{
		teams:    teams,
		fixtures: fixtures,
		events:   events,
		members:  members,
		uploader: uploader,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	completed, inPlay := models.FixtureCompleted, models.FixtureLive

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { stats.TeamsTotal, err = s.teams.Count(ctx); return })
	g.Go(func() (err error) { stats.FixturesTotal, err = s.fixtures.Count(ctx, nil); return })
	g.Go(func() (err error) { stats.FixturesCompleted, err = s.fixtures.Count(ctx, &completed); return })
	g.Go(func() (err error) { stats.FixturesLive, err = s.fixtures.Count(ctx, &inPlay); return })
	g.Go(func() (err error) { stats.GoalsTotal, err = s.events.CountByType(ctx, models.EventGoal); return })
	g.Go(func() (err error) {
		stats.CardsTotal, err = s.events.CountByType(ctx, models.EventYellowCard, models.EventRedCard)
		return
	})
	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}

// GetStandings returns the league table ordered by cached position.
func (s *dashboardService) GetStandings(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teams.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		populateTeamLogoURL(t, s.uploader)
	}
	return teams, nil
}

func (s *dashboardService) GetLeaders(ctx context.Context, limit int) (models.Leaders, error) {
	if limit <= 0 {
		limit = defaultLeadersLimit
	}
	var (
		members []*models.Member
		teams   []*models.Team
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { members, err = s.members.ListAll(gctx); return })
	g.Go(func() (err error) { teams, err = s.teams.ListAll(gctx); return })
	if err := g.Wait(); err != nil {
		return models.Leaders{}, err
	}

	names := make(map[int]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return models.Leaders{
		Scorers:    leaderboard(members, names, limit, func(m *models.Member) int { return m.Goals }),
		Assists:    leaderboard(members, names, limit, func(m *models.Member) int { return m.Assists }),
		Discipline: leaderboard(members, names, limit, func(m *models.Member) int { return m.YellowCards + 2*m.RedCards }),
	}, nil
}

// leaderboard ranks members by value, dropping zeros. Ties keep roster name order.
func leaderboard(members []*models.Member, teamNames map[int]string, limit int, value func(*models.Member) int) []models.LeaderEntry {
	entries := make([]models.LeaderEntry, 0, len(members))
	for _, m := range members {
		v := value(m)
		if v <= 0 {
			continue
		}
		entries = append(entries, models.LeaderEntry{
			MemberID: m.ID,
			TeamID:   m.TeamID,
			TeamName: teamNames[m.TeamID],
			Name:     m.Name,
			Value:    v,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Name < entries[j].Name
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"golang.org/x/sync/errgroup"
)

const statsWriteConcurrency = 8

type StatDiscrepancy struct {
	MemberID int                   `json:"member_id"`
	TeamID   int                   `json:"team_id"`
	Name     string                `json:"name"`
	Stored   models.MemberCounters `json:"stored"`
	Derived  models.MemberCounters `json:"derived"`
}

type SyncResult struct {
	PlayersChecked     int               `json:"players_checked"`
	PlayersUpdated     int               `json:"players_updated"`
	DiscrepanciesFound int               `json:"discrepancies_found"`
	Discrepancies      []StatDiscrepancy `json:"discrepancies,omitempty"`
}

type ParticipationIssue struct {
	MemberID       int    `json:"member_id"`
	TeamID         int    `json:"team_id"`
	Name           string `json:"name"`
	StoredMatches  int    `json:"stored_matches_played"`
	DerivedMatches int    `json:"derived_matches_played"`
}

type StatsValidation struct {
	Valid               bool                 `json:"valid"`
	CounterIssues       []StatDiscrepancy    `json:"counter_issues,omitempty"`
	ParticipationIssues []ParticipationIssue `json:"participation_issues,omitempty"`
}

type playerKey struct {
	teamID int
	name   string
}

// StatsService treats member counters as a cache of the event log and rebuilds them from it.
type StatsService struct {
	members     repositories.MemberRepository
	events      repositories.MatchEventRepository
	playerTimes repositories.PlayerTimeRepository
	policy      config.MatchPolicy
	obs         Observability
}

func NewStatsService(
	members repositories.MemberRepository,
	events repositories.MatchEventRepository,
	playerTimes repositories.PlayerTimeRepository,
	policy config.MatchPolicy,
	obs Observability,
) *StatsService {
	return &StatsService{
		members:     members,
		events:      events,
		playerTimes: playerTimes,
		policy:      policy,
		obs:         obs.withDefaults(),
	}
}

// deriveCounters folds event counts into counters per player. Own goals do not count as goals.
func deriveCounters(counts []models.PlayerEventCount) map[playerKey]models.MemberCounters {
	derived := make(map[playerKey]models.MemberCounters)
	for _, c := range counts {
		k := playerKey{teamID: c.TeamID, name: normalizeName(c.PlayerName)}
		counters := derived[k]
		switch c.EventType {
		case models.EventGoal:
			if !c.IsOwnGoal {
				counters.Goals += c.Count
			}
		case models.EventAssist:
			counters.Assists += c.Count
		case models.EventYellowCard:
			counters.YellowCards += c.Count
		case models.EventRedCard:
			counters.RedCards += c.Count
		}
		derived[k] = counters
	}
	return derived
}

func discrepancies(members []*models.Member, derived map[playerKey]models.MemberCounters) []StatDiscrepancy {
	var out []StatDiscrepancy
	for _, m := range members {
		want := derived[playerKey{teamID: m.TeamID, name: normalizeName(m.Name)}]
		if got := m.Counters(); got != want {
			out = append(out, StatDiscrepancy{MemberID: m.ID, TeamID: m.TeamID, Name: m.Name, Stored: got, Derived: want})
		}
	}
	return out
}

func (s *StatsService) load(ctx context.Context, teamIDs []int) ([]*models.Member, map[playerKey]models.MemberCounters, error) {
	var members []*models.Member
	if len(teamIDs) == 0 {
		all, err := s.members.ListAll(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("list members: %w", err)
		}
		members = all
	} else {
		for _, teamID := range teamIDs {
			roster, err := s.members.ListByTeam(ctx, teamID)
			if err != nil {
				return nil, nil, fmt.Errorf("list members of team %d: %w", teamID, err)
			}
			members = append(members, roster...)
		}
	}
	counts, err := s.events.CountByPlayer(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("count events by player: %w", err)
	}
	return members, deriveCounters(counts), nil
}

// SyncAllPlayerStats overwrites every member counter that differs from the event log.
func (s *StatsService) SyncAllPlayerStats(ctx context.Context) (*SyncResult, error) {
	return observe(ctx, s.obs, "sync_player_stats", 0, func(ctx context.Context) (*SyncResult, error) {
		return s.sync(ctx, nil)
	})
}

// SyncTeams is the incremental path: only the rosters of the given teams are reconciled.
func (s *StatsService) SyncTeams(ctx context.Context, teamIDs ...int) (*SyncResult, error) {
	return observe(ctx, s.obs, "sync_team_stats", 0, func(ctx context.Context) (*SyncResult, error) {
		if len(teamIDs) == 0 {
			return &SyncResult{}, nil
		}
		return s.sync(ctx, teamIDs)
	})
}

func (s *StatsService) sync(ctx context.Context, teamIDs []int) (*SyncResult, error) {
	members, derived, err := s.load(ctx, teamIDs)
	if err != nil {
		return nil, err
	}
	drift := discrepancies(members, derived)
	result := &SyncResult{PlayersChecked: len(members), DiscrepanciesFound: len(drift), Discrepancies: drift}
	if len(drift) == 0 {
		return result, nil
	}

	var (
		mu      sync.Mutex
		updated int
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(statsWriteConcurrency)
	for _, d := range drift {
		g.Go(func() error {
			if err := s.members.UpdateCounters(gCtx, d.MemberID, d.Derived); err != nil {
				return persistenceError(fmt.Sprintf("update counters of member %d", d.MemberID), err)
			}
			mu.Lock()
			updated++
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()
	result.PlayersUpdated = updated
	s.obs.Metrics.RecordStatsDrift(updated)
	s.obs.Logger.InfoContext(ctx, "Player stats synchronized",
		slog.Int("checked", result.PlayersChecked),
		slog.Int("discrepancies", result.DiscrepanciesFound),
		slog.Int("updated", updated),
	)
	return result, err
}

// ValidatePlayerStats reports counter drift and matches_played mismatches without correcting them.
func (s *StatsService) ValidatePlayerStats(ctx context.Context) (*StatsValidation, error) {
	return observe(ctx, s.obs, "validate_player_stats", 0, func(ctx context.Context) (*StatsValidation, error) {
		members, derived, err := s.load(ctx, nil)
		if err != nil {
			return nil, err
		}
		participation, err := s.participation(ctx)
		if err != nil {
			return nil, err
		}

		report := &StatsValidation{CounterIssues: discrepancies(members, derived)}
		for _, m := range members {
			want := participation[playerKey{teamID: m.TeamID, name: normalizeName(m.Name)}].MatchesPlayed
			if m.MatchesPlayed != want {
				report.ParticipationIssues = append(report.ParticipationIssues, ParticipationIssue{
					MemberID:       m.ID,
					TeamID:         m.TeamID,
					Name:           m.Name,
					StoredMatches:  m.MatchesPlayed,
					DerivedMatches: want,
				})
			}
		}
		report.Valid = len(report.CounterIssues) == 0 && len(report.ParticipationIssues) == 0
		return report, nil
	})
}

func (s *StatsService) participation(ctx context.Context) (map[playerKey]models.Participation, error) {
	rows, err := s.playerTimes.ParticipationByPlayer(ctx, s.policy.MinParticipationSeconds)
	if err != nil {
		return nil, fmt.Errorf("participation by player: %w", err)
	}
	out := make(map[playerKey]models.Participation, len(rows))
	for _, p := range rows {
		k := playerKey{teamID: p.TeamID, name: normalizeName(p.PlayerName)}
		agg := out[k]
		agg.TeamID, agg.PlayerName = p.TeamID, k.name
		agg.MatchesPlayed += p.MatchesPlayed
		agg.TotalSeconds += p.TotalSeconds
		out[k] = agg
	}
	return out, nil
}

// RecomputeParticipation rewrites matches_played and total_minutes_played of the given teams'
// members from their time records.
func (s *StatsService) RecomputeParticipation(ctx context.Context, teamIDs ...int) (int, error) {
	return observe(ctx, s.obs, "recompute_participation", 0, func(ctx context.Context) (int, error) {
		participation, err := s.participation(ctx)
		if err != nil {
			return 0, err
		}
		updated := 0
		for _, teamID := range slices.Compact(slices.Sorted(slices.Values(teamIDs))) {
			roster, err := s.members.ListByTeam(ctx, teamID)
			if err != nil {
				return updated, fmt.Errorf("list members of team %d: %w", teamID, err)
			}
			for _, m := range roster {
				p := participation[playerKey{teamID: m.TeamID, name: normalizeName(m.Name)}]
				minutes := p.TotalSeconds / 60
				if m.MatchesPlayed == p.MatchesPlayed && m.TotalMinutesPlayed == minutes {
					continue
				}
				if err := s.members.UpdateParticipation(ctx, m.ID, p.MatchesPlayed, minutes); err != nil {
					return updated, persistenceError(fmt.Sprintf("update participation of member %d", m.ID), err)
				}
				updated++
			}
		}
		return updated, nil
	})
}

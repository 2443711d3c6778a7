package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// DuplicateCheck is the answer of the gate for one candidate event.
type DuplicateCheck struct {
	IsDuplicate    bool                 `json:"is_duplicate"`
	MatchingEvents []*models.MatchEvent `json:"matching_events,omitempty"`
}

type CleanupResult struct {
	FixtureID int     `json:"fixture_id"`
	Clusters  int     `json:"clusters"`
	Removed   int     `json:"removed"`
	RemovedID []int64 `json:"removed_ids,omitempty"`
}

// DuplicateGate suppresses re-recording of the same event within one tolerance window.
// The check is read-then-write and may race; Cleanup removes whatever slipped through.
type DuplicateGate struct {
	events repositories.MatchEventRepository
	window int
	obs    Observability
}

func NewDuplicateGate(events repositories.MatchEventRepository, policy config.MatchPolicy, obs Observability) *DuplicateGate {
	return &DuplicateGate{
		events: events,
		window: policy.DuplicateWindowSeconds,
		obs:    obs.withDefaults(),
	}
}

func (g *DuplicateGate) Window() int { return g.window }

func (g *DuplicateGate) CheckDuplicate(ctx context.Context, fixtureID, teamID int, playerName string, eventType models.EventType, eventTime int) (DuplicateCheck, error) {
	from := eventTime - g.window
	if from < 0 {
		from = 0
	}
	matching, err := g.events.FindInWindow(ctx, models.DuplicateQuery{
		FixtureID:  fixtureID,
		TeamID:     teamID,
		PlayerName: strings.TrimSpace(playerName),
		EventType:  eventType,
		FromTime:   from,
		ToTime:     eventTime + g.window,
	})
	if err != nil {
		return DuplicateCheck{}, fmt.Errorf("duplicate check for fixture %d: %w", fixtureID, err)
	}
	return DuplicateCheck{IsDuplicate: len(matching) > 0, MatchingEvents: matching}, nil
}

// cleanupTypes are the event types whose duplicates the cleanup pass collapses.
var cleanupTypes = []models.EventType{models.EventGoal, models.EventAssist}

type clusterKey struct {
	teamID    int
	player    string
	eventType models.EventType
	ownGoal   bool
}

// CleanupFixture collapses every cluster of same (team, player, type) goal or assist events
// lying within one window of the cluster's first event, keeping the earliest created.
func (g *DuplicateGate) CleanupFixture(ctx context.Context, fixtureID int) (CleanupResult, error) {
	return observe(ctx, g.obs, "cleanup_duplicates", fixtureID, func(ctx context.Context) (CleanupResult, error) {
		result := CleanupResult{FixtureID: fixtureID}

		events, err := g.events.ListByFixture(ctx, fixtureID, models.EventFilter{Types: cleanupTypes})
		if err != nil {
			return result, fmt.Errorf("cleanup list events for fixture %d: %w", fixtureID, err)
		}

		redundant := findRedundant(events, g.window)
		result.Clusters = redundant.clusters
		if len(redundant.ids) == 0 {
			return result, nil
		}

		removed, err := g.events.DeleteByIDs(ctx, redundant.ids)
		if err != nil {
			return result, persistenceError("cleanup delete duplicates", err)
		}
		result.Removed = int(removed)
		result.RemovedID = redundant.ids
		g.obs.Metrics.RecordDuplicatesRemoved(result.Removed)
		g.obs.Logger.WarnContext(ctx, "Removed duplicate events",
			slog.Int("fixture_id", fixtureID),
			slog.Int("removed", result.Removed),
			slog.Int("clusters", result.Clusters),
		)
		return result, nil
	})
}

type redundantEvents struct {
	ids      []int64
	clusters int
}

func findRedundant(events []*models.MatchEvent, window int) redundantEvents {
	groups := make(map[clusterKey][]*models.MatchEvent)
	var keys []clusterKey
	for _, e := range events {
		k := clusterKey{teamID: e.TeamID, player: normalizeName(e.PlayerName), eventType: e.EventType, ownGoal: e.IsOwnGoal}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], e)
	}

	var out redundantEvents
	for _, k := range keys {
		group := groups[k]
		slices.SortStableFunc(group, func(a, b *models.MatchEvent) int {
			return a.EventTime - b.EventTime
		})

		for start := 0; start < len(group); {
			anchor := group[start].EventTime
			end := start + 1
			for end < len(group) && group[end].EventTime-anchor <= window {
				end++
			}
			if end-start > 1 {
				out.clusters++
				cluster := group[start:end]
				keep := earliestCreated(cluster)
				for _, e := range cluster {
					if e.ID != keep.ID {
						out.ids = append(out.ids, e.ID)
					}
				}
			}
			start = end
		}
	}
	slices.Sort(out.ids)
	return out
}

func earliestCreated(cluster []*models.MatchEvent) *models.MatchEvent {
	keep := cluster[0]
	for _, e := range cluster[1:] {
		if e.CreatedAt.Before(keep.CreatedAt) || (e.CreatedAt.Equal(keep.CreatedAt) && e.ID < keep.ID) {
			keep = e
		}
	}
	return keep
}

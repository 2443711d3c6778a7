package league

import (
	"cmp"
	"slices"
	"strings"
)

// Entry is one team as seen by the ranking.
type Entry struct {
	TeamID         int
	Name           string
	Points         int
	GoalDifference int
	GoalsFor       int
	Position       int
}

// Match is a completed fixture used for head-to-head resolution.
type Match struct {
	HomeTeamID int
	AwayTeamID int
	Score      Score
}

// Placement is the outcome of a ranking for one team.
type Placement struct {
	TeamID           int
	Position         int
	PreviousPosition int
}

type headToHead struct {
	points         int
	goalDifference int
	goalsFor       int
}

func compareTable(a, b Entry) int {
	if c := cmp.Compare(b.Points, a.Points); c != 0 {
		return c
	}
	if c := cmp.Compare(b.GoalDifference, a.GoalDifference); c != 0 {
		return c
	}
	return cmp.Compare(b.GoalsFor, a.GoalsFor)
}

func compareName(a, b Entry) int {
	if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.TeamID, b.TeamID)
}

// Rank orders teams by points, goal difference and goals for. Teams tied on all three
// are ordered by head-to-head results among the tied teams only, then by name.
func Rank(entries []Entry, matches []Match) []Entry {
	ordered := slices.Clone(entries)
	slices.SortStableFunc(ordered, func(a, b Entry) int {
		if c := compareTable(a, b); c != 0 {
			return c
		}
		return compareName(a, b)
	})

	result := make([]Entry, 0, len(ordered))
	for start := 0; start < len(ordered); {
		end := start + 1
		for end < len(ordered) && compareTable(ordered[start], ordered[end]) == 0 {
			end++
		}
		group := ordered[start:end]
		if len(group) > 1 {
			group = resolveTie(group, matches)
		}
		result = append(result, group...)
		start = end
	}
	return result
}

// resolveTie sorts a tied group by head-to-head aggregates computed from matches between
// members of the group. Sub-groups still tied are narrowed recursively.
func resolveTie(group []Entry, matches []Match) []Entry {
	members := make(map[int]struct{}, len(group))
	for _, e := range group {
		members[e.TeamID] = struct{}{}
	}

	h2h := make(map[int]headToHead, len(group))
	for _, m := range matches {
		_, homeIn := members[m.HomeTeamID]
		_, awayIn := members[m.AwayTeamID]
		if !homeIn || !awayIn || m.HomeTeamID == m.AwayTeamID {
			continue
		}
		home, away := Contribution(m.Score)
		h := h2h[m.HomeTeamID]
		h.points += home.Points
		h.goalDifference += home.GoalDifference()
		h.goalsFor += home.GoalsFor
		h2h[m.HomeTeamID] = h

		a := h2h[m.AwayTeamID]
		a.points += away.Points
		a.goalDifference += away.GoalDifference()
		a.goalsFor += away.GoalsFor
		h2h[m.AwayTeamID] = a
	}

	compareH2H := func(a, b Entry) int {
		ha, hb := h2h[a.TeamID], h2h[b.TeamID]
		if c := cmp.Compare(hb.points, ha.points); c != 0 {
			return c
		}
		if c := cmp.Compare(hb.goalDifference, ha.goalDifference); c != 0 {
			return c
		}
		return cmp.Compare(hb.goalsFor, ha.goalsFor)
	}

	sorted := slices.Clone(group)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		if c := compareH2H(a, b); c != 0 {
			return c
		}
		return compareName(a, b)
	})

	out := make([]Entry, 0, len(sorted))
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && compareH2H(sorted[start], sorted[end]) == 0 {
			end++
		}
		sub := sorted[start:end]
		if len(sub) > 1 && len(sub) < len(sorted) {
			sub = resolveTie(sub, matches)
		}
		out = append(out, sub...)
		start = end
	}
	return out
}

// Placements assigns dense 1-based positions to an ordered table and keeps each
// team's position before this ranking as PreviousPosition.
func Placements(ordered []Entry) []Placement {
	out := make([]Placement, len(ordered))
	for i, e := range ordered {
		out[i] = Placement{
			TeamID:           e.TeamID,
			Position:         i + 1,
			PreviousPosition: e.Position,
		}
	}
	return out
}

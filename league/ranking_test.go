package league

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func ids(entries []Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.TeamID
	}
	return out
}

func TestRank_OrdersByPointsGoalDifferenceGoalsFor(t *testing.T) {
	entries := []Entry{
		{TeamID: 1, Name: "Alpha", Points: 6, GoalDifference: 2, GoalsFor: 5},
		{TeamID: 2, Name: "Beta", Points: 9, GoalDifference: 0, GoalsFor: 3},
		{TeamID: 3, Name: "Gamma", Points: 6, GoalDifference: 4, GoalsFor: 4},
		{TeamID: 4, Name: "Delta", Points: 6, GoalDifference: 2, GoalsFor: 7},
	}

	got := ids(Rank(entries, nil))
	want := []int{2, 3, 4, 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Rank() mismatch (-want +got):\n%s", diff)
	}
}

func TestRank_HeadToHeadScopedToTiedGroup(t *testing.T) {
	// A,B tied on one combination; C,D tied on another.
	entries := []Entry{
		{TeamID: 1, Name: "A", Points: 10, GoalDifference: 3, GoalsFor: 8},
		{TeamID: 2, Name: "B", Points: 10, GoalDifference: 3, GoalsFor: 8},
		{TeamID: 3, Name: "C", Points: 4, GoalDifference: -1, GoalsFor: 3},
		{TeamID: 4, Name: "D", Points: 4, GoalDifference: -1, GoalsFor: 3},
	}
	matches := []Match{
		{HomeTeamID: 2, AwayTeamID: 1, Score: Score{Home: 1, Away: 0}}, // B beat A
		{HomeTeamID: 4, AwayTeamID: 3, Score: Score{Home: 2, Away: 1}}, // D beat C
		// Results across groups must not influence the order inside a group.
		{HomeTeamID: 1, AwayTeamID: 3, Score: Score{Home: 0, Away: 5}},
		{HomeTeamID: 2, AwayTeamID: 4, Score: Score{Home: 0, Away: 5}},
	}

	got := ids(Rank(entries, matches))
	assert.Equal(t, []int{2, 1, 4, 3}, got)
}

func TestRank_FallsBackToName(t *testing.T) {
	entries := []Entry{
		{TeamID: 7, Name: "zulu", Points: 3},
		{TeamID: 5, Name: "Echo", Points: 3},
		{TeamID: 6, Name: "alpha", Points: 3},
	}
	got := ids(Rank(entries, nil))
	assert.Equal(t, []int{6, 5, 7}, got)
}

func TestRank_RecursiveNarrowing(t *testing.T) {
	// Four-way tie on the table. Within the group A is clearly first and D last,
	// while B and C stay level on head-to-head. They are then re-resolved using only
	// their mutual match, which B won; the name fallback alone would put C first.
	entries := []Entry{
		{TeamID: 1, Name: "Alpha", Points: 9, GoalDifference: 2, GoalsFor: 9},
		{TeamID: 2, Name: "Yankee", Points: 9, GoalDifference: 2, GoalsFor: 9},
		{TeamID: 3, Name: "Xray", Points: 9, GoalDifference: 2, GoalsFor: 9},
		{TeamID: 4, Name: "Delta", Points: 9, GoalDifference: 2, GoalsFor: 9},
	}
	matches := []Match{
		{HomeTeamID: 2, AwayTeamID: 3, Score: Score{Home: 1, Away: 0}},
		{HomeTeamID: 3, AwayTeamID: 1, Score: Score{Home: 1, Away: 0}},
		{HomeTeamID: 1, AwayTeamID: 2, Score: Score{Home: 1, Away: 0}},
		{HomeTeamID: 1, AwayTeamID: 4, Score: Score{Home: 3, Away: 0}},
		{HomeTeamID: 2, AwayTeamID: 4, Score: Score{Home: 1, Away: 0}},
		{HomeTeamID: 3, AwayTeamID: 4, Score: Score{Home: 1, Away: 0}},
	}

	got := ids(Rank(entries, matches))
	assert.Equal(t, []int{1, 2, 3, 4}, got)
}

func TestPlacements(t *testing.T) {
	ordered := []Entry{
		{TeamID: 3, Position: 2},
		{TeamID: 1, Position: 1},
		{TeamID: 2, Position: 0},
	}
	want := []Placement{
		{TeamID: 3, Position: 1, PreviousPosition: 2},
		{TeamID: 1, Position: 2, PreviousPosition: 1},
		{TeamID: 2, Position: 3, PreviousPosition: 0},
	}
	if diff := cmp.Diff(want, Placements(ordered)); diff != "" {
		t.Errorf("Placements() mismatch (-want +got):\n%s", diff)
	}
}

package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContribution(t *testing.T) {
	tests := []struct {
		name     string
		score    Score
		wantHome Delta
		wantAway Delta
	}{
		{
			name:     "home win",
			score:    Score{Home: 2, Away: 1},
			wantHome: Delta{Played: 1, Won: 1, GoalsFor: 2, GoalsAgainst: 1, Points: 3},
			wantAway: Delta{Played: 1, Lost: 1, GoalsFor: 1, GoalsAgainst: 2},
		},
		{
			name:     "away win",
			score:    Score{Home: 1, Away: 2},
			wantHome: Delta{Played: 1, Lost: 1, GoalsFor: 1, GoalsAgainst: 2},
			wantAway: Delta{Played: 1, Won: 1, GoalsFor: 2, GoalsAgainst: 1, Points: 3},
		},
		{
			name:     "draw",
			score:    Score{Home: 0, Away: 0},
			wantHome: Delta{Played: 1, Drawn: 1, Points: 1},
			wantAway: Delta{Played: 1, Drawn: 1, Points: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home, away := Contribution(tt.score)
			assert.Equal(t, tt.wantHome, home)
			assert.Equal(t, tt.wantAway, away)
		})
	}
}

func TestResultDelta_CorrectionMatchesDirectApplication(t *testing.T) {
	results := []Score{
		{Home: 0, Away: 0},
		{Home: 1, Away: 0},
		{Home: 0, Away: 3},
		{Home: 2, Away: 2},
		{Home: 5, Away: 4},
	}
	base := Standings{Played: 4, Won: 2, Drawn: 1, Lost: 1, GoalsFor: 7, GoalsAgainst: 5, GoalDifference: 2, Points: 7}

	for _, r1 := range results {
		for _, r2 := range results {
			r1, r2 := r1, r2

			h1, a1 := ResultDelta(nil, &r1)
			hc, ac := ResultDelta(&r1, &r2)
			corrected := [2]Standings{base.Apply(h1).Apply(hc), base.Apply(a1).Apply(ac)}

			h2, a2 := ResultDelta(nil, &r2)
			direct := [2]Standings{base.Apply(h2), base.Apply(a2)}

			assert.Equal(t, direct, corrected, "R1=%v R2=%v", r1, r2)
			assert.True(t, corrected[0].Valid())
			assert.True(t, corrected[1].Valid())
		}
	}
}

func TestResultDelta_SameScoreIsNoop(t *testing.T) {
	s := Score{Home: 3, Away: 1}
	home, away := ResultDelta(&s, &s)
	assert.True(t, home.IsZero())
	assert.True(t, away.IsZero())
}

func TestResultDelta_RemovalReversesApplication(t *testing.T) {
	s := Score{Home: 1, Away: 2}
	applyHome, applyAway := ResultDelta(nil, &s)
	removeHome, removeAway := ResultDelta(&s, nil)

	assert.Equal(t, applyHome.Negate(), removeHome)
	assert.Equal(t, applyAway.Negate(), removeAway)
	assert.True(t, applyHome.Add(removeHome).IsZero())
}

func TestStandingsApply_RecomputesGoalDifference(t *testing.T) {
	s := Standings{}.Apply(Delta{Played: 1, Won: 1, GoalsFor: 4, GoalsAgainst: 1, Points: 3})
	assert.Equal(t, 3, s.GoalDifference)
	assert.True(t, s.Valid())

	s = s.Apply(Delta{Played: 1, Lost: 1, GoalsFor: 0, GoalsAgainst: 5})
	assert.Equal(t, -2, s.GoalDifference)
	assert.True(t, s.Valid())
}

package services

import (
	"context"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveCounters(t *testing.T) {
	counts := []models.PlayerEventCount{
		{TeamID: 1, PlayerName: "ann", EventType: models.EventGoal, Count: 3},
		{TeamID: 1, PlayerName: "ann", EventType: models.EventGoal, IsOwnGoal: true, Count: 1},
		{TeamID: 1, PlayerName: "ANN ", EventType: models.EventAssist, Count: 2},
		{TeamID: 1, PlayerName: "ann", EventType: models.EventYellowCard, Count: 2},
		{TeamID: 1, PlayerName: "ann", EventType: models.EventRedCard, Count: 1},
		{TeamID: 2, PlayerName: "ann", EventType: models.EventGoal, Count: 1},
		{TeamID: 2, PlayerName: "bob", EventType: models.EventSubstitution, Count: 4},
	}

	got := deriveCounters(counts)

	want := map[playerKey]models.MemberCounters{
		{teamID: 1, name: "ann"}: {Goals: 3, Assists: 2, YellowCards: 2, RedCards: 1},
		{teamID: 2, name: "ann"}: {Goals: 1},
		{teamID: 2, name: "bob"}: {},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(playerKey{})); diff != "" {
		t.Errorf("deriveCounters mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncAllPlayerStats_RepairsDrift(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.events.insert(t, models.MatchEvent{FixtureID: e.fixture.ID, EventType: models.EventGoal, TeamID: e.alpha.ID, PlayerName: "ann", EventTime: 10})
	e.events.insert(t, models.MatchEvent{FixtureID: e.fixture.ID, EventType: models.EventAssist, TeamID: e.alpha.ID, PlayerName: "Ava", EventTime: 10})

	bob := e.members.byName(e.beta.ID, "Bob")
	require.NoError(t, e.members.UpdateCounters(ctx, bob.ID, models.MemberCounters{Goals: 5, RedCards: 1}))

	validation, err := e.stats.ValidatePlayerStats(ctx)
	require.NoError(t, err)
	assert.False(t, validation.Valid)
	assert.Len(t, validation.CounterIssues, 3)

	result, err := e.stats.SyncAllPlayerStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.DiscrepanciesFound)
	assert.Equal(t, 3, result.PlayersUpdated)

	assert.Equal(t, models.MemberCounters{Goals: 1}, e.members.byName(e.alpha.ID, "Ann").Counters())
	assert.Equal(t, models.MemberCounters{Assists: 1}, e.members.byName(e.alpha.ID, "Ava").Counters())
	assert.Equal(t, models.MemberCounters{}, e.members.byName(e.beta.ID, "Bob").Counters())

	validation, err = e.stats.ValidatePlayerStats(ctx)
	require.NoError(t, err)
	assert.True(t, validation.Valid)
}

func TestSyncTeams_OnlyTouchesGivenTeams(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	gamma := &models.Team{Name: "Gamma"}
	require.NoError(t, e.teams.Create(ctx, gamma))
	e.addRoster(t, gamma.ID, "Gus")
	gus := e.members.byName(gamma.ID, "Gus")
	require.NoError(t, e.members.UpdateCounters(ctx, gus.ID, models.MemberCounters{Goals: 9}))
	e.events.insert(t, models.MatchEvent{FixtureID: e.fixture.ID, EventType: models.EventGoal, TeamID: e.alpha.ID, PlayerName: "Ann", EventTime: 10})

	result, err := e.stats.SyncTeams(ctx, e.alpha.ID, e.beta.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.PlayersUpdated)
	assert.Equal(t, 9, e.members.byName(gamma.ID, "Gus").Goals)

	empty, err := e.stats.SyncTeams(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.PlayersChecked)
}

func TestRecomputeParticipation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	second := e.addFixture(t, e.alpha.ID, e.beta.ID)
	ann := e.members.byName(e.alpha.ID, "Ann")

	for _, rec := range []*models.PlayerTimeRecord{
		{FixtureID: e.fixture.ID, TeamID: e.alpha.ID, PlayerName: "Ann", TotalSeconds: 1500},
		{FixtureID: second.ID, TeamID: e.alpha.ID, PlayerName: "Ann", TotalSeconds: 59},
		{FixtureID: e.fixture.ID, TeamID: e.alpha.ID, PlayerName: "Ava", TotalSeconds: 60},
	} {
		require.NoError(t, e.playerTimes.Upsert(ctx, rec))
	}

	updated, err := e.stats.RecomputeParticipation(ctx, e.alpha.ID, e.alpha.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	ann = e.members.byName(e.alpha.ID, ann.Name)
	assert.Equal(t, 1, ann.MatchesPlayed, "59 seconds is below the participation threshold")
	assert.Equal(t, 25, ann.TotalMinutesPlayed)
	assert.Equal(t, 1, e.members.byName(e.alpha.ID, "Ava").MatchesPlayed)

	validation, err := e.stats.ValidatePlayerStats(ctx)
	require.NoError(t, err)
	assert.Empty(t, validation.ParticipationIssues)

	require.NoError(t, e.members.UpdateParticipation(ctx, ann.ID, 7, 25))
	validation, err = e.stats.ValidatePlayerStats(ctx)
	require.NoError(t, err)
	require.Len(t, validation.ParticipationIssues, 1)
	assert.Equal(t, 7, validation.ParticipationIssues[0].StoredMatches)
	assert.Equal(t, 1, validation.ParticipationIssues[0].DerivedMatches)
}

package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Dosada05/league-system/league"
	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/notify"
	"github.com/Dosada05/league-system/referee"
	"github.com/Dosada05/league-system/storage"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestSaveMatch_PartialFailure(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	in := SaveMatchInput{
		FixtureID: e.fixture.ID,
		Goals: []GoalInput{
			goal(models.SideHome, "Ann", 100),
			goal(models.SideHome, "Ava", 200),
			goal(models.SideHome, "Ghost Player", 300),
			goal(models.SideAway, "Bob", 400),
			goal(models.SideAway, "Ben", 500),
		},
		Editor: "referee-1",
	}

	result, err := e.saver.SaveMatch(ctx, in)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 4, result.GoalsAssigned)
	require.Len(t, result.PartialErrors, 1)
	assert.Equal(t, ItemGoal, result.PartialErrors[0].Kind)
	assert.Equal(t, 2, result.PartialErrors[0].Index)
	assert.ErrorIs(t, result.PartialErrors[0].Err, ErrPlayerNotFound)

	require.NotNil(t, result.Score)
	assert.Equal(t, league.Score{Home: 2, Away: 2}, *result.Score)
	assert.True(t, result.ScoreUpdated)
	assert.Len(t, e.events.all(e.fixture.ID), 4)

	require.NotEmpty(t, e.notifier.sent)
	summary := e.notifier.sent[len(e.notifier.sent)-1]
	assert.Equal(t, notify.SeverityWarning, summary.Severity)
	assert.Equal(t, notify.SeverityError, e.notifier.sent[0].Severity)
	assert.Contains(t, e.notifier.sent[0].Title, "Ghost Player")
}

func TestSaveMatch_AlphaBeta(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	result, err := e.saver.SaveMatch(ctx, SaveMatchInput{
		FixtureID: e.fixture.ID,
		HomeScore: intPtr(1),
		AwayScore: intPtr(2),
		Goals: []GoalInput{
			{Side: models.SideHome, PlayerName: "Ann", AssistPlayerName: "Ava", EventTime: 300},
			{Side: models.SideAway, PlayerName: "Bob", EventTime: 900},
			{Side: models.SideAway, PlayerName: "Ben", AssistPlayerName: "Bob", EventTime: 1500},
		},
		Cards: []CardInput{
			{Side: models.SideAway, PlayerName: "Ben", CardType: models.EventYellowCard, EventTime: 1000},
		},
		PlayerTimes: []PlayerTimeInput{
			{Side: models.SideHome, PlayerName: "Ann", TotalSeconds: 2400},
			{Side: models.SideHome, PlayerName: "Ava", TotalSeconds: 30},
			{Side: models.SideAway, PlayerName: "Bob", TotalSeconds: 1800},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Success, "errors: %+v", result.PartialErrors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 3, result.GoalsAssigned)
	assert.Equal(t, 2, result.AssistsAssigned)
	assert.Equal(t, 1, result.CardsCreated)
	assert.Equal(t, 3, result.PlayerTimesUpdated)

	fixture := e.fixtures.get(e.fixture.ID)
	assert.Equal(t, models.FixtureCompleted, fixture.Status)
	assert.Equal(t, 1, *fixture.HomeScore)
	assert.Equal(t, 2, *fixture.AwayScore)

	alpha, beta := e.teams.get(e.alpha.ID), e.teams.get(e.beta.ID)
	assert.Equal(t, 1, alpha.Played)
	assert.Equal(t, 1, alpha.Lost)
	assert.Equal(t, 1, beta.Won)
	assert.Equal(t, 3, beta.Points)

	ann := e.members.byName(e.alpha.ID, "Ann")
	assert.Equal(t, models.MemberCounters{Goals: 1}, ann.Counters())
	assert.Equal(t, 1, ann.MatchesPlayed)
	assert.Equal(t, 40, ann.TotalMinutesPlayed)
	ava := e.members.byName(e.alpha.ID, "Ava")
	assert.Equal(t, 1, ava.Assists)
	assert.Zero(t, ava.MatchesPlayed, "under a minute does not count as an appearance")
	ben := e.members.byName(e.beta.ID, "Ben")
	assert.Equal(t, models.MemberCounters{Goals: 1, YellowCards: 1}, ben.Counters())

	assert.Contains(t, e.hub.types(live.FixtureRoom(e.fixture.ID)), live.TypeMatchSaved)
	require.NotEmpty(t, result.ReportURL)
	key := storage.MatchReportKey(e.fixture.ID, result.SaveID.String())
	raw, ok := e.uploader.Object(key)
	require.True(t, ok)
	var archived SaveMatchResult
	require.NoError(t, json.Unmarshal(raw, &archived))
	assert.Equal(t, result.SaveID, archived.SaveID)
}

func TestSaveMatch_ResubmissionIsSkipped(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	in := SaveMatchInput{
		FixtureID: e.fixture.ID,
		Goals: []GoalInput{
			{Side: models.SideHome, PlayerName: "Ann", AssistPlayerName: "Ava", EventTime: 600},
		},
	}

	first, err := e.saver.SaveMatch(ctx, in)
	require.NoError(t, err)
	require.True(t, first.Success)

	in.Goals[0].EventTime = 605
	second, err := e.saver.SaveMatch(ctx, in)
	require.NoError(t, err)

	assert.True(t, second.Success)
	assert.Zero(t, second.GoalsAssigned)
	assert.Len(t, second.Skipped, 2, "goal and retried assist are both already recorded")
	assert.Len(t, e.events.all(e.fixture.ID), 2)

	alpha := e.teams.get(e.alpha.ID)
	assert.Equal(t, 1, alpha.Played)
	assert.Equal(t, 1, alpha.GoalsFor)
	assert.Equal(t, 1, e.members.byName(e.alpha.ID, "Ann").Goals)
}

func TestSaveMatch_CleansPreexistingDuplicates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.events.insert(t, models.MatchEvent{FixtureID: e.fixture.ID, EventType: models.EventGoal, TeamID: e.alpha.ID, PlayerName: "Ann", EventTime: 600})
	e.events.insert(t, models.MatchEvent{FixtureID: e.fixture.ID, EventType: models.EventGoal, TeamID: e.alpha.ID, PlayerName: "Ann", EventTime: 605})

	result, err := e.saver.SaveMatch(ctx, SaveMatchInput{FixtureID: e.fixture.ID})
	require.NoError(t, err)

	assert.Equal(t, 1, result.DuplicatesRemoved)
	assert.Equal(t, league.Score{Home: 1}, *result.Score)
	assert.Equal(t, 1, e.members.byName(e.alpha.ID, "Ann").Goals, "counters are rebuilt from the event log")
}

func TestSaveMatch_ValidationRejectsWholePayload(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.saver.SaveMatch(ctx, SaveMatchInput{
		FixtureID: e.fixture.ID,
		HomeScore: intPtr(-1),
		Goals:     []GoalInput{goal(models.SideHome, "Ann", 10), goal("middle", "", 20)},
		Cards:     []CardInput{{Side: models.SideAway, PlayerName: "Bob", CardType: "green_card", EventTime: 10}},
	})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, len(verrs))
	for i, v := range verrs {
		fields[i] = v.Field
	}
	assert.ElementsMatch(t, []string{"home_score", "goals[1].side", "goals[1].player_name", "cards[0].card_type"}, fields)
	assert.Empty(t, e.events.all(e.fixture.ID))
}

func TestSaveMatch_LocalScoreMismatchWarns(t *testing.T) {
	e := newEnv(t)
	result, err := e.saver.SaveMatch(context.Background(), SaveMatchInput{
		FixtureID: e.fixture.ID,
		HomeScore: intPtr(2),
		AwayScore: intPtr(0),
		Goals:     []GoalInput{goal(models.SideHome, "Ann", 10)},
	})
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "differs")
}

func TestSaveMatchInputFromSession(t *testing.T) {
	session := referee.NewSession(7)
	session.Start()
	for i := 0; i < 90; i++ {
		session.Tick()
	}
	assigned, err := session.AddGoal(models.SideHome)
	require.NoError(t, err)
	_, err = session.AssignGoal(assigned.ID, "Ann", "Ava", false)
	require.NoError(t, err)
	own, err := session.AddGoal(models.SideAway)
	require.NoError(t, err)
	_, err = session.AssignGoal(own.ID, "Ann", "", true)
	require.NoError(t, err)
	_, err = session.AddGoal(models.SideAway)
	require.NoError(t, err)
	_, err = session.AddCard(models.SideAway, "Bob", models.EventYellowCard)
	require.NoError(t, err)

	in := SaveMatchInputFromSession(session.Snapshot())

	assert.Equal(t, 7, in.FixtureID)
	assert.Equal(t, 1, *in.HomeScore)
	assert.Equal(t, 2, *in.AwayScore)
	want := []GoalInput{
		{FixtureID: 7, Side: models.SideHome, PlayerName: "Ann", AssistPlayerName: "Ava", EventTime: 90},
		{FixtureID: 7, Side: models.SideHome, PlayerName: "Ann", EventTime: 90, IsOwnGoal: true},
	}
	if diff := cmp.Diff(want, in.Goals); diff != "" {
		t.Errorf("goals mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, in.Cards, 1)
	assert.Equal(t, models.EventYellowCard, in.Cards[0].CardType)
}

func TestSaveMatch_SessionGoalRecordedOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	session := referee.NewSession(e.fixture.ID)
	session.Start()
	for i := 0; i < 600; i++ {
		session.Tick()
	}

	local, err := session.AddGoal(models.SideHome)
	require.NoError(t, err)
	local, err = session.AssignGoal(local.ID, "Ann", "", false)
	require.NoError(t, err)
	assigned, err := e.match.AssignGoal(ctx, GoalInput{
		FixtureID:  e.fixture.ID,
		Side:       local.PlayerSide(),
		PlayerName: local.PlayerName,
		EventTime:  local.EventTime,
	})
	require.NoError(t, err)
	require.NoError(t, session.MarkGoalRecorded(local.ID, assigned.Goal.ID))

	_, err = session.AssignGoal(local.ID, "Ava", "", false)
	require.ErrorIs(t, err, referee.ErrGoalRecorded)

	result, err := e.saver.SaveMatch(ctx, SaveMatchInputFromSession(session.Snapshot()))
	require.NoError(t, err)
	assert.True(t, result.Success, "errors: %+v", result.PartialErrors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, league.Score{Home: 1}, *result.Score)
	assert.Len(t, e.events.all(e.fixture.ID), 1)
	assert.Equal(t, 1, e.members.byName(e.alpha.ID, "Ann").Goals)
	assert.Zero(t, e.members.byName(e.alpha.ID, "Ava").Goals)
}

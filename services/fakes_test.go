package services

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/league"
	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/notify"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func fold(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type fakeFixtureRepo struct {
	mu       sync.Mutex
	nextID   int
	fixtures map[int]*models.Fixture

	updateErr func(id int, status models.FixtureStatus) error
}

func newFakeFixtureRepo() *fakeFixtureRepo {
	return &fakeFixtureRepo{fixtures: make(map[int]*models.Fixture)}
}

func (r *fakeFixtureRepo) Create(_ context.Context, f *models.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	f.ID = r.nextID
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	stored := *f
	r.fixtures[f.ID] = &stored
	return nil
}

func (r *fakeFixtureRepo) GetByID(_ context.Context, id int) (*models.Fixture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fixtures[id]
	if !ok {
		return nil, repositories.ErrFixtureNotFound
	}
	out := *f
	return &out, nil
}

func (r *fakeFixtureRepo) List(_ context.Context, filter models.FixtureFilter) ([]*models.Fixture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Fixture, 0, len(r.fixtures))
	for _, f := range r.fixtures {
		if filter.Status != nil && f.Status != *filter.Status {
			continue
		}
		if filter.TeamID != nil && f.HomeTeamID != *filter.TeamID && f.AwayTeamID != *filter.TeamID {
			continue
		}
		c := *f
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *models.Fixture) int { return a.ID - b.ID })
	return out, nil
}

func (r *fakeFixtureRepo) UpdateResult(_ context.Context, id int, homeScore, awayScore *int, status models.FixtureStatus) error {
	if r.updateErr != nil {
		if err := r.updateErr(id, status); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fixtures[id]
	if !ok {
		return repositories.ErrFixtureNotFound
	}
	f.HomeScore, f.AwayScore, f.Status = copyInt(homeScore), copyInt(awayScore), status
	return nil
}

func (r *fakeFixtureRepo) Count(_ context.Context, status *models.FixtureStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, f := range r.fixtures {
		if status == nil || f.Status == *status {
			n++
		}
	}
	return n, nil
}

func (r *fakeFixtureRepo) get(id int) models.Fixture {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.fixtures[id]
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

type fakeTeamRepo struct {
	mu     sync.Mutex
	nextID int
	teams  map[int]*models.Team

	deltaErr func(teamID int, d league.Delta) error
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team)}
}

func (r *fakeTeamRepo) Create(_ context.Context, t *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.teams {
		if fold(existing.Name) == fold(t.Name) {
			return repositories.ErrTeamNameConflict
		}
	}
	r.nextID++
	t.ID = r.nextID
	stored := *t
	r.teams[t.ID] = &stored
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	out := *t
	return &out, nil
}

func (r *fakeTeamRepo) ListAll(_ context.Context) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		c := *t
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *models.Team) int {
		switch {
		case a.Position == 0 && b.Position != 0:
			return 1
		case a.Position != 0 && b.Position == 0:
			return -1
		case a.Position != b.Position:
			return a.Position - b.Position
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (r *fakeTeamRepo) ApplyStandingsDelta(_ context.Context, teamID int, d league.Delta) error {
	if r.deltaErr != nil {
		if err := r.deltaErr(teamID, d); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Played += d.Played
	t.Won += d.Won
	t.Drawn += d.Drawn
	t.Lost += d.Lost
	t.GoalsFor += d.GoalsFor
	t.GoalsAgainst += d.GoalsAgainst
	t.GoalDifference = t.GoalsFor - t.GoalsAgainst
	t.Points += d.Points
	return nil
}

func (r *fakeTeamRepo) UpdatePositions(_ context.Context, updates []models.PositionUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range updates {
		if t, ok := r.teams[u.TeamID]; ok {
			t.Position, t.PreviousPosition = u.Position, u.PreviousPosition
		}
	}
	return nil
}

func (r *fakeTeamRepo) UpdateLogo(_ context.Context, teamID int, logoKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.LogoKey = logoKey
	return nil
}

func (r *fakeTeamRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.teams), nil
}

func (r *fakeTeamRepo) get(id int) models.Team {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.teams[id]
}

type fakeMemberRepo struct {
	mu      sync.Mutex
	nextID  int
	members map[int]*models.Member

	incrementErr func(memberID int, stat models.MemberStat) error
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[int]*models.Member)}
}

func (r *fakeMemberRepo) Create(_ context.Context, m *models.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.members {
		if existing.TeamID == m.TeamID && fold(existing.Name) == fold(m.Name) {
			return repositories.ErrMemberConflict
		}
	}
	r.nextID++
	m.ID = r.nextID
	stored := *m
	r.members[m.ID] = &stored
	return nil
}

func (r *fakeMemberRepo) GetByID(_ context.Context, id int) (*models.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return nil, repositories.ErrMemberNotFound
	}
	out := *m
	return &out, nil
}

func (r *fakeMemberRepo) GetByTeamAndName(_ context.Context, teamID int, name string) (*models.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.TeamID == teamID && fold(m.Name) == fold(name) {
			out := *m
			return &out, nil
		}
	}
	return nil, repositories.ErrMemberNotFound
}

func (r *fakeMemberRepo) ListByTeam(_ context.Context, teamID int) ([]*models.Member, error) {
	return r.list(func(m *models.Member) bool { return m.TeamID == teamID }), nil
}

func (r *fakeMemberRepo) ListAll(_ context.Context) ([]*models.Member, error) {
	return r.list(func(*models.Member) bool { return true }), nil
}

func (r *fakeMemberRepo) list(keep func(*models.Member) bool) []*models.Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Member, 0)
	for _, m := range r.members {
		if keep(m) {
			c := *m
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *models.Member) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (r *fakeMemberRepo) IncrementStat(_ context.Context, memberID int, stat models.MemberStat, delta int) error {
	if r.incrementErr != nil {
		if err := r.incrementErr(memberID, stat); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[memberID]
	if !ok {
		return repositories.ErrMemberNotFound
	}
	var field *int
	switch stat {
	case models.StatGoals:
		field = &m.Goals
	case models.StatAssists:
		field = &m.Assists
	case models.StatYellowCards:
		field = &m.YellowCards
	case models.StatRedCards:
		field = &m.RedCards
	default:
		return repositories.ErrMemberStatUnknown
	}
	if *field+delta < 0 {
		return repositories.ErrMemberStatNegative
	}
	*field += delta
	return nil
}

func (r *fakeMemberRepo) UpdateCounters(_ context.Context, memberID int, c models.MemberCounters) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[memberID]
	if !ok {
		return repositories.ErrMemberNotFound
	}
	m.Goals, m.Assists, m.YellowCards, m.RedCards = c.Goals, c.Assists, c.YellowCards, c.RedCards
	return nil
}

func (r *fakeMemberRepo) UpdateParticipation(_ context.Context, memberID int, matchesPlayed, totalMinutes int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[memberID]
	if !ok {
		return repositories.ErrMemberNotFound
	}
	m.MatchesPlayed, m.TotalMinutesPlayed = matchesPlayed, totalMinutes
	return nil
}

func (r *fakeMemberRepo) byName(teamID int, name string) models.Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.TeamID == teamID && fold(m.Name) == fold(name) {
			return *m
		}
	}
	return models.Member{}
}

// fakeEventRepo keeps events in memory. Every insert advances the clock by one millisecond
// so created_at order equals insert order.
type fakeEventRepo struct {
	mu     sync.Mutex
	nextID int64
	clock  time.Time
	events map[int64]*models.MatchEvent

	createErr func(e *models.MatchEvent) error
	listErr   error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		clock:  time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC),
		events: make(map[int64]*models.MatchEvent),
	}
}

func (r *fakeEventRepo) Create(_ context.Context, e *models.MatchEvent) error {
	if r.createErr != nil {
		if err := r.createErr(e); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.clock = r.clock.Add(time.Millisecond)
	e.ID = r.nextID
	e.CreatedAt = r.clock
	stored := *e
	r.events[e.ID] = &stored
	return nil
}

// insert stores an event as-is, bypassing every service check.
func (r *fakeEventRepo) insert(t *testing.T, e models.MatchEvent) *models.MatchEvent {
	t.Helper()
	require.NoError(t, r.Create(context.Background(), &e))
	return &e
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int64) (*models.MatchEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrMatchEventNotFound
	}
	out := *e
	return &out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, e *models.MatchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.events[e.ID]
	if !ok {
		return repositories.ErrMatchEventNotFound
	}
	createdAt := stored.CreatedAt
	*stored = *e
	stored.CreatedAt = createdAt
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return repositories.ErrMatchEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) DeleteByIDs(_ context.Context, ids []int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.events[id]; ok {
			delete(r.events, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeEventRepo) DeleteByFixture(_ context.Context, fixtureID int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, e := range r.events {
		if e.FixtureID == fixtureID {
			delete(r.events, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeEventRepo) ListByFixture(_ context.Context, fixtureID int, filter models.EventFilter) ([]*models.MatchEvent, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.selectEvents(func(e *models.MatchEvent) bool {
		return e.FixtureID == fixtureID && (len(filter.Types) == 0 || slices.Contains(filter.Types, e.EventType))
	}), nil
}

func (r *fakeEventRepo) FindInWindow(_ context.Context, q models.DuplicateQuery) ([]*models.MatchEvent, error) {
	return r.selectEvents(func(e *models.MatchEvent) bool {
		return e.FixtureID == q.FixtureID && e.TeamID == q.TeamID && e.EventType == q.EventType &&
			fold(e.PlayerName) == fold(q.PlayerName) && e.EventTime >= q.FromTime && e.EventTime <= q.ToTime
	}), nil
}

func (r *fakeEventRepo) selectEvents(keep func(*models.MatchEvent) bool) []*models.MatchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.MatchEvent, 0)
	for _, e := range r.events {
		if keep(e) {
			c := *e
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *models.MatchEvent) int {
		if a.EventTime != b.EventTime {
			return a.EventTime - b.EventTime
		}
		return int(a.ID - b.ID)
	})
	return out
}

func (r *fakeEventRepo) CountByPlayer(_ context.Context) ([]models.PlayerEventCount, error) {
	type key struct {
		teamID  int
		name    string
		typ     models.EventType
		ownGoal bool
	}
	counts := make(map[key]int)
	for _, e := range r.selectEvents(func(*models.MatchEvent) bool { return true }) {
		counts[key{e.TeamID, fold(e.PlayerName), e.EventType, e.IsOwnGoal}]++
	}
	out := make([]models.PlayerEventCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.PlayerEventCount{TeamID: k.teamID, PlayerName: k.name, EventType: k.typ, IsOwnGoal: k.ownGoal, Count: n})
	}
	return out, nil
}

func (r *fakeEventRepo) CountByType(_ context.Context, types ...models.EventType) (int, error) {
	return len(r.selectEvents(func(e *models.MatchEvent) bool { return slices.Contains(types, e.EventType) })), nil
}

func (r *fakeEventRepo) all(fixtureID int) []*models.MatchEvent {
	events, _ := r.ListByFixture(context.Background(), fixtureID, models.EventFilter{})
	return events
}

type fakePlayerTimeRepo struct {
	mu      sync.Mutex
	nextID  int
	records []*models.PlayerTimeRecord

	upsertErr func(rec *models.PlayerTimeRecord) error
}

func (r *fakePlayerTimeRepo) Upsert(_ context.Context, rec *models.PlayerTimeRecord) error {
	if r.upsertErr != nil {
		if err := r.upsertErr(rec); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.FixtureID == rec.FixtureID && existing.TeamID == rec.TeamID && existing.PlayerName == rec.PlayerName {
			rec.ID = existing.ID
			*existing = *rec
			return nil
		}
	}
	r.nextID++
	rec.ID = r.nextID
	stored := *rec
	r.records = append(r.records, &stored)
	return nil
}

func (r *fakePlayerTimeRepo) ListByFixture(_ context.Context, fixtureID int) ([]*models.PlayerTimeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.PlayerTimeRecord, 0)
	for _, rec := range r.records {
		if rec.FixtureID == fixtureID {
			c := *rec
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakePlayerTimeRepo) ParticipationByPlayer(_ context.Context, minSeconds int) ([]models.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	type key struct {
		teamID int
		name   string
	}
	agg := make(map[key]models.Participation)
	for _, rec := range r.records {
		k := key{rec.TeamID, fold(rec.PlayerName)}
		p := agg[k]
		p.TeamID, p.PlayerName = k.teamID, k.name
		if rec.TotalSeconds >= minSeconds {
			p.MatchesPlayed++
		}
		p.TotalSeconds += rec.TotalSeconds
		agg[k] = p
	}
	out := make([]models.Participation, 0, len(agg))
	for _, p := range agg {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePlayerTimeRepo) DeleteByFixture(_ context.Context, fixtureID int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.records[:0]
	var n int64
	for _, rec := range r.records {
		if rec.FixtureID == fixtureID {
			n++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return n, nil
}

type fakeModLogRepo struct {
	mu      sync.Mutex
	entries []*models.ModificationLog

	createErr error
}

func (r *fakeModLogRepo) Create(_ context.Context, entry *models.ModificationLog) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	stored := *entry
	r.entries = append(r.entries, &stored)
	return nil
}

func (r *fakeModLogRepo) ListByFixture(_ context.Context, fixtureID int) ([]*models.ModificationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.ModificationLog, 0)
	for _, e := range r.entries {
		if e.FixtureID == fixtureID {
			out = append(out, e)
		}
	}
	return out, nil
}

type recordingHub struct {
	mu       sync.Mutex
	messages []live.Message
}

func (h *recordingHub) BroadcastToRoom(room string, msg live.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	msg.RoomID = room
	h.messages = append(h.messages, msg)
}

func (h *recordingHub) types(room string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, m := range h.messages {
		if m.RoomID == room {
			out = append(out, m.Type)
		}
	}
	return out
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, note notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, note)
}

// env wires every service over in-memory repositories. Fixture 1 is Alpha (home) against
// Beta (away), scheduled.
type env struct {
	fixtures    *fakeFixtureRepo
	teams       *fakeTeamRepo
	members     *fakeMemberRepo
	events      *fakeEventRepo
	playerTimes *fakePlayerTimeRepo
	modLogs     *fakeModLogRepo
	hub         *recordingHub
	notifier    *recordingNotifier
	uploader    *storage.MemoryUploader
	policy      config.MatchPolicy

	locks     *FixtureLocks
	gate      *DuplicateGate
	standings *StandingsService
	positions *PositionService
	scores    *ScoreService
	stats     *StatsService
	recorder  *EventService
	saver     *SaveService
	admin     AdminService
	match     MatchService

	alpha, beta *models.Team
	fixture     *models.Fixture
}

func quietObservability() Observability {
	return Observability{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer: noop.NewTracerProvider().Tracer("services-test"),
	}
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	e := &env{
		fixtures:    newFakeFixtureRepo(),
		teams:       newFakeTeamRepo(),
		members:     newFakeMemberRepo(),
		events:      newFakeEventRepo(),
		playerTimes: &fakePlayerTimeRepo{},
		modLogs:     &fakeModLogRepo{},
		hub:         &recordingHub{},
		notifier:    &recordingNotifier{},
		uploader:    storage.NewMemoryUploader("https://cdn.example.test"),
		policy:      config.DefaultPolicy(),
	}
	obs := quietObservability()

	c := NewContainer(repositories.Set{
		Fixtures:    e.fixtures,
		Teams:       e.teams,
		Members:     e.members,
		Events:      e.events,
		PlayerTimes: e.playerTimes,
		ModLogs:     e.modLogs,
	}, ContainerDeps{Policy: e.policy, Hub: e.hub, Notifier: e.notifier, Uploader: e.uploader, Obs: obs})
	e.locks = c.Locks
	e.gate = c.Gate
	e.standings = c.Standings
	e.positions = c.Positions
	e.scores = c.Scores
	e.stats = c.Stats
	e.recorder = c.Recorder
	e.saver = c.Saver
	e.admin = c.Admin
	e.match = c.Match

	e.alpha = &models.Team{Name: "Alpha"}
	e.beta = &models.Team{Name: "Beta"}
	require.NoError(t, e.teams.Create(ctx, e.alpha))
	require.NoError(t, e.teams.Create(ctx, e.beta))

	e.addRoster(t, e.alpha.ID, "Ann", "Ava")
	e.addRoster(t, e.beta.ID, "Bob", "Ben")

	e.fixture = &models.Fixture{
		HomeTeamID:  e.alpha.ID,
		AwayTeamID:  e.beta.ID,
		ScheduledAt: time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC),
		Status:      models.FixtureScheduled,
	}
	require.NoError(t, e.fixtures.Create(ctx, e.fixture))
	return e
}

// addRoster adds the named players plus a few generated ones.
func (e *env) addRoster(t *testing.T, teamID int, names ...string) {
	t.Helper()
	faker := gofakeit.New(uint64(teamID))
	for i := 0; i < 3; i++ {
		names = append(names, faker.FirstName()+" "+faker.LastName())
	}
	for _, name := range names {
		m := &models.Member{TeamID: teamID, Name: name, Role: models.RoleStarter}
		if err := e.members.Create(context.Background(), m); err != nil && err != repositories.ErrMemberConflict {
			require.NoError(t, err)
		}
	}
}

func (e *env) addFixture(t *testing.T, home, away int) *models.Fixture {
	t.Helper()
	f := &models.Fixture{HomeTeamID: home, AwayTeamID: away, ScheduledAt: time.Now(), Status: models.FixtureScheduled}
	require.NoError(t, e.fixtures.Create(context.Background(), f))
	return f
}

func goal(side models.Side, player string, at int) GoalInput {
	return GoalInput{Side: side, PlayerName: player, EventTime: at}
}

func standingsOf(t models.Team) league.Standings {
	return league.Standings{
		Played:         t.Played,
		Won:            t.Won,
		Drawn:          t.Drawn,
		Lost:           t.Lost,
		GoalsFor:       t.GoalsFor,
		GoalsAgainst:   t.GoalsAgainst,
		GoalDifference: t.GoalDifference,
		Points:         t.Points,
	}
}

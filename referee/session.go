package referee

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrInvalidSide      = errors.New("side must be home or away")
	ErrInvalidCard      = errors.New("card type must be yellow_card or red_card")
	ErrEmptyPlayerName  = errors.New("player name is required")
	ErrNoGoalToRemove   = errors.New("no goal to remove for side")
	ErrGoalNotFound     = errors.New("local goal not found")
	ErrGoalRecorded     = errors.New("goal already recorded; correct it through event moderation")
	ErrPlayerTracked    = errors.New("player already tracked")
	ErrPlayerNotTracked = errors.New("player not tracked")
)

// LocalGoal is a goal on the local scoreboard. Side is the credited side; until a player
// is assigned the goal exists only locally.
type LocalGoal struct {
	ID               int         `json:"id"`
	Side             models.Side `json:"side"`
	EventTime        int         `json:"event_time"`
	PlayerName       string      `json:"player_name,omitempty"`
	AssistPlayerName string      `json:"assist_player_name,omitempty"`
	IsOwnGoal        bool        `json:"is_own_goal,omitempty"`
	// EventID is the persisted goal event, zero until the goal is recorded.
	EventID          int64       `json:"event_id,omitempty"`
}

func (g LocalGoal) Assigned() bool { return g.PlayerName != "" }

func (g LocalGoal) Recorded() bool { return g.EventID != 0 }

// PlayerSide is the side of the scoring player's team.
func (g LocalGoal) PlayerSide() models.Side {
	if g.IsOwnGoal {
		return g.Side.Opposite()
	}
	return g.Side
}

type LocalCard struct {
	ID         int              `json:"id"`
	Side       models.Side      `json:"side"`
	PlayerName string           `json:"player_name"`
	CardType   models.EventType `json:"card_type"`
	EventTime  int              `json:"event_time"`
}

type TrackedPlayer struct {
	Side         models.Side         `json:"side"`
	Name         string              `json:"name"`
	OnField      bool                `json:"on_field"`
	TotalSeconds int                 `json:"total_seconds"`
	Periods      []models.PlayPeriod `json:"periods"`

	periodStart int
}

// Snapshot is a copy of the session state. Open on-field periods are closed at the
// current elapsed time in the copy only.
type Snapshot struct {
	FixtureID      int             `json:"fixture_id"`
	ElapsedSeconds int             `json:"elapsed_seconds"`
	Running        bool            `json:"running"`
	HomeScore      int             `json:"home_score"`
	AwayScore      int             `json:"away_score"`
	Goals          []LocalGoal     `json:"goals"`
	Cards          []LocalCard     `json:"cards"`
	Players        []TrackedPlayer `json:"players"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Session is the live state of one refereed fixture. Nothing here is durable until saved.
type Session struct {
	mu sync.Mutex

	fixtureID int
	elapsed   int
	running   bool
	homeScore int
	awayScore int
	goals     []LocalGoal
	cards     []LocalCard
	players   []*TrackedPlayer
	nextID    int
	updatedAt time.Time
	now       func() time.Time
}

func NewSession(fixtureID int) *Session {
	s := &Session{fixtureID: fixtureID, now: time.Now}
	s.updatedAt = s.now()
	return s
}

func (s *Session) FixtureID() int { return s.fixtureID }

func (s *Session) touch() { s.updatedAt = s.now() }

func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.touch()
}

func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.touch()
}

func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Reset discards all local state. It does not touch anything already persisted.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed = 0
	s.running = false
	s.homeScore, s.awayScore = 0, 0
	s.goals = nil
	s.cards = nil
	s.players = nil
	s.touch()
}

// Tick advances the clock by one second when running and accrues time for on-field players.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return false
	}
	s.elapsed++
	for _, p := range s.players {
		if p.OnField {
			p.TotalSeconds++
		}
	}
	return true
}

func (s *Session) AddGoal(side models.Side) (LocalGoal, error) {
	if !side.Valid() {
		return LocalGoal{}, ErrInvalidSide
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	goal := LocalGoal{ID: s.nextID, Side: side, EventTime: s.elapsed}
	s.goals = append(s.goals, goal)
	s.adjustScore(side, 1)
	s.touch()
	return goal, nil
}

// RemoveGoal takes back the latest goal credited to side.
func (s *Session) RemoveGoal(side models.Side) error {
	if !side.Valid() {
		return ErrInvalidSide
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.score(side) == 0 {
		return ErrNoGoalToRemove
	}
	for i := len(s.goals) - 1; i >= 0; i-- {
		if s.goals[i].Side == side {
			s.goals = slices.Delete(s.goals, i, i+1)
			break
		}
	}
	s.adjustScore(side, -1)
	s.touch()
	return nil
}

// AssignGoal attaches a scorer to a local goal. For an own goal the player belongs to the
// side opposite the credited one.
func (s *Session) AssignGoal(goalID int, playerName, assistPlayerName string, ownGoal bool) (LocalGoal, error) {
	name := strings.TrimSpace(playerName)
	if name == "" {
		return LocalGoal{}, ErrEmptyPlayerName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID != goalID {
			continue
		}
		if s.goals[i].Recorded() {
			return s.goals[i], ErrGoalRecorded
		}
		s.goals[i].PlayerName = name
		s.goals[i].IsOwnGoal = ownGoal
		s.goals[i].AssistPlayerName = ""
		if !ownGoal {
			s.goals[i].AssistPlayerName = strings.TrimSpace(assistPlayerName)
		}
		s.touch()
		return s.goals[i], nil
	}
	return LocalGoal{}, ErrGoalNotFound
}

// MarkGoalRecorded links a local goal to its persisted event. Once linked the goal can no
// longer be reassigned.
func (s *Session) MarkGoalRecorded(goalID int, eventID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID != goalID {
			continue
		}
		if s.goals[i].Recorded() && s.goals[i].EventID != eventID {
			return ErrGoalRecorded
		}
		s.goals[i].EventID = eventID
		s.touch()
		return nil
	}
	return ErrGoalNotFound
}

func (s *Session) AddCard(side models.Side, playerName string, cardType models.EventType) (LocalCard, error) {
	if !side.Valid() {
		return LocalCard{}, ErrInvalidSide
	}
	if !cardType.IsCard() {
		return LocalCard{}, ErrInvalidCard
	}
	name := strings.TrimSpace(playerName)
	if name == "" {
		return LocalCard{}, ErrEmptyPlayerName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	card := LocalCard{ID: s.nextID, Side: side, PlayerName: name, CardType: cardType, EventTime: s.elapsed}
	s.cards = append(s.cards, card)
	s.touch()
	return card, nil
}

func (s *Session) AddPlayer(side models.Side, playerName string, onField bool) error {
	if !side.Valid() {
		return ErrInvalidSide
	}
	name := strings.TrimSpace(playerName)
	if name == "" {
		return ErrEmptyPlayerName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(side, name) != nil {
		return ErrPlayerTracked
	}
	p := &TrackedPlayer{Side: side, Name: name, Periods: []models.PlayPeriod{}}
	if onField {
		p.OnField = true
		p.periodStart = s.elapsed
	}
	s.players = append(s.players, p)
	s.touch()
	return nil
}

func (s *Session) RemovePlayer(side models.Side, playerName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := strings.TrimSpace(playerName)
	for i, p := range s.players {
		if p.Side == side && strings.EqualFold(p.Name, name) {
			s.players = slices.Delete(s.players, i, i+1)
			s.touch()
			return nil
		}
	}
	return ErrPlayerNotTracked
}

// ToggleOnField moves a player off or on. Going off closes the current period; coming on
// opens a new one at the current elapsed time.
func (s *Session) ToggleOnField(side models.Side, playerName string) (TrackedPlayer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.find(side, strings.TrimSpace(playerName))
	if p == nil {
		return TrackedPlayer{}, ErrPlayerNotTracked
	}
	if p.OnField {
		p.OnField = false
		if period, ok := closedPeriod(p.periodStart, s.elapsed); ok {
			p.Periods = append(p.Periods, period)
		}
	} else {
		p.OnField = true
		p.periodStart = s.elapsed
	}
	s.touch()
	return copyPlayer(p, s.elapsed), nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		FixtureID:      s.fixtureID,
		ElapsedSeconds: s.elapsed,
		Running:        s.running,
		HomeScore:      s.homeScore,
		AwayScore:      s.awayScore,
		Goals:          slices.Clone(s.goals),
		Cards:          slices.Clone(s.cards),
		Players:        make([]TrackedPlayer, len(s.players)),
		UpdatedAt:      s.updatedAt,
	}
	if snap.Goals == nil {
		snap.Goals = []LocalGoal{}
	}
	if snap.Cards == nil {
		snap.Cards = []LocalCard{}
	}
	for i, p := range s.players {
		snap.Players[i] = copyPlayer(p, s.elapsed)
	}
	return snap
}

func copyPlayer(p *TrackedPlayer, elapsed int) TrackedPlayer {
	c := *p
	c.Periods = slices.Clone(p.Periods)
	if c.Periods == nil {
		c.Periods = []models.PlayPeriod{}
	}
	if p.OnField {
		if period, ok := closedPeriod(p.periodStart, elapsed); ok {
			c.Periods = append(c.Periods, period)
		}
	}
	return c
}

func closedPeriod(start, end int) (models.PlayPeriod, bool) {
	if end <= start {
		return models.PlayPeriod{}, false
	}
	return models.PlayPeriod{Start: start, End: end, Duration: end - start}, true
}

func (s *Session) find(side models.Side, name string) *TrackedPlayer {
	for _, p := range s.players {
		if p.Side == side && strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

func (s *Session) score(side models.Side) int {
	if side == models.SideHome {
		return s.homeScore
	}
	return s.awayScore
}

func (s *Session) adjustScore(side models.Side, by int) {
	if side == models.SideHome {
		s.homeScore += by
	} else {
		s.awayScore += by
	}
}

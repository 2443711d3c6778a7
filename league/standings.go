package league

const (
	PointsForWin  = 3
	PointsForDraw = 1
)

// Score is the final result of a fixture.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type Outcome int

const (
	Loss Outcome = iota
	Draw
	Win
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Draw:
		return "draw"
	}
	return "loss"
}

// Outcomes returns the result for the home and the away team.
func (s Score) Outcomes() (home, away Outcome) {
	switch {
	case s.Home > s.Away:
		return Win, Loss
	case s.Home < s.Away:
		return Loss, Win
	}
	return Draw, Draw
}

// Delta is a change to the cumulative standings of one team.
type Delta struct {
	Played       int `json:"played"`
	Won          int `json:"won"`
	Drawn        int `json:"drawn"`
	Lost         int `json:"lost"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
	Points       int `json:"points"`
}

func (d Delta) GoalDifference() int {
	return d.GoalsFor - d.GoalsAgainst
}

func (d Delta) Add(o Delta) Delta {
	return Delta{
		Played:       d.Played + o.Played,
		Won:          d.Won + o.Won,
		Drawn:        d.Drawn + o.Drawn,
		Lost:         d.Lost + o.Lost,
		GoalsFor:     d.GoalsFor + o.GoalsFor,
		GoalsAgainst: d.GoalsAgainst + o.GoalsAgainst,
		Points:       d.Points + o.Points,
	}
}

func (d Delta) Negate() Delta {
	return Delta{}.sub(d)
}

func (d Delta) sub(o Delta) Delta {
	return Delta{
		Played:       d.Played - o.Played,
		Won:          d.Won - o.Won,
		Drawn:        d.Drawn - o.Drawn,
		Lost:         d.Lost - o.Lost,
		GoalsFor:     d.GoalsFor - o.GoalsFor,
		GoalsAgainst: d.GoalsAgainst - o.GoalsAgainst,
		Points:       d.Points - o.Points,
	}
}

func (d Delta) IsZero() bool {
	return d == Delta{}
}

func outcomeDelta(o Outcome, goalsFor, goalsAgainst int) Delta {
	d := Delta{Played: 1, GoalsFor: goalsFor, GoalsAgainst: goalsAgainst}
	switch o {
	case Win:
		d.Won = 1
		d.Points = PointsForWin
	case Draw:
		d.Drawn = 1
		d.Points = PointsForDraw
	default:
		d.Lost = 1
	}
	return d
}

// Contribution is the standings effect a single result has on each side.
func Contribution(s Score) (home, away Delta) {
	ho, ao := s.Outcomes()
	return outcomeDelta(ho, s.Home, s.Away), outcomeDelta(ao, s.Away, s.Home)
}

// ResultDelta folds the reversal of prev and the application of next into one delta per side.
// A nil prev means the fixture had no counted result; a nil next removes the result.
func ResultDelta(prev, next *Score) (home, away Delta) {
	if prev != nil {
		ph, pa := Contribution(*prev)
		home, away = home.sub(ph), away.sub(pa)
	}
	if next != nil {
		nh, na := Contribution(*next)
		home, away = home.Add(nh), away.Add(na)
	}
	return home, away
}

// Standings are the cumulative table fields of one team.
type Standings struct {
	Played         int `json:"played"`
	Won            int `json:"won"`
	Drawn          int `json:"drawn"`
	Lost           int `json:"lost"`
	GoalsFor       int `json:"goals_for"`
	GoalsAgainst   int `json:"goals_against"`
	GoalDifference int `json:"goal_difference"`
	Points         int `json:"points"`
}

func (s Standings) Apply(d Delta) Standings {
	s.Played += d.Played
	s.Won += d.Won
	s.Drawn += d.Drawn
	s.Lost += d.Lost
	s.GoalsFor += d.GoalsFor
	s.GoalsAgainst += d.GoalsAgainst
	s.GoalDifference = s.GoalsFor - s.GoalsAgainst
	s.Points += d.Points
	return s
}

// Valid reports whether the standings are internally consistent.
func (s Standings) Valid() bool {
	if s.Played < 0 || s.Won < 0 || s.Drawn < 0 || s.Lost < 0 || s.GoalsFor < 0 || s.GoalsAgainst < 0 {
		return false
	}
	return s.Played == s.Won+s.Drawn+s.Lost &&
		s.GoalDifference == s.GoalsFor-s.GoalsAgainst &&
		s.Points == PointsForWin*s.Won+PointsForDraw*s.Drawn
}

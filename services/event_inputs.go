package services

import (
	"fmt"
	"strings"

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/models"
)

// GoalInput assigns a goal to a player. Side is the player's own team; for an own goal the
// opposing side is credited.
type GoalInput struct {
	FixtureID        int         `json:"fixture_id"`
	Side             models.Side `json:"side"`
	PlayerName       string      `json:"player_name"`
	AssistPlayerName string      `json:"assist_player_name,omitempty"`
	EventTime        int         `json:"event_time"`
	IsOwnGoal        bool        `json:"is_own_goal"`
	Description      *string     `json:"description,omitempty"`
}

func (in GoalInput) validate(prefix string, policy config.MatchPolicy) ValidationErrors {
	var errs ValidationErrors
	if !in.Side.Valid() {
		errs = append(errs, &ValidationError{Field: prefix + "side", Message: "side must be home or away"})
	}
	if e := validatePlayerName(prefix+"player_name", in.PlayerName, policy); e != nil {
		errs = append(errs, e)
	}
	if e := validateEventTime(prefix+"event_time", in.EventTime, policy); e != nil {
		errs = append(errs, e)
	}
	if assist := strings.TrimSpace(in.AssistPlayerName); assist != "" {
		switch {
		case in.IsOwnGoal:
			errs = append(errs, &ValidationError{Field: prefix + "assist_player_name", Message: "own goals have no assist"})
		case normalizeName(assist) == normalizeName(in.PlayerName):
			errs = append(errs, &ValidationError{Field: prefix + "assist_player_name", Message: "scorer cannot assist own goal"})
		default:
			if e := validatePlayerName(prefix+"assist_player_name", assist, policy); e != nil {
				errs = append(errs, e)
			}
		}
	}
	return errs
}

type AssistInput struct {
	FixtureID  int         `json:"fixture_id"`
	Side       models.Side `json:"side"`
	PlayerName string      `json:"player_name"`
	EventTime  int         `json:"event_time"`
}

func (in AssistInput) validate(policy config.MatchPolicy) ValidationErrors {
	var errs ValidationErrors
	if !in.Side.Valid() {
		errs = append(errs, &ValidationError{Field: "side", Message: "side must be home or away"})
	}
	if e := validatePlayerName("player_name", in.PlayerName, policy); e != nil {
		errs = append(errs, e)
	}
	if e := validateEventTime("event_time", in.EventTime, policy); e != nil {
		errs = append(errs, e)
	}
	return errs
}

type CardInput struct {
	FixtureID   int              `json:"fixture_id"`
	Side        models.Side      `json:"side"`
	PlayerName  string           `json:"player_name"`
	CardType    models.EventType `json:"card_type"`
	EventTime   int              `json:"event_time"`
	Description *string          `json:"description,omitempty"`
}

func (in CardInput) validate(prefix string, policy config.MatchPolicy) ValidationErrors {
	var errs ValidationErrors
	if !in.Side.Valid() {
		errs = append(errs, &ValidationError{Field: prefix + "side", Message: "side must be home or away"})
	}
	if !in.CardType.IsCard() {
		errs = append(errs, &ValidationError{Field: prefix + "card_type", Message: "card type must be yellow_card or red_card"})
	}
	if e := validatePlayerName(prefix+"player_name", in.PlayerName, policy); e != nil {
		errs = append(errs, e)
	}
	if e := validateEventTime(prefix+"event_time", in.EventTime, policy); e != nil {
		errs = append(errs, e)
	}
	return errs
}

type PlayerTimeInput struct {
	FixtureID    int                 `json:"fixture_id"`
	Side         models.Side         `json:"side"`
	PlayerName   string              `json:"player_name"`
	TotalSeconds int                 `json:"total_seconds"`
	Periods      []models.PlayPeriod `json:"periods"`
}

func (in PlayerTimeInput) validate(prefix string, policy config.MatchPolicy) ValidationErrors {
	var errs ValidationErrors
	if !in.Side.Valid() {
		errs = append(errs, &ValidationError{Field: prefix + "side", Message: "side must be home or away"})
	}
	if e := validatePlayerName(prefix+"player_name", in.PlayerName, policy); e != nil {
		errs = append(errs, e)
	}
	if in.TotalSeconds < 0 {
		errs = append(errs, &ValidationError{Field: prefix + "total_seconds", Message: "total seconds must not be negative"})
	}
	for i, p := range in.Periods {
		field := fmt.Sprintf("%speriods[%d]", prefix, i)
		if p.Start < 0 || p.End < p.Start {
			errs = append(errs, &ValidationError{Field: field, Message: "period must satisfy 0 <= start <= end"})
		} else if p.Duration != p.End-p.Start {
			errs = append(errs, &ValidationError{Field: field, Message: "period duration must equal end - start"})
		}
	}
	return errs
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/metrics"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// SecondYellowDescription marks the red card synthesized for a second yellow.
const SecondYellowDescription = "second yellow"

type GoalResult struct {
	Goal        *models.MatchEvent `json:"goal"`
	Assist      *models.MatchEvent `json:"assist,omitempty"`
	AssistError error              `json:"-"`
}

type CardResult struct {
	Card         *models.MatchEvent `json:"card"`
	AutoRed      *models.MatchEvent `json:"auto_red,omitempty"`
	AutoRedError error              `json:"-"`
}

type PlayerTimeResult struct {
	Record   *models.PlayerTimeRecord `json:"record"`
	Warnings []string                 `json:"warnings,omitempty"`
}

// EventService writes one event row per referee action and keeps the player's counters
// as an optimistic cache. A counter increment that fails deletes the event it belonged to.
type EventService struct {
	fixtures    repositories.FixtureRepository
	members     repositories.MemberRepository
	events      repositories.MatchEventRepository
	playerTimes repositories.PlayerTimeRepository
	gate        *DuplicateGate
	policy      config.MatchPolicy
	hub         Broadcaster
	obs         Observability
}

func NewEventService(
	fixtures repositories.FixtureRepository,
	members repositories.MemberRepository,
	events repositories.MatchEventRepository,
	playerTimes repositories.PlayerTimeRepository,
	gate *DuplicateGate,
	policy config.MatchPolicy,
	hub Broadcaster,
	obs Observability,
) *EventService {
	if hub == nil {
		hub = nopBroadcaster{}
	}
	return &EventService{
		fixtures:    fixtures,
		members:     members,
		events:      events,
		playerTimes: playerTimes,
		gate:        gate,
		policy:      policy,
		hub:         hub,
		obs:         obs.withDefaults(),
	}
}

func (s *EventService) recordableFixture(ctx context.Context, id int) (*models.Fixture, error) {
	fixture, err := loadFixture(ctx, s.fixtures, id)
	if err != nil {
		return nil, err
	}
	if fixture.Status == models.FixturePostponed {
		return nil, fmt.Errorf("%w: %d", ErrFixturePostponed, id)
	}
	return fixture, nil
}

func (s *EventService) lookupMember(ctx context.Context, teamID int, name string) (*models.Member, error) {
	member, err := s.members.GetByTeamAndName(ctx, teamID, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, fmt.Errorf("%w: %q (team %d)", ErrPlayerNotFound, strings.TrimSpace(name), teamID)
		}
		return nil, fmt.Errorf("lookup player %q: %w", name, err)
	}
	return member, nil
}

// record runs gate, roster lookup, insert and the optional counter increment for one event.
func (s *EventService) record(ctx context.Context, event *models.MatchEvent, stat models.MemberStat) (*models.MatchEvent, error) {
	check, err := s.gate.CheckDuplicate(ctx, event.FixtureID, event.TeamID, event.PlayerName, event.EventType, event.EventTime)
	if err != nil {
		s.obs.Metrics.RecordEvent(string(event.EventType), metrics.OutcomeFailed)
		return nil, err
	}
	if check.IsDuplicate {
		s.obs.Metrics.RecordEvent(string(event.EventType), metrics.OutcomeDuplicate)
		s.obs.Logger.WarnContext(ctx, "Duplicate event skipped",
			slog.Int("fixture_id", event.FixtureID),
			slog.String("event_type", string(event.EventType)),
			slog.String("player", event.PlayerName),
			slog.Int("event_time", event.EventTime),
		)
		return nil, &DuplicateError{
			EventType:  event.EventType,
			PlayerName: event.PlayerName,
			EventTime:  event.EventTime,
			Existing:   check.MatchingEvents,
		}
	}

	member, err := s.lookupMember(ctx, event.TeamID, event.PlayerName)
	if err != nil {
		s.obs.Metrics.RecordEvent(string(event.EventType), metrics.OutcomeFailed)
		return nil, err
	}
	event.PlayerName = member.Name

	if err := s.events.Create(ctx, event); err != nil {
		s.obs.Metrics.RecordEvent(string(event.EventType), metrics.OutcomeFailed)
		return nil, persistenceError("insert "+string(event.EventType), err)
	}

	if stat != "" {
		tx := newSaga(fmt.Sprintf("%s fixture %d", event.EventType, event.FixtureID), s.obs.Logger)
		eventID := event.ID
		tx.done("insert event", func(ctx context.Context) error {
			return s.events.Delete(ctx, eventID)
		})
		if err := s.members.IncrementStat(ctx, member.ID, stat, 1); err != nil {
			s.obs.Metrics.RecordEvent(string(event.EventType), metrics.OutcomeFailed)
			return nil, tx.fail(ctx, "increment "+string(stat), err)
		}
	}

	s.obs.Metrics.RecordEvent(string(event.EventType), metrics.OutcomeRecorded)
	s.hub.BroadcastToRoom(live.FixtureRoom(event.FixtureID), live.Message{Type: live.TypeEventRecorded, Payload: event})
	return event, nil
}

// RecordGoal stores a goal and, when given, its assist. An own goal is stored against the
// player's team with the opposing team credited, and the player's goal count is left alone.
// An assist failure does not undo the goal; it is returned in GoalResult.AssistError.
func (s *EventService) RecordGoal(ctx context.Context, in GoalInput) (*GoalResult, error) {
	return observe(ctx, s.obs, "record_goal", in.FixtureID, func(ctx context.Context) (*GoalResult, error) {
		if errs := in.validate("", s.policy); len(errs) > 0 {
			return nil, errs
		}
		fixture, err := s.recordableFixture(ctx, in.FixtureID)
		if err != nil {
			return nil, err
		}
		teamID, err := teamForSide(fixture, in.Side)
		if err != nil {
			return nil, err
		}

		goal := &models.MatchEvent{
			FixtureID:   fixture.ID,
			EventType:   models.EventGoal,
			PlayerName:  strings.TrimSpace(in.PlayerName),
			TeamID:      teamID,
			EventTime:   in.EventTime,
			IsOwnGoal:   in.IsOwnGoal,
			Description: in.Description,
		}
		stat := models.StatGoals
		if in.IsOwnGoal {
			creditedTeamID, err := teamForSide(fixture, in.Side.Opposite())
			if err != nil {
				return nil, err
			}
			goal.ScoringTeamID = &creditedTeamID
			stat = ""
		}

		recorded, err := s.record(ctx, goal, stat)
		if err != nil {
			return nil, err
		}
		result := &GoalResult{Goal: recorded}

		if assistName := strings.TrimSpace(in.AssistPlayerName); assistName != "" && !in.IsOwnGoal {
			assist, err := s.recordAssist(ctx, fixture.ID, teamID, assistName, in.EventTime)
			if err != nil {
				result.AssistError = err
				s.obs.Logger.WarnContext(ctx, "Assist not recorded",
					slog.Int("fixture_id", fixture.ID),
					slog.String("player", assistName),
					slog.Any("error", err),
				)
			} else {
				result.Assist = assist
			}
		}
		return result, nil
	})
}

func (s *EventService) RecordAssist(ctx context.Context, in AssistInput) (*models.MatchEvent, error) {
	return observe(ctx, s.obs, "record_assist", in.FixtureID, func(ctx context.Context) (*models.MatchEvent, error) {
		if errs := in.validate(s.policy); len(errs) > 0 {
			return nil, errs
		}
		fixture, err := s.recordableFixture(ctx, in.FixtureID)
		if err != nil {
			return nil, err
		}
		teamID, err := teamForSide(fixture, in.Side)
		if err != nil {
			return nil, err
		}
		return s.recordAssist(ctx, fixture.ID, teamID, strings.TrimSpace(in.PlayerName), in.EventTime)
	})
}

func (s *EventService) recordAssist(ctx context.Context, fixtureID, teamID int, playerName string, eventTime int) (*models.MatchEvent, error) {
	return s.record(ctx, &models.MatchEvent{
		FixtureID:  fixtureID,
		EventType:  models.EventAssist,
		PlayerName: playerName,
		TeamID:     teamID,
		EventTime:  eventTime,
	}, models.StatAssists)
}

// RecordCard stores a card. The second yellow of a player in one fixture also produces
// a red card event and a red card count; a failure there is returned in AutoRedError.
func (s *EventService) RecordCard(ctx context.Context, in CardInput) (*CardResult, error) {
	return observe(ctx, s.obs, "record_card", in.FixtureID, func(ctx context.Context) (*CardResult, error) {
		if errs := in.validate("", s.policy); len(errs) > 0 {
			return nil, errs
		}
		fixture, err := s.recordableFixture(ctx, in.FixtureID)
		if err != nil {
			return nil, err
		}
		teamID, err := teamForSide(fixture, in.Side)
		if err != nil {
			return nil, err
		}

		stat := models.StatYellowCards
		if in.CardType == models.EventRedCard {
			stat = models.StatRedCards
		}
		// Cards pass the gate too: a second yellow inside the window is a resubmission.
		card, err := s.record(ctx, &models.MatchEvent{
			FixtureID:   fixture.ID,
			EventType:   in.CardType,
			PlayerName:  strings.TrimSpace(in.PlayerName),
			TeamID:      teamID,
			EventTime:   in.EventTime,
			Description: in.Description,
		}, stat)
		if err != nil {
			return nil, err
		}
		result := &CardResult{Card: card}

		if in.CardType == models.EventYellowCard {
			autoRed, err := s.secondYellow(ctx, card)
			if err != nil {
				result.AutoRedError = err
				s.obs.Logger.ErrorContext(ctx, "Automatic red card not recorded",
					slog.Int("fixture_id", fixture.ID),
					slog.String("player", card.PlayerName),
					slog.Any("error", err),
				)
			}
			result.AutoRed = autoRed
		}
		return result, nil
	})
}

func (s *EventService) secondYellow(ctx context.Context, yellow *models.MatchEvent) (*models.MatchEvent, error) {
	cards, err := s.events.ListByFixture(ctx, yellow.FixtureID, models.EventFilter{
		Types: []models.EventType{models.EventYellowCard, models.EventRedCard},
	})
	if err != nil {
		return nil, fmt.Errorf("count cards: %w", err)
	}
	player := normalizeName(yellow.PlayerName)
	yellows, reds := 0, 0
	for _, c := range cards {
		if c.TeamID != yellow.TeamID || normalizeName(c.PlayerName) != player {
			continue
		}
		if c.EventType == models.EventYellowCard {
			yellows++
		} else {
			reds++
		}
	}
	if yellows < 2 || reds > 0 {
		return nil, nil
	}

	member, err := s.lookupMember(ctx, yellow.TeamID, yellow.PlayerName)
	if err != nil {
		return nil, err
	}
	description := SecondYellowDescription
	red := &models.MatchEvent{
		FixtureID:   yellow.FixtureID,
		EventType:   models.EventRedCard,
		PlayerName:  member.Name,
		TeamID:      yellow.TeamID,
		EventTime:   yellow.EventTime,
		Description: &description,
	}
	if err := s.events.Create(ctx, red); err != nil {
		return nil, persistenceError("insert automatic red card", err)
	}
	tx := newSaga(fmt.Sprintf("second yellow fixture %d", yellow.FixtureID), s.obs.Logger)
	redID := red.ID
	tx.done("insert automatic red card", func(ctx context.Context) error {
		return s.events.Delete(ctx, redID)
	})
	if err := s.members.IncrementStat(ctx, member.ID, models.StatRedCards, 1); err != nil {
		return nil, tx.fail(ctx, "increment red_cards", err)
	}

	s.obs.Metrics.RecordEvent(string(models.EventRedCard), metrics.OutcomeRecorded)
	s.obs.Logger.InfoContext(ctx, "Second yellow converted to red",
		slog.Int("fixture_id", yellow.FixtureID),
		slog.String("player", member.Name),
	)
	s.hub.BroadcastToRoom(live.FixtureRoom(red.FixtureID), live.Message{Type: live.TypeEventRecorded, Payload: red})
	return red, nil
}

// RecordPlayerTime overwrites the player's time record for the fixture. Role playtime limits
// are reported as warnings.
func (s *EventService) RecordPlayerTime(ctx context.Context, in PlayerTimeInput) (*PlayerTimeResult, error) {
	return observe(ctx, s.obs, "record_player_time", in.FixtureID, func(ctx context.Context) (*PlayerTimeResult, error) {
		if errs := in.validate("", s.policy); len(errs) > 0 {
			return nil, errs
		}
		fixture, err := s.recordableFixture(ctx, in.FixtureID)
		if err != nil {
			return nil, err
		}
		teamID, err := teamForSide(fixture, in.Side)
		if err != nil {
			return nil, err
		}
		member, err := s.lookupMember(ctx, teamID, in.PlayerName)
		if err != nil {
			return nil, err
		}

		memberID := member.ID
		record := &models.PlayerTimeRecord{
			FixtureID:    fixture.ID,
			TeamID:       teamID,
			MemberID:     &memberID,
			PlayerName:   member.Name,
			TotalSeconds: in.TotalSeconds,
			Periods:      models.PlayPeriods(in.Periods),
		}
		if err := s.playerTimes.Upsert(ctx, record); err != nil {
			return nil, persistenceError("upsert player time", err)
		}
		return &PlayerTimeResult{Record: record, Warnings: s.roleWarnings(member, in.TotalSeconds)}, nil
	})
}

func (s *EventService) roleWarnings(member *models.Member, seconds int) []string {
	limit, ok := s.policy.RoleLimits[string(member.Role)]
	if !ok {
		return nil
	}
	var warnings []string
	if limit.MinSeconds > 0 && seconds < limit.MinSeconds {
		warnings = append(warnings, fmt.Sprintf("%s (%s) played %ds, below the %ds minimum", member.Name, member.Role, seconds, limit.MinSeconds))
	}
	if limit.MaxSeconds > 0 && seconds > limit.MaxSeconds {
		warnings = append(warnings, fmt.Sprintf("%s (%s) played %ds, above the %ds maximum", member.Name, member.Role, seconds, limit.MaxSeconds))
	}
	return warnings
}

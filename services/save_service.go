package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/league"
	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/notify"
	"github.com/Dosada05/league-system/referee"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const playerTimeConcurrency = 4

// Item kinds reported in SaveMatchResult.
const (
	ItemGoal       = "goal"
	ItemAssist     = "assist"
	ItemCard       = "card"
	ItemPlayerTime = "player_time"
	ItemScore      = "score"
	ItemStats      = "stats"
	ItemCleanup    = "cleanup"
	ItemReport     = "report"
)

// SaveMatchInput is everything the referee buffered for one fixture.
type SaveMatchInput struct {
	FixtureID int `json:"fixture_id"`
	// Local scoreboard, compared with the derived score.
	HomeScore   *int              `json:"home_score,omitempty"`
	AwayScore   *int              `json:"away_score,omitempty"`
	Goals       []GoalInput       `json:"goals"`
	Cards       []CardInput       `json:"cards"`
	PlayerTimes []PlayerTimeInput `json:"player_times"`
	Editor      string            `json:"-"`
}

type ItemError struct {
	Kind       string `json:"kind"`
	Index      int    `json:"index"`
	PlayerName string `json:"player_name,omitempty"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

type SaveMatchResult struct {
	SaveID             uuid.UUID     `json:"save_id"`
	FixtureID          int           `json:"fixture_id"`
	Success            bool          `json:"success"`
	PartialErrors      []ItemError   `json:"partial_errors"`
	Skipped            []ItemError   `json:"skipped,omitempty"`
	Warnings           []string      `json:"warnings,omitempty"`
	ScoreUpdated       bool          `json:"score_updated"`
	Score              *league.Score `json:"score,omitempty"`
	GoalsAssigned      int           `json:"goals_assigned"`
	AssistsAssigned    int           `json:"assists_assigned"`
	CardsCreated       int           `json:"cards_created"`
	PlayerTimesUpdated int           `json:"player_times_updated"`
	DuplicatesRemoved  int           `json:"duplicates_removed"`
	PlayersSynced      int           `json:"players_synced"`
	ReportURL          string        `json:"report_url,omitempty"`
}

func (r *SaveMatchResult) fail(kind string, index int, player string, err error) {
	r.PartialErrors = append(r.PartialErrors, ItemError{Kind: kind, Index: index, PlayerName: player, Message: err.Error(), Err: err})
}

func (r *SaveMatchResult) skip(kind string, index int, player string, err error) {
	r.Skipped = append(r.Skipped, ItemError{Kind: kind, Index: index, PlayerName: player, Message: err.Error(), Err: err})
}

// SaveService commits a refereed match. Items are written one by one and failures are
// collected rather than aborting: only per-event compensation applies, never batch rollback.
type SaveService struct {
	fixtures repositories.FixtureRepository
	events   *EventService
	gate     *DuplicateGate
	scores   *ScoreService
	stats    *StatsService
	notifier notify.Notifier
	uploader storage.FileUploader
	hub      Broadcaster
	policy   config.MatchPolicy
	obs      Observability
}

func NewSaveService(
	fixtures repositories.FixtureRepository,
	events *EventService,
	gate *DuplicateGate,
	scores *ScoreService,
	stats *StatsService,
	notifier notify.Notifier,
	uploader storage.FileUploader,
	hub Broadcaster,
	policy config.MatchPolicy,
	obs Observability,
) *SaveService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if hub == nil {
		hub = nopBroadcaster{}
	}
	return &SaveService{
		fixtures: fixtures,
		events:   events,
		gate:     gate,
		scores:   scores,
		stats:    stats,
		notifier: notifier,
		uploader: uploader,
		hub:      hub,
		policy:   policy,
		obs:      obs.withDefaults(),
	}
}

// Validate checks the whole payload. Any problem aborts the save before a single write.
func (s *SaveService) Validate(in SaveMatchInput) error {
	var errs ValidationErrors
	if in.FixtureID <= 0 {
		errs = append(errs, &ValidationError{Field: "fixture_id", Message: "fixture id is required"})
	}
	if in.HomeScore != nil && *in.HomeScore < 0 {
		errs = append(errs, &ValidationError{Field: "home_score", Message: "score must not be negative"})
	}
	if in.AwayScore != nil && *in.AwayScore < 0 {
		errs = append(errs, &ValidationError{Field: "away_score", Message: "score must not be negative"})
	}
	checkFixture := func(field string, id int) {
		if id != 0 && id != in.FixtureID {
			errs = append(errs, &ValidationError{Field: field, Message: "item belongs to another fixture"})
		}
	}
	for i, g := range in.Goals {
		prefix := fmt.Sprintf("goals[%d].", i)
		checkFixture(prefix+"fixture_id", g.FixtureID)
		errs = append(errs, g.validate(prefix, s.policy)...)
	}
	for i, c := range in.Cards {
		prefix := fmt.Sprintf("cards[%d].", i)
		checkFixture(prefix+"fixture_id", c.FixtureID)
		errs = append(errs, c.validate(prefix, s.policy)...)
	}
	for i, p := range in.PlayerTimes {
		prefix := fmt.Sprintf("player_times[%d].", i)
		checkFixture(prefix+"fixture_id", p.FixtureID)
		errs = append(errs, p.validate(prefix, s.policy)...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *SaveService) SaveMatch(ctx context.Context, in SaveMatchInput) (*SaveMatchResult, error) {
	return observe(ctx, s.obs, "save_match", in.FixtureID, func(ctx context.Context) (*SaveMatchResult, error) {
		if err := s.Validate(in); err != nil {
			return nil, err
		}
		fixture, err := loadFixture(ctx, s.fixtures, in.FixtureID)
		if err != nil {
			return nil, err
		}
		if fixture.Status == models.FixturePostponed {
			return nil, fmt.Errorf("%w: %d", ErrFixturePostponed, fixture.ID)
		}

		result := &SaveMatchResult{SaveID: uuid.New(), FixtureID: fixture.ID, PartialErrors: []ItemError{}}
		logger := s.obs.Logger.With(slog.Int("fixture_id", fixture.ID), slog.String("save_id", result.SaveID.String()))
		logger.InfoContext(ctx, "Saving match",
			slog.String("editor", in.Editor),
			slog.Int("goals", len(in.Goals)),
			slog.Int("cards", len(in.Cards)),
			slog.Int("player_times", len(in.PlayerTimes)),
		)

		s.cleanup(ctx, fixture.ID, result)
		s.saveGoals(ctx, fixture.ID, in.Goals, result)
		s.saveCards(ctx, fixture.ID, in.Cards, result)
		s.savePlayerTimes(ctx, fixture.ID, in.PlayerTimes, result)

		s.reconcile(ctx, fixture, result)
		if result.PlayerTimesUpdated > 0 {
			if _, err := s.stats.RecomputeParticipation(ctx, fixture.HomeTeamID, fixture.AwayTeamID); err != nil {
				result.fail(ItemStats, -1, "", err)
			}
		}
		if removed := s.cleanup(ctx, fixture.ID, result); removed > 0 {
			// Late duplicates changed the event set; derive again.
			s.reconcile(ctx, fixture, result)
		}

		s.compareLocalScore(in, result)
		result.Success = len(result.PartialErrors) == 0
		s.obs.Metrics.RecordSave(len(result.PartialErrors))

		s.archive(ctx, result, logger)
		s.announce(ctx, result)
		logger.InfoContext(ctx, "Match saved",
			slog.Bool("success", result.Success),
			slog.Int("errors", len(result.PartialErrors)),
			slog.Int("skipped", len(result.Skipped)),
		)
		return result, nil
	})
}

func (s *SaveService) cleanup(ctx context.Context, fixtureID int, result *SaveMatchResult) int {
	cleaned, err := s.gate.CleanupFixture(ctx, fixtureID)
	if err != nil {
		result.fail(ItemCleanup, -1, "", err)
		return 0
	}
	result.DuplicatesRemoved += cleaned.Removed
	return cleaned.Removed
}

// classify files err as a skip when it is a duplicate and as a failure otherwise.
func classify(result *SaveMatchResult, kind string, index int, player string, err error) {
	if errors.Is(err, ErrDuplicateEvent) {
		result.skip(kind, index, player, err)
		return
	}
	result.fail(kind, index, player, err)
}

func (s *SaveService) saveGoals(ctx context.Context, fixtureID int, goals []GoalInput, result *SaveMatchResult) {
	for i, g := range goals {
		g.FixtureID = fixtureID
		res, err := s.events.RecordGoal(ctx, g)
		if err != nil {
			classify(result, ItemGoal, i, g.PlayerName, err)
			if errors.Is(err, ErrDuplicateEvent) && strings.TrimSpace(g.AssistPlayerName) != "" {
				// The goal was recorded earlier; its assist may not have been.
				s.retryAssist(ctx, i, g, result)
			}
			continue
		}
		result.GoalsAssigned++
		if res.Assist != nil {
			result.AssistsAssigned++
		}
		if res.AssistError != nil {
			classify(result, ItemAssist, i, g.AssistPlayerName, res.AssistError)
		}
	}
}

func (s *SaveService) retryAssist(ctx context.Context, index int, g GoalInput, result *SaveMatchResult) {
	_, err := s.events.RecordAssist(ctx, AssistInput{
		FixtureID:  g.FixtureID,
		Side:       g.Side,
		PlayerName: g.AssistPlayerName,
		EventTime:  g.EventTime,
	})
	if err != nil {
		classify(result, ItemAssist, index, g.AssistPlayerName, err)
		return
	}
	result.AssistsAssigned++
}

func (s *SaveService) saveCards(ctx context.Context, fixtureID int, cards []CardInput, result *SaveMatchResult) {
	for i, c := range cards {
		c.FixtureID = fixtureID
		res, err := s.events.RecordCard(ctx, c)
		if err != nil {
			classify(result, ItemCard, i, c.PlayerName, err)
			continue
		}
		result.CardsCreated++
		if res.AutoRed != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s received a second yellow and was sent off", res.Card.PlayerName))
		}
		if res.AutoRedError != nil {
			result.fail(ItemCard, i, c.PlayerName, res.AutoRedError)
		}
	}
}

// savePlayerTimes writes time records concurrently; each record fails on its own.
func (s *SaveService) savePlayerTimes(ctx context.Context, fixtureID int, times []PlayerTimeInput, result *SaveMatchResult) {
	if len(times) == 0 {
		return
	}
	type outcome struct {
		res *PlayerTimeResult
		err error
	}
	outcomes := make([]outcome, len(times))

	var g errgroup.Group
	g.SetLimit(playerTimeConcurrency)
	for i, pt := range times {
		pt.FixtureID = fixtureID
		g.Go(func() error {
			res, err := s.events.RecordPlayerTime(ctx, pt)
			outcomes[i] = outcome{res: res, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, o := range outcomes {
		if o.err != nil {
			result.fail(ItemPlayerTime, i, times[i].PlayerName, o.err)
			continue
		}
		result.PlayerTimesUpdated++
		result.Warnings = append(result.Warnings, o.res.Warnings...)
	}
}

func (s *SaveService) reconcile(ctx context.Context, fixture *models.Fixture, result *SaveMatchResult) {
	scored, err := s.scores.RecomputeScore(ctx, fixture.ID)
	if err != nil {
		result.fail(ItemScore, -1, "", err)
	} else {
		result.ScoreUpdated = true
		score := scored.Score
		result.Score = &score
	}

	synced, err := s.stats.SyncTeams(ctx, fixture.HomeTeamID, fixture.AwayTeamID)
	if err != nil {
		result.fail(ItemStats, -1, "", err)
		return
	}
	result.PlayersSynced += synced.PlayersUpdated
}

func (s *SaveService) compareLocalScore(in SaveMatchInput, result *SaveMatchResult) {
	if result.Score == nil || in.HomeScore == nil || in.AwayScore == nil {
		return
	}
	if *in.HomeScore != result.Score.Home || *in.AwayScore != result.Score.Away {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"local scoreboard %d-%d differs from recorded goals %d-%d; unassigned goals are not saved",
			*in.HomeScore, *in.AwayScore, result.Score.Home, result.Score.Away,
		))
	}
}

func (s *SaveService) archive(ctx context.Context, result *SaveMatchResult, logger *slog.Logger) {
	if s.uploader == nil {
		return
	}
	key := storage.MatchReportKey(result.FixtureID, result.SaveID.String())
	uploaded, err := storage.ArchiveJSON(ctx, s.uploader, key, result)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to archive match report", slog.String("key", key), slog.Any("error", err))
		result.Warnings = append(result.Warnings, "match report was not archived")
		return
	}
	result.ReportURL = uploaded.Location
}

// announce sends one notification per failed item plus a summary.
func (s *SaveService) announce(ctx context.Context, result *SaveMatchResult) {
	for _, e := range result.PartialErrors {
		title := fmt.Sprintf("Failed to save %s", strings.ReplaceAll(e.Kind, "_", " "))
		if e.PlayerName != "" {
			title = fmt.Sprintf("%s for %s", title, e.PlayerName)
		}
		s.notifier.Notify(ctx, notify.Notification{
			FixtureID: result.FixtureID,
			Title:     title,
			Body:      e.Message,
			Severity:  notify.SeverityError,
		})
	}

	summary := notify.Notification{
		FixtureID: result.FixtureID,
		Title:     "Match saved",
		Body: fmt.Sprintf("%d goals, %d assists, %d cards, %d player times saved; %d skipped as already recorded",
			result.GoalsAssigned, result.AssistsAssigned, result.CardsCreated, result.PlayerTimesUpdated, len(result.Skipped)),
		Severity: notify.SeveritySuccess,
	}
	if !result.Success {
		summary.Title = fmt.Sprintf("Match saved with %d errors", len(result.PartialErrors))
		summary.Severity = notify.SeverityWarning
	}
	s.notifier.Notify(ctx, summary)
	s.hub.BroadcastToRoom(live.FixtureRoom(result.FixtureID), live.Message{Type: live.TypeMatchSaved, Payload: result})
}

// SaveMatchInputFromSession turns a referee session into a save payload. Goals without an
// assigned player are left out; the local score still travels for comparison.
func SaveMatchInputFromSession(snap referee.Snapshot) SaveMatchInput {
	home, away := snap.HomeScore, snap.AwayScore
	in := SaveMatchInput{
		FixtureID:   snap.FixtureID,
		HomeScore:   &home,
		AwayScore:   &away,
		Goals:       make([]GoalInput, 0, len(snap.Goals)),
		Cards:       make([]CardInput, 0, len(snap.Cards)),
		PlayerTimes: make([]PlayerTimeInput, 0, len(snap.Players)),
	}
	for _, g := range snap.Goals {
		if !g.Assigned() {
			continue
		}
		in.Goals = append(in.Goals, GoalInput{
			FixtureID:        snap.FixtureID,
			Side:             g.PlayerSide(),
			PlayerName:       g.PlayerName,
			AssistPlayerName: g.AssistPlayerName,
			EventTime:        g.EventTime,
			IsOwnGoal:        g.IsOwnGoal,
		})
	}
	for _, c := range snap.Cards {
		in.Cards = append(in.Cards, CardInput{
			FixtureID:  snap.FixtureID,
			Side:       c.Side,
			PlayerName: c.PlayerName,
			CardType:   c.CardType,
			EventTime:  c.EventTime,
		})
	}
	for _, p := range snap.Players {
		in.PlayerTimes = append(in.PlayerTimes, PlayerTimeInput{
			FixtureID:    snap.FixtureID,
			Side:         p.Side,
			PlayerName:   p.Name,
			TotalSeconds: p.TotalSeconds,
			Periods:      p.Periods,
		})
	}
	return in
}

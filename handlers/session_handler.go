package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/referee"
	"github.com/Dosada05/league-system/services"
	"github.com/go-chi/chi/v5"
)

// SessionHandler exposes the referee's local match state. Nothing here is durable except
// goal assignments, which are recorded right away, and the final save.
type SessionHandler struct {
	store        *referee.Store
	matchService services.MatchService
	hub          services.Broadcaster
}

func NewSessionHandler(store *referee.Store, ms services.MatchService, hub services.Broadcaster) *SessionHandler {
	return &SessionHandler{store: store, matchService: ms, hub: hub}
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*referee.Session, bool) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return nil, false
	}
	session, err := h.store.Get(fixtureID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return nil, false
	}
	return session, true
}

func (h *SessionHandler) publish(w http.ResponseWriter, r *http.Request, status int, session *referee.Session) {
	snap := session.Snapshot()
	h.hub.BroadcastToRoom(live.FixtureRoom(snap.FixtureID), live.Message{Type: live.TypeSessionState, Payload: snap})
	respond(w, r, status, jsonResponse{"session": snap})
}

func (h *SessionHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"session": session.Snapshot()})
}

// Start opens a session for a recordable fixture on first use and starts the clock.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	fixture, err := h.matchService.GetFixture(r.Context(), fixtureID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if fixture.Status == models.FixturePostponed {
		mapServiceErrorToHTTP(w, r, services.ErrFixturePostponed)
		return
	}

	session := h.store.GetOrCreate(fixtureID)
	session.Start()
	h.publish(w, r, http.StatusOK, session)
}

func (h *SessionHandler) Pause(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Pause()
	h.publish(w, r, http.StatusOK, session)
}

func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Reset()
	h.publish(w, r, http.StatusOK, session)
}

type sessionSideRequest struct {
	Side models.Side `json:"side"`
}

func (h *SessionHandler) AddGoal(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var req sessionSideRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := session.AddGoal(req.Side); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.publish(w, r, http.StatusCreated, session)
}

func (h *SessionHandler) RemoveGoal(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var req sessionSideRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := session.RemoveGoal(req.Side); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.publish(w, r, http.StatusOK, session)
}

type assignGoalRequest struct {
	PlayerName       string `json:"player_name"`
	AssistPlayerName string `json:"assist_player_name,omitempty"`
	IsOwnGoal        bool   `json:"is_own_goal"`
}

// AssignGoal names the scorer of a local goal and records it. A rejected recording leaves the
// local assignment in place; the final save retries it.
func (h *SessionHandler) AssignGoal(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	goalID, err := strconv.Atoi(chi.URLParam(r, "goalID"))
	if err != nil || goalID <= 0 {
		badRequestResponse(w, r, errors.New("invalid goalID"))
		return
	}
	var req assignGoalRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	local, err := session.AssignGoal(goalID, req.PlayerName, req.AssistPlayerName, req.IsOwnGoal)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"goal": local}
	assignment, err := h.matchService.AssignGoal(r.Context(), services.GoalInput{
		FixtureID:        session.FixtureID(),
		Side:             local.PlayerSide(),
		PlayerName:       local.PlayerName,
		AssistPlayerName: local.AssistPlayerName,
		EventTime:        local.EventTime,
		IsOwnGoal:        local.IsOwnGoal,
	})
	var dup *services.DuplicateError
	switch {
	case err == nil:
		response["recorded"] = assignment
		if assignment != nil && assignment.GoalResult != nil && assignment.Goal != nil {
			h.linkRecordedGoal(r, session, goalID, assignment.Goal.ID)
		}
	case errors.Is(err, services.ErrDuplicateEvent):
		response["recorded"] = nil
		response["skipped"] = err.Error()
		if errors.As(err, &dup) && len(dup.Existing) > 0 {
			h.linkRecordedGoal(r, session, goalID, dup.Existing[0].ID)
		}
	case errors.Is(err, services.ErrValidationFailed):
		// The local goal keeps the bad name so the referee can correct it.
		failedValidationResponse(w, r, validationFields(err))
		return
	default:
		slog.WarnContext(r.Context(), "Goal kept locally after recording failed",
			slog.Int("fixture_id", session.FixtureID()),
			slog.Int("goal_id", goalID),
			slog.Any("error", err))
		response["record_error"] = err.Error()
	}

	snap := session.Snapshot()
	h.hub.BroadcastToRoom(live.FixtureRoom(snap.FixtureID), live.Message{Type: live.TypeSessionState, Payload: snap})
	response["session"] = snap
	respond(w, r, http.StatusOK, response)
}

func (h *SessionHandler) linkRecordedGoal(r *http.Request, session *referee.Session, goalID int, eventID int64) {
	if err := session.MarkGoalRecorded(goalID, eventID); err != nil {
		slog.WarnContext(r.Context(), "Recorded goal not linked to local goal",
			slog.Int("fixture_id", session.FixtureID()),
			slog.Int("goal_id", goalID),
			slog.Int64("event_id", eventID),
			slog.Any("error", err))
	}
}

type sessionCardRequest struct {
	Side       models.Side      `json:"side"`
	PlayerName string           `json:"player_name"`
	CardType   models.EventType `json:"card_type"`
}

func (h *SessionHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var req sessionCardRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := session.AddCard(req.Side, req.PlayerName, req.CardType); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.publish(w, r, http.StatusCreated, session)
}

type sessionPlayerRequest struct {
	Side       models.Side `json:"side"`
	PlayerName string      `json:"player_name"`
	OnField    bool        `json:"on_field"`
}

func (h *SessionHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var req sessionPlayerRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := session.AddPlayer(req.Side, req.PlayerName, req.OnField); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.publish(w, r, http.StatusCreated, session)
}

func (h *SessionHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	side := models.Side(chi.URLParam(r, "side"))
	if err := session.RemovePlayer(side, playerNameParam(r)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.publish(w, r, http.StatusOK, session)
}

func (h *SessionHandler) ToggleOnField(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	side := models.Side(chi.URLParam(r, "side"))
	if _, err := session.ToggleOnField(side, playerNameParam(r)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.publish(w, r, http.StatusOK, session)
}

// Save submits the session through the unified save. A fully successful save closes the
// session; otherwise it stays open for another attempt.
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Pause()
	input := services.SaveMatchInputFromSession(session.Snapshot())
	input.Editor = editorFrom(r)

	result, err := h.matchService.SaveMatch(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if result.Success {
		h.store.Delete(session.FixtureID())
	}
	respond(w, r, http.StatusOK, result)
}

func playerNameParam(r *http.Request) string {
	raw := chi.URLParam(r, "playerName")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

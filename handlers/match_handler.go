package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// sideRequest lets clients name the team by side, id or name. Side wins when both are set.
type sideRequest struct {
	Side models.Side `json:"side,omitempty"`
	Team string      `json:"team,omitempty"`
}

func (h *MatchHandler) resolveSide(ctx context.Context, fixtureID int, req sideRequest) (models.Side, error) {
	if req.Side != "" || strings.TrimSpace(req.Team) == "" {
		return req.Side, nil
	}
	fixture, err := h.matchService.GetFixture(ctx, fixtureID)
	if err != nil {
		return "", err
	}
	return services.ResolveSide(fixture, req.Team)
}

func (h *MatchHandler) CreateFixture(w http.ResponseWriter, r *http.Request) {
	var input services.CreateFixtureInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fixture, err := h.matchService.CreateFixture(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"fixture": fixture})
}

func (h *MatchHandler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	var filter models.FixtureFilter
	q := r.URL.Query()
	if s := q.Get("status"); s != "" {
		status := models.FixtureStatus(s)
		if !status.Valid() {
			badRequestResponse(w, r, fmt.Errorf("unknown status %q", s))
			return
		}
		filter.Status = &status
	}
	if q.Get("team_id") != "" {
		teamID := toInt(q.Get("team_id"), 0)
		if teamID == 0 {
			badRequestResponse(w, r, fmt.Errorf("invalid team_id %q", q.Get("team_id")))
			return
		}
		filter.TeamID = &teamID
	}

	fixtures, err := h.matchService.ListFixtures(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"fixtures": fixtures})
}

func (h *MatchHandler) GetFixture(w http.ResponseWriter, r *http.Request) {
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
	respond(w, r, http.StatusOK, jsonResponse{"fixture": fixture})
}

func (h *MatchHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var filter models.EventFilter
	if raw := r.URL.Query().Get("type"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			t := models.EventType(strings.TrimSpace(part))
			if !t.Valid() {
				badRequestResponse(w, r, fmt.Errorf("unknown event type %q", part))
				return
			}
			filter.Types = append(filter.Types, t)
		}
	}

	events, err := h.matchService.ListEvents(r.Context(), fixtureID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"events": events})
}

func (h *MatchHandler) ListPlayerTimes(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	records, err := h.matchService.ListPlayerTimes(r.Context(), fixtureID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"player_times": records})
}

func (h *MatchHandler) ListModifications(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logs, err := h.matchService.ListModifications(r.Context(), fixtureID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"modifications": logs})
}

type goalRequest struct {
	sideRequest
	PlayerName       string  `json:"player_name"`
	AssistPlayerName string  `json:"assist_player_name,omitempty"`
	EventTime        int     `json:"event_time"`
	IsOwnGoal        bool    `json:"is_own_goal"`
	Description      *string `json:"description,omitempty"`
}

func (h *MatchHandler) AssignGoal(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var req goalRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	side, err := h.resolveSide(r.Context(), fixtureID, req.sideRequest)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	result, err := h.matchService.AssignGoal(r.Context(), services.GoalInput{
		FixtureID:        fixtureID,
		Side:             side,
		PlayerName:       req.PlayerName,
		AssistPlayerName: req.AssistPlayerName,
		EventTime:        req.EventTime,
		IsOwnGoal:        req.IsOwnGoal,
		Description:      req.Description,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"goal": result.Goal, "score": result.Score}
	if result.Assist != nil {
		response["assist"] = result.Assist
	}
	if result.AssistError != nil {
		response["assist_error"] = result.AssistError.Error()
	}
	respond(w, r, http.StatusCreated, response)
}

type assistRequest struct {
	sideRequest
	PlayerName string `json:"player_name"`
	EventTime  int    `json:"event_time"`
}

func (h *MatchHandler) AssignAssist(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var req assistRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	side, err := h.resolveSide(r.Context(), fixtureID, req.sideRequest)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	event, err := h.matchService.AssignAssist(r.Context(), services.AssistInput{
		FixtureID:  fixtureID,
		Side:       side,
		PlayerName: req.PlayerName,
		EventTime:  req.EventTime,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"assist": event})
}

type cardRequest struct {
	sideRequest
	PlayerName  string           `json:"player_name"`
	CardType    models.EventType `json:"card_type"`
	EventTime   int              `json:"event_time"`
	Description *string          `json:"description,omitempty"`
}

func (h *MatchHandler) AssignCard(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var req cardRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	side, err := h.resolveSide(r.Context(), fixtureID, req.sideRequest)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	result, err := h.matchService.AssignCard(r.Context(), services.CardInput{
		FixtureID:   fixtureID,
		Side:        side,
		PlayerName:  req.PlayerName,
		CardType:    req.CardType,
		EventTime:   req.EventTime,
		Description: req.Description,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, result)
}

type playerTimeRequest struct {
	sideRequest
	PlayerName   string              `json:"player_name"`
	TotalSeconds int                 `json:"total_seconds"`
	Periods      []models.PlayPeriod `json:"periods"`
}

func (h *MatchHandler) RecordPlayerTime(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var req playerTimeRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	side, err := h.resolveSide(r.Context(), fixtureID, req.sideRequest)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	result, err := h.matchService.RecordPlayerTime(r.Context(), services.PlayerTimeInput{
		FixtureID:    fixtureID,
		Side:         side,
		PlayerName:   req.PlayerName,
		TotalSeconds: req.TotalSeconds,
		Periods:      req.Periods,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, result)
}

// SaveMatch stores a whole buffered match. Item failures are reported in the body, so the
// status is 200 even when Success is false.
func (h *MatchHandler) SaveMatch(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.SaveMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.FixtureID != 0 && input.FixtureID != fixtureID {
		badRequestResponse(w, r, fmt.Errorf("fixture_id %d does not match URL fixture %d", input.FixtureID, fixtureID))
		return
	}
	input.FixtureID = fixtureID
	input.Editor = editorFrom(r)

	result, err := h.matchService.SaveMatch(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, result)
}

package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminHandler_EditEvent(t *testing.T) {
	var gotID int64
	var gotPatch services.EventPatch
	var gotEditor string
	as := &fakeAdminService{
		EditEventFunc: func(_ context.Context, eventID int64, patch services.EventPatch, editor string) (*models.MatchEvent, error) {
			gotID, gotPatch, gotEditor = eventID, patch, editor
			return &models.MatchEvent{ID: eventID, PlayerName: *patch.PlayerName}, nil
		},
	}
	h := NewAdminHandler(as)

	rec := serve(t, http.MethodPatch, "/events/{eventID}", "/events/31", h.EditEvent, strings.NewReader(`{"player_name":"Ava","event_time":950}`))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 31, gotID)
	require.NotNil(t, gotPatch.EventTime)
	assert.Equal(t, 950, *gotPatch.EventTime)
	assert.Nil(t, gotPatch.Side)
	assert.Equal(t, "anonymous", gotEditor)
	assert.Contains(t, decode(t, rec), "event")
}

func TestAdminHandler_EditEvent_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		serviceErr error
		wantStatus int
	}{
		{name: "bad id", target: "/events/zero", wantStatus: http.StatusBadRequest},
		{name: "missing event", target: "/events/3", serviceErr: services.ErrEventNotFound, wantStatus: http.StatusNotFound},
		{name: "fixture not completed", target: "/events/3", serviceErr: services.ErrFixtureNotCompleted, wantStatus: http.StatusConflict},
		{name: "not editable", target: "/events/3", serviceErr: services.ErrEventNotEditable, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			as := &fakeAdminService{
				EditEventFunc: func(context.Context, int64, services.EventPatch, string) (*models.MatchEvent, error) {
					return nil, tt.serviceErr
				},
			}
			h := NewAdminHandler(as)
			rec := serve(t, http.MethodPatch, "/events/{eventID}", tt.target, h.EditEvent, strings.NewReader(`{"event_time":10}`))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAdminHandler_DeleteEvent(t *testing.T) {
	deleted := map[int64]bool{}
	as := &fakeAdminService{
		DeleteEventFunc: func(_ context.Context, eventID int64, _ string) error {
			if deleted[eventID] {
				return services.ErrEventNotFound
			}
			deleted[eventID] = true
			return nil
		},
	}
	h := NewAdminHandler(as)

	rec := serve(t, http.MethodDelete, "/events/{eventID}", "/events/12", h.DeleteEvent, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = serve(t, http.MethodDelete, "/events/{eventID}", "/events/12", h.DeleteEvent, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminHandler_ResetMatch(t *testing.T) {
	as := &fakeAdminService{
		ResetMatchFunc: func(_ context.Context, fixtureID int, editor string) (*services.ResetResult, error) {
			return &services.ResetResult{FixtureID: fixtureID, EventsDeleted: 4}, nil
		},
	}
	h := NewAdminHandler(as)

	rec := serve(t, http.MethodPost, "/fixtures/{fixtureID}/reset", "/fixtures/5/reset", h.ResetMatch, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 4, decode(t, rec)["events_deleted"])
}

func TestAdminHandler_VerifySync(t *testing.T) {
	as := &fakeAdminService{
		VerifySyncFunc: func(context.Context, int) (*services.SyncReport, error) {
			return nil, services.ErrFixtureNotFound
		},
	}
	h := NewAdminHandler(as)

	rec := serve(t, http.MethodGet, "/admin/fixtures/{fixtureID}/verify", "/admin/fixtures/5/verify", h.VerifySync, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminHandler_RecomputePositions(t *testing.T) {
	as := &fakeAdminService{
		RecomputeAllPositionsFunc: func(context.Context) ([]models.PositionUpdate, error) {
			return []models.PositionUpdate{{TeamID: 20, Position: 1}, {TeamID: 10, Position: 2}}, nil
		},
	}
	h := NewAdminHandler(as)

	rec := serve(t, http.MethodPost, "/admin/positions/recompute", "/admin/positions/recompute", h.RecomputePositions, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	positions, ok := decode(t, rec)["positions"].([]any)
	require.True(t, ok)
	assert.Len(t, positions, 2)
}

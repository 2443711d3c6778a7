package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/league-system/live"
	"github.com/gorilla/websocket"
)

// WebSocketHandler subscribes clients to fixture rooms and the league room.
type WebSocketHandler struct {
	hub      *live.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler accepts every origin when allowedOrigins contains "*".
func NewWebSocketHandler(hub *live.Hub, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	_, allowAll := origins["*"]

	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if allowAll || origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// ServeFixture connects a client to /ws/fixtures/{fixtureID}.
func (h *WebSocketHandler) ServeFixture(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.serve(w, r, live.FixtureRoom(fixtureID))
}

func (h *WebSocketHandler) ServeLeague(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, live.LeagueRoom)
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.WarnContext(r.Context(), "WebSocket upgrade failed", slog.String("room", room), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, room)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	h.logger.DebugContext(r.Context(), "WebSocket client registered", slog.String("room", room))
}

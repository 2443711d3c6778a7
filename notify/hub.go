package notify

import (
	"context"
	"time"

	"github.com/Dosada05/league-system/live"
)

// Broadcaster is the part of live.Hub the notifier needs.
type Broadcaster interface {
	BroadcastToRoom(room string, msg live.Message)
}

type HubNotifier struct {
	hub Broadcaster
}

func NewHubNotifier(hub Broadcaster) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (h *HubNotifier) Notify(_ context.Context, n Notification) {
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}
	room := live.LeagueRoom
	if n.FixtureID > 0 {
		room = live.FixtureRoom(n.FixtureID)
	}
	h.hub.BroadcastToRoom(room, live.Message{Type: live.TypeNotification, Payload: n})
}

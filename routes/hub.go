package routes

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Rafhael-Viana/attendees/attendance"
	middleware "github.com/Rafhael-Viana/attendees/middlewares"
	"github.com/Rafhael-Viana/attendees/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

// LiveEvent is pushed to websocket subscribers after every toggle.
type LiveEvent struct {
	ActivityID int64            `json:"activity_id"`
	MemberID   int64            `json:"member_id"`
	LocationID int64            `json:"location_id"`
	Direction  models.Direction `json:"direction"`
	Timestamp  int64            `json:"timestamp"`
}

type subscriber struct {
	send chan LiveEvent
}

// Hub fans timecard events out to the websocket clients watching an activity.
type Hub struct {
	mu       sync.Mutex
	subs     map[int64]map[*subscriber]struct{}
	upgrader websocket.Upgrader
}

// NewHub returns a hub whose upgrader accepts origins allowed by checkOrigin;
// nil keeps the same-origin default.
func NewHub(checkOrigin func(*http.Request) bool) *Hub {
	return &Hub{
		subs: map[int64]map[*subscriber]struct{}{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Publish never blocks: a subscriber with a full buffer misses the event and
// catches up on its next refresh.
func (h *Hub) Publish(e models.TimecardEvent) {
	ev := LiveEvent{
		ActivityID: e.ActivityID,
		MemberID:   e.MemberID,
		LocationID: e.LocationID,
		Direction:  e.Direction,
		Timestamp:  e.Timestamp,
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[e.ActivityID] {
		select {
		case s.send <- ev:
		default:
			slog.Warn("live roster subscriber is behind, dropping event", "activity_id", e.ActivityID)
		}
	}
}

func (h *Hub) subscribe(activityID int64) *subscriber {
	s := &subscriber{send: make(chan LiveEvent, sendBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[activityID] == nil {
		h.subs[activityID] = map[*subscriber]struct{}{}
	}
	h.subs[activityID][s] = struct{}{}
	return s
}

func (h *Hub) unsubscribe(activityID int64, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[activityID][s]; !ok {
		return
	}
	delete(h.subs[activityID], s)
	if len(h.subs[activityID]) == 0 {
		delete(h.subs, activityID)
	}
	close(s.send)
}

// Subscribers counts the clients watching an activity.
func (h *Hub) Subscribers(activityID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[activityID])
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, subs := range h.subs {
		for s := range subs {
			close(s.send)
		}
		delete(h.subs, id)
	}
}

func (h *Hub) serve(conn *websocket.Conn, activityID int64) {
	sub := h.subscribe(activityID)
	defer h.unsubscribe(activityID, sub)
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-sub.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// LiveRoster upgrades to a websocket that receives a LiveEvent for every
// sign-in or sign-out in the activity.
func LiveRoster(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := app.context(r)
		a, ok := app.loadActivity(ctx, w, r)
		cancel()
		if !ok {
			return
		}
		if !canSeeRoster(r.Context(), a) && !middleware.Can(r.Context(), middleware.CapSignInOutOthers) {
			writeError(w, r, attendance.ErrPermissionDenied)
			return
		}

		conn, err := app.Hub.upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.WarnContext(r.Context(), "websocket upgrade failed", "activity_id", a.ID, "error", err)
			return
		}
		app.Hub.serve(conn, a.ID)
	}
}

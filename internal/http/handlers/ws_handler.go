// README: Websocket bridge — pushes change-feed events to dashboard clients,
// scoped to the caller's role and identity.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"vdeliveries/internal/http/middleware"
	"vdeliveries/internal/logging"
	"vdeliveries/internal/modules/profile"
	"vdeliveries/internal/realtime"
)

type WSHandler struct {
	feed realtime.Feed
	log  *logging.Logger
}

func NewWSHandler(feed realtime.Feed, log *logging.Logger) *WSHandler {
	if log == nil {
		log = logging.New("ws")
	}
	return &WSHandler{feed: feed, log: log}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin dashboards connect here; auth happens via the session token,
	// not the Origin header.
	CheckOrigin: func(*http.Request) bool { return true },
}

type feedSpec struct {
	topic  string
	filter *realtime.Filter
}

// subscriptionsFor maps a role to the feed slices that role's dashboard needs.
func subscriptionsFor(p *profile.Profile) []feedSpec {
	me := string(p.ID)
	switch p.Role {
	case profile.RoleAdmin:
		return []feedSpec{
			{realtime.TopicOrders, nil},
			{realtime.TopicProfiles, nil},
		}
	case profile.RoleDriver:
		return []feedSpec{
			{realtime.TopicOrders, &realtime.Filter{Field: "assigned_driver_id", Equals: me}},
			{realtime.TopicOrders, &realtime.Filter{Field: "status", Equals: "pending"}},
		}
	default: // client
		return []feedSpec{
			{realtime.TopicOrders, &realtime.Filter{Field: "client_id", Equals: me}},
		}
	}
}

func (h *WSHandler) Handle(c *gin.Context) {
	p := middleware.CurrentProfile(c)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	send := make(chan realtime.Event, 32)
	done := make(chan struct{})

	push := func(e realtime.Event) {
		select {
		case send <- e:
		case <-done:
		default:
			// slow consumer: drop rather than block the feed; the dashboard
			// re-queries on the next event anyway
		}
	}

	var subs []*realtime.Subscription
	for _, spec := range subscriptionsFor(p) {
		sub, err := h.feed.Subscribe(c.Request.Context(), spec.topic, spec.filter, push)
		if err != nil {
			h.log.Error("ws_subscribe", "feed subscription failed", err, map[string]any{"topic": spec.topic})
			for _, s := range subs {
				s.Close()
			}
			return
		}
		subs = append(subs, sub)
	}
	defer func() {
		for _, s := range subs {
			s.Close()
		}
	}()

	go func() {
		for {
			select {
			case e := <-send:
				if err := conn.WriteJSON(e); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Read loop exists only to detect the peer going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	close(done)
}

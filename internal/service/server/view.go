package server

import (
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vertextoedge/linkguard/internal/domain"
	"github.com/vertextoedge/linkguard/internal/port"
	"github.com/vertextoedge/linkguard/internal/service/navigation"
	"github.com/vertextoedge/linkguard/internal/util/ratelimiter"
	"go.uber.org/zap"
)

const (
	writeWait = 10 * time.Second

	// warnInterval caps repeated warnings per view or remote address
	warnInterval = 30 * time.Second
)

// ErrViewGone is returned when a command targets a view with no open socket
var ErrViewGone = errors.New("view is not connected")

// Message types exchanged on a view control socket
const (
	msgNavigate            = "navigate"
	msgPing                = "ping"
	msgPong                = "pong"
	msgDecision            = "decision"
	msgError               = "error"
	msgNavigateInPlace     = "navigate_in_place"
	msgCancelNavigation    = "cancel_navigation"
	msgInteractiveDownload = "interactive_download"
)

// inboundMessage is sent by the shell
type inboundMessage struct {
	Type        string `json:"type"`
	URL         string `json:"url,omitempty"`
	DomainIndex int64  `json:"domain_index,omitempty"`
}

// outboundMessage is sent to the shell
type outboundMessage struct {
	Type     string `json:"type"`
	URL      string `json:"url,omitempty"`
	Decision string `json:"decision,omitempty"`
	Error    string `json:"error,omitempty"`
}

// wsView is one connected control socket
type wsView struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

// send serializes writes; gorilla connections allow one writer at a time
func (v *wsView) send(msg outboundMessage) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return v.conn.WriteJSON(msg)
}

// liveView addresses a view by id and writes to whichever socket is
// currently connected for it, so commands issued after a reconnect still
// reach the shell.
type liveView struct {
	hub *ViewHub
	id  string
}

// Ensure liveView implements port.View
var _ port.View = (*liveView)(nil)

func (v *liveView) ID() string { return v.id }

func (v *liveView) NavigateInPlace(url string) error {
	return v.send(outboundMessage{Type: msgNavigateInPlace, URL: url})
}

func (v *liveView) CancelPendingNavigation() error {
	return v.send(outboundMessage{Type: msgCancelNavigation})
}

func (v *liveView) TriggerInteractiveDownload(url string) error {
	return v.send(outboundMessage{Type: msgInteractiveDownload, URL: url})
}

func (v *liveView) send(msg outboundMessage) error {
	conn := v.hub.lookup(v.id)
	if conn == nil {
		return ErrViewGone
	}
	return conn.send(msg)
}

// ViewHub accepts view control sockets and routes navigation intents to the guard
type ViewHub struct {
	guard    *navigation.Guard
	upgrader websocket.Upgrader
	logger   *zap.Logger
	warns    *ratelimiter.Limiter

	mu    sync.Mutex
	views map[string]*wsView
}

// NewViewHub creates a new ViewHub. Requests without an Origin header are
// always accepted; browser origins must be listed in allowedOrigins.
func NewViewHub(guard *navigation.Guard, allowedOrigins []string, logger *zap.Logger) *ViewHub {
	h := &ViewHub{
		guard:  guard,
		logger: logger,
		warns:  ratelimiter.New(warnInterval),
		views:  make(map[string]*wsView),
	}
	h.upgrader = websocket.Upgrader{
		HandshakeTimeout: writeWait,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

// Count returns the number of connected views
func (h *ViewHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.views)
}

// HandleControl upgrades GET /api/views/{id}/control and serves the socket
func (h *ViewHub) HandleControl(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Missing view id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if ok, _ := h.warns.Allow("upgrade:" + r.RemoteAddr); ok {
			h.logger.Warn("view upgrade failed",
				zap.String("view_id", id),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("origin", r.Header.Get("Origin")),
				zap.Error(err))
		}
		return
	}
	// Clear deadlines inherited from the HTTP server
	conn.NetConn().SetDeadline(time.Time{})

	view := &wsView{id: id, conn: conn}
	h.register(view)
	defer h.unregister(view)

	h.logger.Info("view connected", zap.String("view_id", id))
	h.serve(view)
	h.logger.Info("view disconnected", zap.String("view_id", id))
	h.warns.Forget("navigate:" + id)
}

func (h *ViewHub) serve(view *wsView) {
	for {
		var msg inboundMessage
		if err := view.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("view read error", zap.String("view_id", view.id), zap.Error(err))
			}
			return
		}

		switch msg.Type {
		case msgNavigate:
			h.handleNavigate(view, msg)
		case msgPing:
			h.reply(view, outboundMessage{Type: msgPong})
		default:
			h.reply(view, outboundMessage{Type: msgError, Error: "unknown message type"})
		}
	}
}

func (h *ViewHub) handleNavigate(view *wsView, msg inboundMessage) {
	req := domain.NavigationRequest{
		URL:         msg.URL,
		DomainIndex: msg.DomainIndex,
		ViewID:      view.id,
	}

	decision, err := h.guard.HandleNavigation(&liveView{hub: h, id: view.id}, req)
	if err != nil {
		if ok, _ := h.warns.Allow("navigate:" + view.id); ok {
			h.logger.Warn("navigation handling failed",
				zap.String("view_id", view.id),
				zap.String("decision", string(decision)),
				zap.Error(err))
		}
		h.reply(view, outboundMessage{Type: msgError, URL: msg.URL, Decision: string(decision), Error: err.Error()})
		return
	}
	h.reply(view, outboundMessage{Type: msgDecision, URL: msg.URL, Decision: string(decision)})
}

func (h *ViewHub) reply(view *wsView, msg outboundMessage) {
	if err := view.send(msg); err != nil {
		h.logger.Debug("view write failed", zap.String("view_id", view.id), zap.Error(err))
	}
}

func (h *ViewHub) lookup(id string) *wsView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.views[id]
}

// register adds view, closing any older socket for the same id
func (h *ViewHub) register(view *wsView) {
	h.mu.Lock()
	old := h.views[view.id]
	h.views[view.id] = view
	h.mu.Unlock()

	if old != nil {
		h.logger.Info("replacing view connection", zap.String("view_id", view.id))
		old.conn.Close()
	}
}

func (h *ViewHub) unregister(view *wsView) {
	h.mu.Lock()
	if h.views[view.id] == view {
		delete(h.views, view.id)
	}
	h.mu.Unlock()
	view.conn.Close()
}

// CloseAll disconnects every view
func (h *ViewHub) CloseAll() {
	h.mu.Lock()
	views := make([]*wsView, 0, len(h.views))
	for _, v := range h.views {
		views = append(views, v)
	}
	h.mu.Unlock()

	for _, v := range views {
		v.mu.Lock()
		v.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		v.mu.Unlock()
		v.conn.Close()
	}
}

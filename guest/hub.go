// Package guest connects the host to the emulator page over a websocket.
//
// Host to guest messages are JSON frames {"event": name, "args": [...]}.
// Guest to host calls are {"call": name, "args": ["...", ...]} with
// string arguments only.
package guest

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Zash60/snes-josc/api"
	"github.com/Zash60/snes-josc/dispatch"
)

const (
	// Save states and ROM payloads are base64 and can reach tens of MB.
	maxMessageSize = 96 << 20
	writeWait      = 30 * time.Second
	// Deliveries kept while no page is connected.
	maxPending = 64
)

// Handler receives guest calls on the UI loop.
type Handler func(call string, args []string) error

type frame struct {
	Event string `json:"event"`
	Args  []any  `json:"args"`
}

type callFrame struct {
	Call string            `json:"call"`
	Args []json.RawMessage `json:"args"`
}

// Hub is the host side of the guest connection. It implements api.Guest.
//
// One page is connected at a time; a new connection replaces the old one.
// Deliver never blocks: each connection has an unbounded ordered outbox
// drained by its own writer goroutine. While no page is connected, button
// events are dropped and everything else is kept (bounded) and flushed to
// the next connection.
type Hub struct {
	ui       *dispatch.Loop
	upgrader websocket.Upgrader
	hosts    map[string]bool

	mu      sync.Mutex
	handler Handler
	session *session
	pending []frame
}

// NewHub creates a hub. Calls are posted to ui. Pages are accepted from
// loopback and from any of allowedHosts.
func NewHub(ui *dispatch.Loop, allowedHosts ...string) *Hub {
	h := &Hub{
		ui:    ui,
		hosts: make(map[string]bool),
	}
	for _, host := range allowedHosts {
		h.hosts[strings.ToLower(host)] = true
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  64 << 10,
		WriteBufferSize: 64 << 10,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// SetHandler registers the receiver of guest calls.
func (h *Hub) SetHandler(fn Handler) {
	h.mu.Lock()
	h.handler = fn
	h.mu.Unlock()
}

// Connected reports whether a page is attached.
func (h *Hub) Connected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session != nil
}

// Deliver queues an event for the page.
func (h *Hub) Deliver(event string, args ...any) {
	if args == nil {
		args = []any{}
	}
	f := frame{Event: event, Args: args}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session != nil {
		if h.session.enqueue(f) {
			return
		}
		// the page went away and ServeHTTP has not detached it yet
		h.session = nil
	}
	if event == api.EventButton {
		return
	}
	if len(h.pending) == maxPending {
		log.Printf("Warning: guest not connected, dropping queued %s", h.pending[0].Event)
		h.pending = h.pending[1:]
	}
	h.pending = append(h.pending, f)
}

// Close disconnects the current page, if any.
func (h *Hub) Close() {
	h.mu.Lock()
	s := h.session
	h.session = nil
	h.mu.Unlock()
	if s != nil {
		s.close()
	}
}

// ServeHTTP upgrades the request and serves the page until it goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Warning: guest upgrade failed: %v", err)
		return
	}
	conn.SetReadLimit(maxMessageSize)

	s := newSession(conn)

	h.mu.Lock()
	old := h.session
	h.session = s
	for _, f := range h.pending {
		s.enqueue(f)
	}
	h.pending = nil
	h.mu.Unlock()

	if old != nil {
		log.Printf("Guest reconnected from %s, replacing previous page", r.RemoteAddr)
		old.close()
	} else {
		log.Printf("Guest connected from %s", r.RemoteAddr)
	}

	go s.writeLoop()
	h.readLoop(s)

	h.mu.Lock()
	if h.session == s {
		h.session = nil
	}
	h.mu.Unlock()
	s.close()
	log.Printf("Guest disconnected from %s", r.RemoteAddr)
}

func (h *Hub) readLoop(s *session) {
	for {
		var c callFrame
		if err := s.conn.ReadJSON(&c); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !s.isClosed() {
				log.Printf("Warning: guest read failed: %v", err)
			}
			return
		}

		args, err := stringArgs(c.Args)
		if err != nil {
			log.Printf("Warning: guest call %s: %v", c.Call, err)
			continue
		}

		call := c.Call
		h.ui.Post(func() {
			h.mu.Lock()
			fn := h.handler
			h.mu.Unlock()
			if fn == nil {
				return
			}
			if err := fn(call, args); err != nil {
				log.Printf("Warning: guest call %s: %v", call, err)
			}
		})
	}
}

func stringArgs(raw []json.RawMessage) ([]string, error) {
	args := make([]string, len(raw))
	for i, r := range raw {
		if err := json.Unmarshal(r, &args[i]); err != nil {
			return nil, fmt.Errorf("argument %d is not a string", i)
		}
	}
	return args, nil
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if h.hosts[host] || host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

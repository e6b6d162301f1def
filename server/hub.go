package server

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/katalvlaran/pathviz/session"
)

// frameKind tells the send path which frames a resync supersedes.
type frameKind uint8

const (
	frameControl  frameKind = iota // errors and replies, never skipped
	frameEvent                     // one session event
	frameSnapshot                  // full board state
)

// frame is one queued websocket message.
type frame struct {
	kind   frameKind
	binary bool
	data   []byte
}

// Hub fans session events out to every connected client and owns the client
// set. All sends to a client go through deliver, so a client's queue is
// never written after it is closed.
type Hub struct {
	sess *session.Session

	mu      sync.RWMutex
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	dirty      chan struct{} // capacity 1: a snapshot broadcast is pending
	done       chan struct{} // closed when Run returns

	unsubscribe func()
}

// NewHub creates a hub for sess and subscribes to its events.
func NewHub(sess *session.Session) *Hub {
	h := &Hub{
		sess:       sess,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		dirty:      make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	h.unsubscribe = sess.Subscribe(h.onEvent)
	return h
}

// onEvent must not block: it runs on whichever goroutine is delivering
// session events.
func (h *Hub) onEvent(ev session.Event) {
	switch ev.Kind {
	case session.EventGrid, session.EventMovers, session.EventPhase, session.EventCancelled:
		h.markDirty()
	}
	if ev.Kind == session.EventGrid || ev.Kind == session.EventMovers {
		return
	}
	data, err := json.Marshal(Envelope{T: MsgEvent, Data: ev})
	if err != nil {
		log.Printf("marshal event: %v", err)
		return
	}
	h.broadcast(frame{kind: frameEvent, data: data})
}

// markDirty schedules a snapshot broadcast.
func (h *Hub) markDirty() {
	select {
	case h.dirty <- struct{}{}:
	default:
	}
}

// Run processes registrations and snapshot broadcasts until ctx ends, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	defer h.unsubscribe()

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			h.sendSnapshot(c, h.sess.Snapshot())

		case c := <-h.unregister:
			h.drop(c)

		case <-h.dirty:
			snap := h.sess.Snapshot()
			h.mu.RLock()
			for c := range h.clients {
				h.sendLocked(c, snapshotFrame(c, snap))
			}
			h.mu.RUnlock()

		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return ctx.Err()
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcast(f frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		h.sendLocked(c, f)
	}
}

// deliver queues f for one client if it is still registered.
func (h *Hub) deliver(c *Client, f frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.clients[c] {
		h.sendLocked(c, f)
	}
}

// sendLocked queues f for c. A client whose queue is full is marked lagged:
// its event and snapshot frames are skipped until its writer has caught up
// and sent a fresh snapshot. Caller holds h.mu.
func (h *Hub) sendLocked(c *Client, f frame) {
	if f.kind != frameControl && c.lagged.Load() {
		return
	}
	select {
	case c.send <- f:
	default:
		c.markLagged()
	}
}

func (h *Hub) sendSnapshot(c *Client, snap session.Snapshot) {
	h.deliver(c, snapshotFrame(c, snap))
}

// snapshotFrame encodes snap in the client's codec.
func snapshotFrame(c *Client, snap session.Snapshot) frame {
	if c.jsonCodec {
		data, err := json.Marshal(Envelope{T: MsgSnapshot, Data: snap})
		if err != nil {
			log.Printf("marshal snapshot: %v", err)
		}
		return frame{kind: frameSnapshot, data: data}
	}
	data, err := msgpack.Marshal(snap)
	if err != nil {
		log.Printf("msgpack snapshot: %v", err)
	}
	return frame{kind: frameSnapshot, binary: true, data: data}
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/katalvlaran/pathviz/session"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 1024
	sendBufSize       = 512
	maxMessagesPerSec = 120 // obstacle painting sends one message per cell
)

// Client is one websocket connection.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan frame
	remoteAddr string
	jsonCodec  bool
	msgCount   int
	msgResetAt time.Time

	lagged atomic.Bool    // queue overflowed; waiting for a resync
	resync chan struct{} // capacity 1: wakes writePump to resync
}

func newClient(hub *Hub, conn *websocket.Conn, remoteAddr string, jsonCodec bool) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan frame, sendBufSize),
		remoteAddr: remoteAddr,
		jsonCodec:  jsonCodec,
		resync:     make(chan struct{}, 1),
	}
}

// markLagged flags c as behind and wakes its writer once.
func (c *Client) markLagged() {
	if !c.lagged.CompareAndSwap(false, true) {
		return
	}
	log.Printf("client %s lagging, resyncing", c.remoteAddr)
	select {
	case c.resync <- struct{}{}:
	default:
	}
}

// readPump reads actions until the connection fails or the client floods.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			return
		}

		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			return
		}

		c.handleMessage(message)
	}
}

// writePump drains the send queue and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case f, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(f); err != nil {
				return
			}

		case <-c.resync:
			if err := c.catchUp(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(f frame) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	kind := websocket.TextMessage
	if f.binary {
		kind = websocket.BinaryMessage
	}
	return c.conn.WriteMessage(kind, f.data)
}

// catchUp discards the queued events and snapshots of a lagged client, keeps
// its control frames, then sends a resync notice and a fresh snapshot. Events
// emitted after the flag is cleared are queued again on top of that snapshot.
func (c *Client) catchUp() error {
	for drained := false; !drained; {
		select {
		case f, ok := <-c.send:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return errClosed
			}
			if f.kind == frameControl {
				if err := c.write(f); err != nil {
					return err
				}
			}
		default:
			drained = true
		}
	}
	c.lagged.Store(false)

	notice, err := json.Marshal(Envelope{T: MsgResync})
	if err != nil {
		return err
	}
	if err := c.write(frame{kind: frameControl, data: notice}); err != nil {
		return err
	}
	return c.write(snapshotFrame(c, c.hub.sess.Snapshot()))
}

// errClosed stops writePump when the hub closed the queue during a resync.
var errClosed = errors.New("client queue closed")

func (c *Client) sendJSON(msg Envelope) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.hub.deliver(c, frame{data: data})
}

func (c *Client) sendError(action string, err error) {
	c.sendJSON(Envelope{T: MsgError, Data: ErrorMsg{Action: action, Msg: err.Error()}})
}

// handleMessage decodes one envelope and applies it to the session.
// Rejected actions are answered with an error message; the board change of
// accepted ones reaches every client through the hub.
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.sendError("", fmt.Errorf("bad message: %w", err))
		return
	}
	if err := c.apply(env); err != nil {
		c.sendError(env.T, err)
	}
}

func (c *Client) apply(env InEnvelope) error {
	sess := c.hub.sess

	switch env.T {
	case ActPlaceStart, ActPlaceEnd, ActToggleObstacle, ActPaintObstacle:
		var cell CellMsg
		if err := json.Unmarshal(env.D, &cell); err != nil {
			return fmt.Errorf("bad cell: %w", err)
		}
		return applyCell(sess, env.T, cell)
	case ActStart:
		return sess.StartSearch()
	case ActResetPath:
		sess.ResetPath()
	case ActResetAll:
		sess.ResetAll()
	case ActRandomize:
		_, err := sess.RandomizeObstacles()
		return err
	case ActSpawn:
		sess.SpawnMovers()
	case ActToggleAnimation:
		sess.ToggleAnimation()
		c.hub.markDirty()
	case ActToggleDynamic:
		sess.ToggleDynamic()
		c.hub.markDirty()
	default:
		return fmt.Errorf("unknown action %q", env.T)
	}
	return nil
}

func applyCell(sess *session.Session, action string, cell CellMsg) error {
	switch action {
	case ActPlaceStart:
		return sess.PlaceStart(cell.X, cell.Y)
	case ActPlaceEnd:
		return sess.PlaceEnd(cell.X, cell.Y)
	case ActToggleObstacle:
		_, err := sess.ToggleObstacle(cell.X, cell.Y)
		return err
	default:
		return sess.PaintObstacle(cell.X, cell.Y, cell.On)
	}
}

// Package server exposes a session over websockets.
//
// Clients connect to /ws and send JSON envelopes {"t": action, "d": {...}}.
// The server answers rejected actions with {"t":"error"}, streams search
// events as {"t":"event"} and pushes a full board snapshot on connect and
// after every change of layout, movers, phase or mode. Snapshots are binary
// msgpack frames; browsers without a msgpack decoder connect with
// /ws?codec=json and receive {"t":"snapshot"} text frames instead.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/katalvlaran/pathviz/session"
)

//go:embed index.html
var indexHTML []byte

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // non-browser clients
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// Server bundles the hub and its HTTP routes.
type Server struct {
	hub *Hub
}

// New creates a server for sess. Call Run to start the hub.
func New(sess *session.Session) *Server {
	return &Server{hub: NewHub(sess)}
}

// Run drives the hub until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	return s.hub.Run(ctx)
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	return s.hub.Len()
}

// Handler returns the HTTP routes: / (viewer), /ws and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(indexHTML)
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "ok",
			"clients": s.hub.Len(),
			"phase":   s.hub.sess.Phase().String(),
		})
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}
		c := newClient(s.hub, conn, remoteIP(r), r.URL.Query().Get("codec") == "json")
		if !s.hub.join(c) {
			conn.Close()
			return
		}
		go c.writePump()
		go c.readPump()
	})

	return mux
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package server

import "encoding/json"

// Client -> server actions.
const (
	ActPlaceStart      = "place_start"
	ActPlaceEnd        = "place_end"
	ActToggleObstacle  = "toggle_obstacle"
	ActPaintObstacle   = "paint_obstacle"
	ActStart           = "start"
	ActResetPath       = "reset_path"
	ActResetAll        = "reset_all"
	ActRandomize       = "randomize"
	ActSpawn           = "spawn"
	ActToggleAnimation = "toggle_animation"
	ActToggleDynamic   = "toggle_dynamic"
)

// Server -> client message types. Snapshots go out as binary msgpack frames
// unless the client connected with ?codec=json.
const (
	MsgEvent    = "event"
	MsgError    = "error"
	MsgSnapshot = "snapshot" // JSON codec only
	MsgResync   = "resync"   // events were skipped; a snapshot follows
)

// Envelope wraps every outgoing text message.
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is an incoming message; D is decoded per action.
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// CellMsg addresses one cell. On is only read by paint_obstacle.
type CellMsg struct {
	X  int  `json:"x"`
	Y  int  `json:"y"`
	On bool `json:"on,omitempty"`
}

// ErrorMsg reports a rejected action.
type ErrorMsg struct {
	Action string `json:"a"`
	Msg    string `json:"msg"`
}

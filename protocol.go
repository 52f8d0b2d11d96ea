package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"gridsnake/game"
)

// Protocol uses single-character keys to minimize wire size. Each message carries its type
// in "t". The same structs are sent as JSON text frames or msgpack binary frames.
//
// Message type constants (value of "t" field):
//   Client → Server:
//     "s" = start  {"t":"s","d":"expert","w":1}   (d=difficulty, w=walls 0/1, default 1)
//     "i" = input  {"t":"i","x":-40,"y":3}         (raw swipe/drag vector in px)
//     "k" = key    {"t":"k","d":"u"}               (d=u/d/l/r)
//     "p" = pause, "u" = resume, "x" = reset
//   Server → Client:
//     "w" = welcome   {"t":"w","i":"id","c":14,"r":19}        (c=cols, r=rows)
//     "s" = state     {"t":"s","s":[[x,y],...],"f":[x,y],...}
//     "o" = game over {"t":"o","k":"wall","p":120,"l":3}      (k=outcome)
//     "e" = error     {"t":"e","m":"game not running"}

// Message type identifiers
const (
	MsgStart  = "s"
	MsgInput  = "i"
	MsgKey    = "k"
	MsgPause  = "p"
	MsgResume = "u"
	MsgReset  = "x"

	MsgWelcome  = "w"
	MsgState    = "s"
	MsgGameOver = "o"
	MsgError    = "e"
)

var (
	ErrUnknownCodec   = errors.New("unknown codec")
	ErrUnknownMessage = errors.New("unknown message type")
)

// ClientMessage is any incoming message. D is the difficulty for start and the direction for key.
type ClientMessage struct {
	Type  string  `json:"t" msgpack:"t"`
	D     string  `json:"d,omitempty" msgpack:"d,omitempty"`
	Walls *int    `json:"w,omitempty" msgpack:"w,omitempty"`
	X     float64 `json:"x,omitempty" msgpack:"x,omitempty"`
	Y     float64 `json:"y,omitempty" msgpack:"y,omitempty"`
}

// WelcomeMsg is sent immediately on connect
type WelcomeMsg struct {
	Type string `json:"t" msgpack:"t"`
	ID   string `json:"i" msgpack:"i"`
	Cols int    `json:"c" msgpack:"c"`
	Rows int    `json:"r" msgpack:"r"`
}

// StateMsg is sent after every session change.
// Cells are [x,y] pairs; v is the tick interval in ms; h is the phase.
type StateMsg struct {
	Type      string   `json:"t" msgpack:"t"`
	Snake     [][2]int `json:"s" msgpack:"s"`
	Food      [2]int   `json:"f" msgpack:"f"`
	FoodColor string   `json:"fc" msgpack:"fc"`
	FoodShape string   `json:"fs" msgpack:"fs"`
	Score     int      `json:"p" msgpack:"p"`
	Level     int      `json:"l" msgpack:"l"`
	Interval  int64    `json:"v" msgpack:"v"`
	Phase     string   `json:"h" msgpack:"h"`
	Best      int      `json:"b" msgpack:"b"`
	Tint      string   `json:"c" msgpack:"c"`
	Event     string   `json:"e,omitempty" msgpack:"e,omitempty"`
}

// GameOverMsg is sent once when a game ends
type GameOverMsg struct {
	Type    string `json:"t" msgpack:"t"`
	Outcome string `json:"k" msgpack:"k"`
	Score   int    `json:"p" msgpack:"p"`
	Level   int    `json:"l" msgpack:"l"`
}

// ErrorMsg reports a rejected request or a refused connection
type ErrorMsg struct {
	Type    string `json:"t" msgpack:"t"`
	Message string `json:"m" msgpack:"m"`
}

// Codec selects the wire encoding of a connection
type Codec int

const (
	CodecJSON Codec = iota
	CodecMsgpack
)

// ParseCodec accepts "json" (or empty) and "msgpack"
func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return CodecJSON, nil
	case "msgpack", "mp":
		return CodecMsgpack, nil
	}
	return CodecJSON, fmt.Errorf("%w: %q", ErrUnknownCodec, s)
}

func (c Codec) String() string {
	if c == CodecMsgpack {
		return "msgpack"
	}
	return "json"
}

// Marshal encodes v
func (c Codec) Marshal(v any) ([]byte, error) {
	if c == CodecMsgpack {
		return msgpack.Marshal(v)
	}
	return json.Marshal(v)
}

// Unmarshal decodes data into v
func (c Codec) Unmarshal(data []byte, v any) error {
	if c == CodecMsgpack {
		return msgpack.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// FrameType is the websocket message type carrying this codec
func (c Codec) FrameType() int {
	if c == CodecMsgpack {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

// newStateMsg flattens a snapshot into the compact state message
func newStateMsg(snap game.Snapshot) StateMsg {
	st := snap.State
	snake := make([][2]int, len(st.Snake))
	for i, c := range st.Snake {
		snake[i] = [2]int{c.X, c.Y}
	}
	return StateMsg{
		Type:      MsgState,
		Snake:     snake,
		Food:      [2]int{st.Food.X, st.Food.Y},
		FoodColor: st.Food.Item.Color,
		FoodShape: st.Food.Item.Name,
		Score:     st.Score,
		Level:     st.Level,
		Interval:  st.Interval.Milliseconds(),
		Phase:     st.Phase.String(),
		Best:      snap.Best,
		Tint:      st.Tint,
		Event:     st.Event.String(),
	}
}

func newGameOverMsg(st game.State) GameOverMsg {
	return GameOverMsg{
		Type:    MsgGameOver,
		Outcome: st.Outcome.String(),
		Score:   st.Score,
		Level:   st.Level,
	}
}

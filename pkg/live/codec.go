package live

import (
	"encoding/json"
	"fmt"
)

// FrameType names a JSON frame
type FrameType string

const (
	// server to client
	FrameHello    FrameType = "hello"
	FrameRender   FrameType = "render"
	FrameProgress FrameType = "progress"
	FrameToast    FrameType = "toast"
	FrameError    FrameType = "error"
	FramePong     FrameType = "pong"

	// client to server
	FrameEvent FrameType = "event"
	FramePing  FrameType = "ping"
)

// ServerFrame is every frame the server sends. Fields not used by a frame
// type are omitted.
type ServerFrame struct {
	Type    FrameType `json:"type"`
	Session string    `json:"session,omitempty"`
	View    string    `json:"view,omitempty"`
	HTML    string    `json:"html,omitempty"`
	Value   *int      `json:"value,omitempty"`
	Message string    `json:"message,omitempty"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Variant     string `json:"variant,omitempty"`
}

// ClientFrame is every frame the client sends
type ClientFrame struct {
	Type   FrameType `json:"type"`
	View   string    `json:"view,omitempty"`
	Action string    `json:"action,omitempty"`
	Value  string    `json:"value,omitempty"`
}

func helloFrame(session string) ServerFrame {
	return ServerFrame{Type: FrameHello, Session: session}
}

func renderFrame(view, html string) ServerFrame {
	return ServerFrame{Type: FrameRender, View: view, HTML: html}
}

func progressFrame(view string, value int) ServerFrame {
	return ServerFrame{Type: FrameProgress, View: view, Value: &value}
}

func toastFrame(t Toast) ServerFrame {
	return ServerFrame{Type: FrameToast, Title: t.Title, Description: t.Description, Variant: t.Variant}
}

func errorFrame(msg string) ServerFrame {
	return ServerFrame{Type: FrameError, Message: msg}
}

// EncodeFrame serializes a server frame
func EncodeFrame(f ServerFrame) ([]byte, error) {
	return json.Marshal(f)
}

// DecodeClientFrame parses and checks a client frame
func DecodeClientFrame(data []byte) (ClientFrame, error) {
	var f ClientFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("live: decode frame: %w", err)
	}

	switch f.Type {
	case FramePing:
	case FrameEvent:
		if f.View == "" || f.Action == "" {
			return f, fmt.Errorf("live: event frame needs view and action")
		}
	default:
		return f, fmt.Errorf("live: unsupported frame type %q", f.Type)
	}
	return f, nil
}

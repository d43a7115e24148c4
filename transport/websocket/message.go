package websocket

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/noughts-crosses/internal/entity"
	"github.com/rocketscienceinc/noughts-crosses/internal/view"
)

const (
	actionConnect      = "connect"
	actionCellActivate = "cell:activate"
	actionGameReset    = "game:reset"

	actionSession    = "session"
	actionCellRender = "cell:render"
	actionStatus     = "status"
	actionError      = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ConnectPayload struct {
	SessionID string `json:"session_id"`
}

type CellPayload struct {
	Cell *int `json:"cell"`
}

type SessionPayload struct {
	SessionID string `json:"session_id"`
}

type RenderPayload struct {
	Cell int         `json:"cell"`
	Mark entity.Mark `json:"mark"`
}

type StatusPayload struct {
	Text     string        `json:"text"`
	Severity view.Severity `json:"severity"`
	Colour   string        `json:"colour"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// connection is one browser tab. Messages are read and answered in a single
// goroutine that owns sessionID and writeErr. Peers on the same session also
// write to it, so writes go through writeMu.
type connection struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	sessionID string

	// first write failure while acting as a presenter
	writeErr error
}

func (that *connection) Render(cell int, mark entity.Mark) {
	that.send(actionCellRender, RenderPayload{Cell: cell, Mark: mark})
}

func (that *connection) ShowMessage(text string, severity view.Severity) {
	that.send(actionStatus, StatusPayload{Text: text, Severity: severity, Colour: severity.Colour()})
}

func (that *connection) send(action string, payload any) {
	if that.writeErr != nil {
		return
	}

	that.writeErr = that.sendMessage(action, payload)
}

func (that *connection) sendMessage(action string, payload any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = that.conn.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) sendError(text string) error {
	return that.sendMessage(actionError, ErrorPayload{Error: text})
}

// flush returns and clears the write error collected by the presenter calls.
func (that *connection) flush() error {
	err := that.writeErr
	that.writeErr = nil

	return err
}

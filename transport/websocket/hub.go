package websocket

import (
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/noughts-crosses/internal/entity"
	"github.com/rocketscienceinc/noughts-crosses/internal/view"
)

// hub tracks which connections show which session.
type hub struct {
	mu       sync.Mutex
	sessions map[string]map[*connection]struct{}
}

func newHub() *hub {
	return &hub{
		sessions: make(map[string]map[*connection]struct{}),
	}
}

func (that *hub) join(sessionID string, conn *connection) {
	that.mu.Lock()
	defer that.mu.Unlock()

	conns, ok := that.sessions[sessionID]
	if !ok {
		conns = make(map[*connection]struct{})
		that.sessions[sessionID] = conns
	}

	conns[conn] = struct{}{}
}

func (that *hub) leave(sessionID string, conn *connection) {
	if sessionID == "" {
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	conns := that.sessions[sessionID]
	delete(conns, conn)

	if len(conns) == 0 {
		delete(that.sessions, sessionID)
	}
}

// peers returns the other connections on the session.
func (that *hub) peers(sessionID string, conn *connection) []*connection {
	that.mu.Lock()
	defer that.mu.Unlock()

	peers := make([]*connection, 0, len(that.sessions[sessionID]))
	for peer := range that.sessions[sessionID] {
		if peer != conn {
			peers = append(peers, peer)
		}
	}

	return peers
}

// broadcast draws on the acting connection and mirrors renders and status
// changes to its peers. Warnings answer a single click, so peers skip them.
// A failed write to a peer is logged; that peer's own read loop closes it.
type broadcast struct {
	conn   *connection
	peers  []*connection
	logger *slog.Logger
}

func (that *broadcast) Render(cell int, mark entity.Mark) {
	that.conn.Render(cell, mark)
	that.mirror(actionCellRender, RenderPayload{Cell: cell, Mark: mark})
}

func (that *broadcast) ShowMessage(text string, severity view.Severity) {
	that.conn.ShowMessage(text, severity)

	if severity == view.SeverityWarning {
		return
	}

	that.mirror(actionStatus, StatusPayload{Text: text, Severity: severity, Colour: severity.Colour()})
}

func (that *broadcast) mirror(action string, payload any) {
	for _, peer := range that.peers {
		if err := peer.sendMessage(action, payload); err != nil {
			that.logger.Warn("failed to update peer", "action", action, "error", err)
		}
	}
}

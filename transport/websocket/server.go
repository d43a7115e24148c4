package websocket

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/noughts-crosses/internal/tictactoe"
	"github.com/rocketscienceinc/noughts-crosses/internal/view"
)

type uGame interface {
	Connect(ctx context.Context, sessionID string, presenter view.Presenter) (string, error)
	ActivateCell(ctx context.Context, sessionID string, cell int, presenter view.Presenter) (tictactoe.Outcome, error)
	Reset(ctx context.Context, sessionID string, presenter view.Presenter) error
}

// handlerFunc answers one message. Game errors are reported to the client;
// a returned error means the connection can no longer be written to.
type handlerFunc func(ctx context.Context, conn *connection, message *Message) error

type Server struct {
	logger   *slog.Logger
	uGame    uGame
	upgrader websocket.Upgrader
	hub      *hub

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uGame uGame) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		hub: newHub(),

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionCellActivate] = server.handleCellActivate
	server.handlers[actionGameReset] = server.handleGameReset

	return server
}

// Routes registers the websocket endpoint on router.
func (that *Server) Routes(router gin.IRoutes) {
	router.GET("/ws", that.handle)
}

// handle upgrades the request and serves the connection until it closes.
func (that *Server) handle(ctx *gin.Context) {
	log := that.logger.With("method", "handle")

	conn, err := that.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	client := &connection{conn: conn}
	defer func() { that.hub.leave(client.sessionID, client) }()

	that.handleMessages(ctx.Request.Context(), client)
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}

			log.Info("WebSocket connection closed", "session", conn.sessionID)

			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			return
		}
	}
}

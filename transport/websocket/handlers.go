package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/noughts-crosses/internal/apperror"
)

const (
	errTextBadPayload   = "invalid payload"
	errTextNotConnected = "connect to a session first"
	errTextBadCell      = "cell must be between 0 and 8"
	errTextSessionGone  = "session expired, reconnect to start a new game"
	errTextInternal     = "internal error"
)

func (that *Server) handleConnect(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	var payload ConnectPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Warn("failed to unmarshal payload", "error", err)
			return conn.sendError(errTextBadPayload)
		}
	}

	sessionID, err := that.uGame.Connect(ctx, payload.SessionID, conn)
	if err != nil {
		log.Error("failed to connect session", "error", err)
		return conn.sendError(errTextInternal)
	}

	if conn.sessionID != sessionID {
		that.hub.leave(conn.sessionID, conn)
		that.hub.join(sessionID, conn)
		conn.sessionID = sessionID
	}

	if err = conn.flush(); err != nil {
		return fmt.Errorf("failed to send board: %w", err)
	}

	if err = conn.sendMessage(actionSession, SessionPayload{SessionID: sessionID}); err != nil {
		return fmt.Errorf("failed to send session: %w", err)
	}

	log.Info("successfully connected session", "session", sessionID)

	return nil
}

func (that *Server) handleCellActivate(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleCellActivate", "session", conn.sessionID)

	if conn.sessionID == "" {
		return conn.sendError(errTextNotConnected)
	}

	var payload CellPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Cell == nil {
		return conn.sendError(errTextBadPayload)
	}

	if _, err := that.uGame.ActivateCell(ctx, conn.sessionID, *payload.Cell, that.presenterFor(conn, log)); err != nil {
		return that.sendGameError(conn, log.With("cell", *payload.Cell), err)
	}

	if err := conn.flush(); err != nil {
		return fmt.Errorf("failed to send outcome: %w", err)
	}

	return nil
}

func (that *Server) handleGameReset(ctx context.Context, conn *connection, _ *Message) error {
	log := that.logger.With("method", "handleGameReset", "session", conn.sessionID)

	if conn.sessionID == "" {
		return conn.sendError(errTextNotConnected)
	}

	if err := that.uGame.Reset(ctx, conn.sessionID, that.presenterFor(conn, log)); err != nil {
		return that.sendGameError(conn, log, err)
	}

	if err := conn.flush(); err != nil {
		return fmt.Errorf("failed to send board: %w", err)
	}

	return nil
}

// presenterFor makes conn's moves visible on every tab showing its session.
func (that *Server) presenterFor(conn *connection, log *slog.Logger) *broadcast {
	return &broadcast{
		conn:   conn,
		peers:  that.hub.peers(conn.sessionID, conn),
		logger: log,
	}
}

func (that *Server) sendGameError(conn *connection, log *slog.Logger, err error) error {
	switch {
	case errors.Is(err, apperror.ErrCellOutOfRange):
		log.Warn("cell out of range", "error", err)
		return conn.sendError(errTextBadCell)
	case errors.Is(err, apperror.ErrSessionNotFound):
		log.Warn("session not found", "error", err)
		that.hub.leave(conn.sessionID, conn)
		conn.sessionID = ""
		return conn.sendError(errTextSessionGone)
	default:
		log.Error("failed to play", "error", err)
		return conn.sendError(errTextInternal)
	}
}

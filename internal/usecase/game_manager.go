package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/noughts-crosses/internal/apperror"
	"github.com/rocketscienceinc/noughts-crosses/internal/entity"
	"github.com/rocketscienceinc/noughts-crosses/internal/repository"
	"github.com/rocketscienceinc/noughts-crosses/internal/tictactoe"
	"github.com/rocketscienceinc/noughts-crosses/internal/view"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	Update(ctx context.Context, id string, fn repository.UpdateFunc) (*entity.Session, error)
}

type recorder interface {
	Placement(outcome string)
	Reset()
	SessionStarted()
}

// GameManager turns cell and reset activations into engine calls and shows
// the result on the caller's presenter. Both players share one session and
// the manager always acts for whoever's turn it is. Moves and resets on one
// session run one at a time, presenter calls included.
type GameManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	recorder    recorder
	locks       *sessionLocks
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo, recorder recorder) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		sessionRepo: sessionRepo,
		recorder:    recorder,
		locks:       newSessionLocks(),
	}
}

// Connect resumes the session with the given id, or starts a new one when the
// id is empty or unknown, and redraws the whole board. It returns the id of
// the session in use.
func (that *GameManager) Connect(ctx context.Context, sessionID string, presenter view.Presenter) (string, error) {
	log := that.logger.With("method", "Connect")

	session, engine, err := that.loadSession(ctx, sessionID)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		session, engine, err = that.createSession(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to create session: %w", err)
		}

		log.Info("session started", "session", session.ID)
	} else if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}

	view.ShowGame(presenter, engine)

	return session.ID, nil
}

// ActivateCell plays cell for the current turn.
func (that *GameManager) ActivateCell(ctx context.Context, sessionID string, cell int, presenter view.Presenter) (tictactoe.Outcome, error) {
	log := that.logger.With("method", "ActivateCell", "session", sessionID)

	if sessionID == "" {
		return tictactoe.Outcome{}, fmt.Errorf("failed to get session: %w", apperror.ErrSessionNotFound)
	}

	unlock := that.locks.lock(sessionID)
	defer unlock()

	var (
		mark    entity.Mark
		outcome tictactoe.Outcome
	)

	_, err := that.sessionRepo.Update(ctx, sessionID, func(session *entity.Session) error {
		engine, err := tictactoe.Restore(session.Game)
		if err != nil {
			return fmt.Errorf("failed to restore game: %w", err)
		}

		mark = engine.CurrentTurn()

		if outcome, err = engine.PlaceMark(cell, mark); err != nil {
			return fmt.Errorf("failed to place mark: %w", err)
		}

		session.Game = engine.Snapshot()

		return nil
	})
	if err != nil {
		return tictactoe.Outcome{}, fmt.Errorf("failed to update session: %w", err)
	}

	that.recorder.Placement(outcome.Kind.String())
	log.Debug("placement", "cell", cell, "mark", mark, "outcome", outcome.Kind.String())

	if outcome.Kind == tictactoe.OutcomeWin {
		log.Info("game won", "winner", outcome.Mark)
	}

	view.ShowOutcome(presenter, cell, outcome, mark)

	return outcome, nil
}

// Reset clears the session's board and redraws it.
func (that *GameManager) Reset(ctx context.Context, sessionID string, presenter view.Presenter) error {
	log := that.logger.With("method", "Reset", "session", sessionID)

	if sessionID == "" {
		return fmt.Errorf("failed to get session: %w", apperror.ErrSessionNotFound)
	}

	unlock := that.locks.lock(sessionID)
	defer unlock()

	engine := tictactoe.NewEngine()

	_, err := that.sessionRepo.Update(ctx, sessionID, func(session *entity.Session) error {
		session.Game = engine.Snapshot()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	that.recorder.Reset()
	log.Info("board reset")

	view.ShowGame(presenter, engine)

	return nil
}

func (that *GameManager) loadSession(ctx context.Context, sessionID string) (*entity.Session, *tictactoe.Engine, error) {
	if sessionID == "" {
		return nil, nil, apperror.ErrSessionNotFound
	}

	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	engine, err := tictactoe.Restore(session.Game)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore game: %w", err)
	}

	return session, engine, nil
}

func (that *GameManager) createSession(ctx context.Context) (*entity.Session, *tictactoe.Engine, error) {
	engine := tictactoe.NewEngine()

	session := &entity.Session{
		ID:   uuid.NewString(),
		Game: engine.Snapshot(),
	}

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, nil, err
	}

	that.recorder.SessionStarted()

	return session, engine, nil
}

package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/noughts-crosses/internal/apperror"
	"github.com/rocketscienceinc/noughts-crosses/internal/entity"
	"github.com/rocketscienceinc/noughts-crosses/internal/repository"
)

var errAbort = errors.New("abort")

func newTestSession() *entity.Session {
	return &entity.Session{
		ID: "123",
		Game: entity.Game{
			Board: entity.Board{entity.Noughts, entity.Empty, entity.Empty, entity.Empty, entity.Crosses},
			Turn:  entity.Noughts,
		},
	}
}

// updateEveryCell claims every cell concurrently, one update per cell,
// spreading the updates over the given repositories.
func updateEveryCell(ctx context.Context, t *testing.T, repos ...repository.SessionRepository) {
	t.Helper()

	errs := make([]error, entity.BoardSize)

	var wg sync.WaitGroup
	for cell := range entity.BoardSize {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[cell] = repos[cell%len(repos)].Update(ctx, "123", func(session *entity.Session) error {
				session.Game.Board[cell] = entity.Crosses
				return nil
			})
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
}

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Round trip", func(t *testing.T) {
		// Given: a stored session
		sessionRepo := repository.NewMemorySessionRepository()
		session := newTestSession()
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

		// When: it is read back
		retrieved, err := sessionRepo.GetByID(ctx, session.ID)

		// Then: it matches what was stored
		require.NoError(t, err)
		assert.Equal(t, session, retrieved)
	})

	t.Run("Returned sessions are copies", func(t *testing.T) {
		// Given: a stored session
		sessionRepo := repository.NewMemorySessionRepository()
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, newTestSession()))

		// When: a caller changes the board it got back without saving
		retrieved, err := sessionRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		retrieved.Game.Board[8] = entity.Crosses

		// Then: the stored board is unchanged
		again, err := sessionRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, entity.Empty, again.Game.Board[8])
	})

	t.Run("Not found", func(t *testing.T) {
		sessionRepo := repository.NewMemorySessionRepository()

		_, err := sessionRepo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)

		err = sessionRepo.DeleteByID(ctx, "missing")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		// Given: a stored session
		sessionRepo := repository.NewMemorySessionRepository()
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, newTestSession()))

		// When: it is deleted
		require.NoError(t, sessionRepo.DeleteByID(ctx, "123"))

		// Then: it can no longer be read
		_, err := sessionRepo.GetByID(ctx, "123")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Update", func(t *testing.T) {
		// Given: a stored session
		sessionRepo := repository.NewMemorySessionRepository()
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, newTestSession()))

		// When: crosses take cell 8 through Update
		updated, err := sessionRepo.Update(ctx, "123", func(session *entity.Session) error {
			session.Game.Board[8] = entity.Crosses
			return nil
		})

		// Then: the change is returned and stored
		require.NoError(t, err)
		assert.Equal(t, entity.Crosses, updated.Game.Board[8])

		stored, err := sessionRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("Update aborted", func(t *testing.T) {
		// Given: a stored session
		sessionRepo := repository.NewMemorySessionRepository()
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, newTestSession()))

		// When: the update func changes the board and then fails
		_, err := sessionRepo.Update(ctx, "123", func(session *entity.Session) error {
			session.Game.Board[8] = entity.Crosses
			return errAbort
		})

		// Then: the error is returned and nothing is written
		require.ErrorIs(t, err, errAbort)

		stored, err := sessionRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, newTestSession(), stored)
	})

	t.Run("Update unknown session", func(t *testing.T) {
		sessionRepo := repository.NewMemorySessionRepository()

		_, err := sessionRepo.Update(ctx, "missing", func(*entity.Session) error { return nil })

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Concurrent updates are not lost", func(t *testing.T) {
		// Given: a stored session
		sessionRepo := repository.NewMemorySessionRepository()
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, newTestSession()))

		// When: every cell is claimed at once
		updateEveryCell(ctx, t, sessionRepo)

		// Then: all nine writes survive
		stored, err := sessionRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		for cell, mark := range stored.Game.Board {
			assert.Equal(t, entity.Crosses, mark, "cell %d", cell)
		}
	})
}

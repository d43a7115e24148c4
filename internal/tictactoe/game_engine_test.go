package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/noughts-crosses/internal/apperror"
	"github.com/rocketscienceinc/noughts-crosses/internal/entity"
)

const (
	o = entity.Noughts
	x = entity.Crosses
	e = entity.Empty
)

func TestNewEngine(t *testing.T) {
	// When: create a new engine
	engine := NewEngine()

	// Then: the board is empty, noughts move first and nobody has won
	assert.Equal(t, entity.Board{}, engine.Snapshot().Board)
	assert.Equal(t, entity.Noughts, engine.CurrentTurn())
	assert.True(t, engine.Result().InProgress())
}

func TestEngine_PlaceMark(t *testing.T) {
	t.Run("Advances turn after a placement", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()

		// When: noughts place at cell 0
		outcome, err := engine.PlaceMark(0, o)
		require.NoError(t, err)

		// Then: the cell is taken and crosses move next
		assert.Equal(t, Outcome{Kind: OutcomeAdvanced, Mark: x}, outcome)
		assert.Equal(t, entity.Board{o, e, e, e, e, e, e, e, e}, engine.Snapshot().Board)
		assert.Equal(t, x, engine.CurrentTurn())
	})

	t.Run("Rejects a cell the player already owns", func(t *testing.T) {
		// Given: noughts own cell 4
		engine := NewEngine()
		engine.board[4] = o
		before := engine.Snapshot()

		// When: noughts place at cell 4 again
		outcome, err := engine.PlaceMark(4, o)
		require.NoError(t, err)

		// Then: the move is rejected and nothing changes
		assert.Equal(t, OutcomeRejectedAlreadyYours, outcome.Kind)
		assert.Equal(t, before, engine.Snapshot())
	})

	t.Run("Rejects a cell the opponent owns", func(t *testing.T) {
		// Given: noughts took cell 0, crosses to move
		engine := NewEngine()
		_, err := engine.PlaceMark(0, o)
		require.NoError(t, err)
		before := engine.Snapshot()

		// When: crosses place at cell 0
		outcome, err := engine.PlaceMark(0, x)
		require.NoError(t, err)

		// Then: the move is rejected and nothing changes
		assert.Equal(t, OutcomeRejectedOpponentOwns, outcome.Kind)
		assert.Equal(t, before, engine.Snapshot())
	})

	t.Run("Invalid Cell", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()

		// When: a cell index beyond the board is passed
		_, err := engine.PlaceMark(9, o)

		// Then: ErrCellOutOfRange is returned and the board is untouched
		require.ErrorIs(t, err, apperror.ErrCellOutOfRange)
		assert.Equal(t, entity.Board{}, engine.Snapshot().Board)
	})

	t.Run("Invalid Negative Cell", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()

		// When: a negative cell index is passed
		_, err := engine.PlaceMark(-1, o)

		// Then: ErrCellOutOfRange is returned
		require.ErrorIs(t, err, apperror.ErrCellOutOfRange)
	})

	t.Run("Empty mark is not a player", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()

		// When: the empty mark is placed
		_, err := engine.PlaceMark(3, e)

		// Then: ErrInvalidMark is returned
		require.ErrorIs(t, err, apperror.ErrInvalidMark)
		assert.Equal(t, entity.Board{}, engine.Snapshot().Board)
	})

	t.Run("Move After Game Won", func(t *testing.T) {
		// Given: noughts have won along the top row
		engine := playMoves(t, 0, 4, 1, 3, 2)
		require.True(t, engine.Result().IsWon())
		before := engine.Snapshot()

		// When: crosses try to keep playing, even on an invalid cell
		outcome, err := engine.PlaceMark(8, x)
		require.NoError(t, err)
		outOfRange, err := engine.PlaceMark(42, x)
		require.NoError(t, err)

		// Then: both attempts are ignored and nothing changes
		assert.Equal(t, OutcomeIgnoredGameOver, outcome.Kind)
		assert.Equal(t, OutcomeIgnoredGameOver, outOfRange.Kind)
		assert.Equal(t, before, engine.Snapshot())
		assert.Equal(t, Result{Winner: o}, engine.Result())
	})
}

func TestEngine_NoughtsWinTopRow(t *testing.T) {
	// Given: a new engine
	engine := NewEngine()

	steps := []struct {
		cell    int
		mark    entity.Mark
		outcome Outcome
	}{
		{cell: 0, mark: o, outcome: Outcome{Kind: OutcomeAdvanced, Mark: x}},
		{cell: 4, mark: x, outcome: Outcome{Kind: OutcomeAdvanced, Mark: o}},
		{cell: 1, mark: o, outcome: Outcome{Kind: OutcomeAdvanced, Mark: x}},
		{cell: 3, mark: x, outcome: Outcome{Kind: OutcomeAdvanced, Mark: o}},
		{cell: 2, mark: o, outcome: Outcome{Kind: OutcomeWin, Mark: o}},
	}

	// When: the players alternate until noughts complete [0,1,2]
	for _, step := range steps {
		outcome, err := engine.PlaceMark(step.cell, step.mark)
		require.NoError(t, err)
		require.Equal(t, step.outcome, outcome, "cell %d", step.cell)
	}

	// Then: noughts have won and the turn stays frozen on the winner
	assert.Equal(t, Result{Winner: o}, engine.Result())
	assert.Equal(t, o, engine.CurrentTurn())

	outcome, err := engine.PlaceMark(5, x)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnoredGameOver, outcome.Kind)
}

func TestEngine_TurnAlternates(t *testing.T) {
	// Given: a sequence that fills the board without a line
	cells := []int{0, 1, 2, 4, 3, 5, 7, 6, 8}
	engine := NewEngine()
	expected := entity.Noughts

	for _, cell := range cells {
		// When: the current player takes an empty cell
		require.Equal(t, expected, engine.CurrentTurn())
		outcome, err := engine.PlaceMark(cell, engine.CurrentTurn())
		require.NoError(t, err)

		// Then: the turn passes to the opponent
		require.Equal(t, OutcomeAdvanced, outcome.Kind)
		expected = expected.Opponent()
		require.Equal(t, expected, engine.CurrentTurn())
	}

	// Then: a full board without a line is still in progress
	assert.True(t, engine.Result().InProgress())
}

func TestEngine_EvaluateWin(t *testing.T) {
	t.Run("Every win line", func(t *testing.T) {
		for _, line := range WinLines {
			for _, mark := range []entity.Mark{o, x} {
				// Given: a board with only this line filled
				engine := NewEngine()
				for _, cell := range line {
					engine.board[cell] = mark
				}

				// Then: the line's mark wins
				assert.Equal(t, mark, engine.EvaluateWin(), "line %v", line)
			}
		}
	})

	t.Run("Winner X", func(t *testing.T) {
		// Given: crosses hold the left column
		engine := NewEngine()
		engine.board = entity.Board{x, o, e, x, o, e, x, e, e}

		// Then: crosses win
		assert.Equal(t, x, engine.EvaluateWin())
	})

	t.Run("Mixed line does not win", func(t *testing.T) {
		// Given: a full board without a uniform line
		engine := NewEngine()
		engine.board = entity.Board{o, x, o, o, x, x, x, o, o}

		// Then: nobody wins
		assert.Equal(t, e, engine.EvaluateWin())
	})

	t.Run("Exhaustive", func(t *testing.T) {
		marks := [3]entity.Mark{e, o, x}

		// Given: every one of the 3^9 boards
		for code := 0; code < 19683; code++ {
			var board entity.Board
			for i, rest := 0, code; i < entity.BoardSize; i, rest = i+1, rest/3 {
				board[i] = marks[rest%3]
			}

			// When: the winner is evaluated
			winner := winnerOf(board)

			// Then: it owns some complete line, or no line is complete
			if winner == e {
				require.False(t, hasLine(board, o) || hasLine(board, x), "board %v", board)
				continue
			}

			require.True(t, hasLine(board, winner), "board %v", board)
		}
	})
}

func TestEngine_Reset(t *testing.T) {
	// Given: a won game
	engine := playMoves(t, 0, 4, 1, 3, 2)
	require.True(t, engine.Result().IsWon())

	// When: the engine is reset
	engine.Reset()

	// Then: every cell is empty, noughts move and the game is in progress
	for cell := range entity.BoardSize {
		mark, err := engine.GetCell(cell)
		require.NoError(t, err)
		assert.Equal(t, e, mark)
	}
	assert.Equal(t, FirstMover, engine.CurrentTurn())
	assert.True(t, engine.Result().InProgress())
}

func TestEngine_GetCell(t *testing.T) {
	// Given: crosses hold the centre
	engine := NewEngine()
	engine.board[4] = x

	mark, err := engine.GetCell(4)
	require.NoError(t, err)
	assert.Equal(t, x, mark)

	// When: a cell past the board is queried
	_, err = engine.GetCell(9)

	// Then: ErrCellOutOfRange is returned
	require.ErrorIs(t, err, apperror.ErrCellOutOfRange)
}

func TestRestore(t *testing.T) {
	t.Run("Recomputes the result", func(t *testing.T) {
		// Given: a stored game where crosses completed the diagonal
		game := entity.Game{
			Board: entity.Board{x, o, o, e, x, e, e, e, x},
			Turn:  x,
		}

		// When: the engine is restored
		engine, err := Restore(game)
		require.NoError(t, err)

		// Then: the win is known again and further moves are ignored
		assert.Equal(t, Result{Winner: x}, engine.Result())
		outcome, err := engine.PlaceMark(3, o)
		require.NoError(t, err)
		assert.Equal(t, OutcomeIgnoredGameOver, outcome.Kind)
		assert.Equal(t, game, engine.Snapshot())
	})

	t.Run("Rejects an empty turn", func(t *testing.T) {
		// When: a game without a turn is restored
		_, err := Restore(entity.Game{})

		// Then: ErrInvalidMark is returned
		require.ErrorIs(t, err, apperror.ErrInvalidMark)
	})
}

func TestEngine_IndependentInstances(t *testing.T) {
	// Given: two engines
	first, second := NewEngine(), NewEngine()

	// When: only the first one is played
	_, err := first.PlaceMark(0, o)
	require.NoError(t, err)

	// Then: the second is untouched
	assert.Equal(t, entity.Board{}, second.Snapshot().Board)
	assert.Equal(t, o, second.CurrentTurn())
}

func playMoves(t *testing.T, cells ...int) *Engine {
	t.Helper()

	engine := NewEngine()
	for _, cell := range cells {
		_, err := engine.PlaceMark(cell, engine.CurrentTurn())
		require.NoError(t, err)
	}

	return engine
}

func hasLine(board entity.Board, mark entity.Mark) bool {
	for _, line := range WinLines {
		if board[line[0]] == mark && board[line[1]] == mark && board[line[2]] == mark {
			return true
		}
	}

	return false
}

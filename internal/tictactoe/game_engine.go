package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/noughts-crosses/internal/apperror"
	"github.com/rocketscienceinc/noughts-crosses/internal/entity"
)

// FirstMover always opens a game.
const FirstMover = entity.Noughts

// WinLines are checked in this order; the first complete line wins.
var WinLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{2, 5, 8},
	{1, 4, 7},
	{0, 4, 8},
	{6, 4, 2},
}

// Engine owns one shared board. It is not safe for concurrent use: callers
// dispatch placements and resets one at a time.
type Engine struct {
	board  entity.Board
	turn   entity.Mark
	result Result
}

func NewEngine() *Engine {
	engine := &Engine{}
	engine.Reset()

	return engine
}

// Restore rebuilds an engine from a stored game, recomputing its result.
func Restore(game entity.Game) (*Engine, error) {
	if !game.Turn.IsPlayer() {
		return nil, fmt.Errorf("%w: turn %q", apperror.ErrInvalidMark, game.Turn)
	}

	engine := &Engine{
		board: game.Board,
		turn:  game.Turn,
	}
	engine.result = Result{Winner: engine.EvaluateWin()}

	return engine, nil
}

// PlaceMark tries to put mark on cell. Rejections and moves after a win are
// reported in the Outcome; only integration mistakes return an error.
func (that *Engine) PlaceMark(cell int, mark entity.Mark) (Outcome, error) {
	if that.result.IsWon() {
		return Outcome{Kind: OutcomeIgnoredGameOver}, nil
	}

	if err := validateCell(cell); err != nil {
		return Outcome{}, err
	}

	if !mark.IsPlayer() {
		return Outcome{}, fmt.Errorf("%w: %d", apperror.ErrInvalidMark, mark)
	}

	switch occupant := that.board[cell]; occupant {
	case entity.Empty:
	case mark:
		return Outcome{Kind: OutcomeRejectedAlreadyYours}, nil
	default:
		return Outcome{Kind: OutcomeRejectedOpponentOwns}, nil
	}

	that.board[cell] = mark

	if winner := that.EvaluateWin(); winner.IsPlayer() {
		that.result = Result{Winner: winner}

		return Outcome{Kind: OutcomeWin, Mark: winner}, nil
	}

	that.turn = mark.Opponent()

	return Outcome{Kind: OutcomeAdvanced, Mark: that.turn}, nil
}

// EvaluateWin returns the mark owning a complete line, or Empty.
func (that *Engine) EvaluateWin() entity.Mark {
	return winnerOf(that.board)
}

func (that *Engine) Reset() {
	that.board = entity.Board{}
	that.turn = FirstMover
	that.result = Result{}
}

func (that *Engine) GetCell(cell int) (entity.Mark, error) {
	if err := validateCell(cell); err != nil {
		return entity.Empty, err
	}

	return that.board[cell], nil
}

func (that *Engine) CurrentTurn() entity.Mark {
	return that.turn
}

func (that *Engine) Result() Result {
	return that.result
}

// Snapshot exports the state needed to Restore this engine later.
func (that *Engine) Snapshot() entity.Game {
	return entity.Game{
		Board: that.board,
		Turn:  that.turn,
	}
}

func validateCell(cell int) error {
	if cell < 0 || cell >= entity.BoardSize {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOutOfRange, cell)
	}

	return nil
}

func winnerOf(board entity.Board) entity.Mark {
	for _, line := range WinLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != entity.Empty && a == b && b == c {
			return a
		}
	}

	return entity.Empty
}

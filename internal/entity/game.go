package entity

import (
	"fmt"

	"github.com/rocketscienceinc/noughts-crosses/internal/apperror"
)

// BoardSize is the number of cells on the board.
const BoardSize = 9

// Mark is the content of a cell: empty or one of the two player symbols.
type Mark uint8

const (
	Empty Mark = iota
	Noughts
	Crosses
)

const (
	symbolNoughts = "O"
	symbolCrosses = "X"
	symbolEmpty   = ""
)

// String returns the symbol drawn on the board.
func (that Mark) String() string {
	switch that {
	case Noughts:
		return symbolNoughts
	case Crosses:
		return symbolCrosses
	default:
		return symbolEmpty
	}
}

// Name returns the lower-case player name used in status messages.
func (that Mark) Name() string {
	switch that {
	case Noughts:
		return "noughts"
	case Crosses:
		return "crosses"
	default:
		return "nobody"
	}
}

// Opponent returns the other player's mark. Empty has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case Noughts:
		return Crosses
	case Crosses:
		return Noughts
	default:
		return Empty
	}
}

func (that Mark) IsPlayer() bool {
	return that == Noughts || that == Crosses
}

func (that Mark) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Mark) UnmarshalText(text []byte) error {
	mark, err := ParseMark(string(text))
	if err != nil {
		return err
	}

	*that = mark

	return nil
}

// ParseMark converts a board symbol back into a Mark.
func ParseMark(symbol string) (Mark, error) {
	switch symbol {
	case symbolNoughts:
		return Noughts, nil
	case symbolCrosses:
		return Crosses, nil
	case symbolEmpty:
		return Empty, nil
	default:
		return Empty, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, symbol)
	}
}

// Board holds the cells in row-major order.
type Board [BoardSize]Mark

// Game is the stored form of an engine: the board and whose move is next.
// The result is not part of it and is recomputed from the board.
type Game struct {
	Board Board `json:"board"`
	Turn  Mark  `json:"turn"`
}

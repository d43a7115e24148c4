package tictactoe

import "github.com/rocketscienceinc/noughts-crosses/internal/entity"

// OutcomeKind classifies what happened to a placement attempt.
type OutcomeKind uint8

const (
	OutcomeIgnoredGameOver OutcomeKind = iota
	OutcomeRejectedAlreadyYours
	OutcomeRejectedOpponentOwns
	OutcomeAdvanced
	OutcomeWin
)

func (that OutcomeKind) String() string {
	switch that {
	case OutcomeIgnoredGameOver:
		return "ignored_game_over"
	case OutcomeRejectedAlreadyYours:
		return "rejected_already_yours"
	case OutcomeRejectedOpponentOwns:
		return "rejected_opponent_owns"
	case OutcomeAdvanced:
		return "advanced"
	case OutcomeWin:
		return "win"
	default:
		return "unknown"
	}
}

// Outcome is the result of PlaceMark. Mark is the next turn for
// OutcomeAdvanced and the winner for OutcomeWin; Empty otherwise.
type Outcome struct {
	Kind OutcomeKind
	Mark entity.Mark
}

// Placed reports whether the attempt changed the board.
func (that Outcome) Placed() bool {
	return that.Kind == OutcomeAdvanced || that.Kind == OutcomeWin
}

// Result is the overall game status. A zero Winner means in progress.
type Result struct {
	Winner entity.Mark
}

func (that Result) IsWon() bool {
	return that.Winner.IsPlayer()
}

func (that Result) InProgress() bool {
	return !that.IsWon()
}

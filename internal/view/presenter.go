// Package view describes what a game front end has to draw. It knows the
// status texts for every outcome but nothing about how they are displayed.
package view

import (
	"fmt"

	"github.com/rocketscienceinc/noughts-crosses/internal/entity"
	"github.com/rocketscienceinc/noughts-crosses/internal/tictactoe"
)

const (
	msgAlreadyYours = "You've already selected this cell!"
	msgOpponentOwns = "Another player has already claimed this cell!"
)

// Severity tells the front end how to colour a status message.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeveritySuccess
)

func (that Severity) String() string {
	switch that {
	case SeverityWarning:
		return "warning"
	case SeveritySuccess:
		return "success"
	default:
		return "info"
	}
}

// Colour is the status line colour the browser page uses for the severity.
func (that Severity) Colour() string {
	switch that {
	case SeverityWarning:
		return "red"
	case SeveritySuccess:
		return "green"
	default:
		return "black"
	}
}

func (that Severity) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

// Presenter is implemented by every front end.
type Presenter interface {
	Render(cell int, mark entity.Mark)
	ShowMessage(text string, severity Severity)
}

// ShowOutcome draws the effect of a placement on cell.
func ShowOutcome(presenter Presenter, cell int, outcome tictactoe.Outcome, placed entity.Mark) {
	switch outcome.Kind {
	case tictactoe.OutcomeAdvanced:
		presenter.Render(cell, placed)
		presenter.ShowMessage(TurnMessage(outcome.Mark), SeverityInfo)
	case tictactoe.OutcomeWin:
		presenter.Render(cell, placed)
		presenter.ShowMessage(WinMessage(outcome.Mark), SeveritySuccess)
	case tictactoe.OutcomeRejectedAlreadyYours:
		presenter.ShowMessage(msgAlreadyYours, SeverityWarning)
	case tictactoe.OutcomeRejectedOpponentOwns:
		presenter.ShowMessage(msgOpponentOwns, SeverityWarning)
	case tictactoe.OutcomeIgnoredGameOver:
		// the board is frozen, nothing to show
	}
}

// ShowGame redraws every cell followed by the status line.
func ShowGame(presenter Presenter, engine *tictactoe.Engine) {
	game := engine.Snapshot()
	for cell, mark := range game.Board {
		presenter.Render(cell, mark)
	}

	if result := engine.Result(); result.IsWon() {
		presenter.ShowMessage(WinMessage(result.Winner), SeveritySuccess)
		return
	}

	presenter.ShowMessage(TurnMessage(engine.CurrentTurn()), SeverityInfo)
}

func TurnMessage(mark entity.Mark) string {
	return fmt.Sprintf("It's %s' turn!", mark.Name())
}

func WinMessage(mark entity.Mark) string {
	switch mark {
	case entity.Noughts:
		return "Noughts has won!"
	case entity.Crosses:
		return "Crosses has won!"
	default:
		return ""
	}
}

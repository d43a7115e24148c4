// Package terminal plays a shared board in the terminal.
//
// The model is a Presenter: the game manager draws into it while it handles
// a key press, and View renders whatever was drawn. Like every bubbletea
// model it is only touched from the program's event loop.
package terminal

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/noughts-crosses/internal/entity"
	"github.com/rocketscienceinc/noughts-crosses/internal/tictactoe"
	"github.com/rocketscienceinc/noughts-crosses/internal/view"
)

const (
	boardSide = 3
	helpText  = "1-9 or arrows+enter: play   r: restart   q: quit"
)

var (
	cellStyle   = lipgloss.NewStyle().Width(5).Align(lipgloss.Center).Border(lipgloss.NormalBorder())
	cursorStyle = cellStyle.BorderForeground(lipgloss.Color("12")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)

	severityStyles = map[view.Severity]lipgloss.Style{
		view.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "15"}),
		view.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		view.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	}
)

type gameUseCase interface {
	Connect(ctx context.Context, sessionID string, presenter view.Presenter) (string, error)
	ActivateCell(ctx context.Context, sessionID string, cell int, presenter view.Presenter) (tictactoe.Outcome, error)
	Reset(ctx context.Context, sessionID string, presenter view.Presenter) error
}

// Model is the bubbletea model for one terminal game.
type Model struct {
	ctx       context.Context
	game      gameUseCase
	sessionID string

	cells    entity.Board
	status   string
	severity view.Severity
	cursor   int
}

// NewModel starts a session and draws its board into the model.
func NewModel(ctx context.Context, game gameUseCase) (*Model, error) {
	model := &Model{
		ctx:  ctx,
		game: game,
	}

	sessionID, err := game.Connect(ctx, "", model)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	model.sessionID = sessionID

	return model, nil
}

func (that *Model) Render(cell int, mark entity.Mark) {
	that.cells[cell] = mark
}

func (that *Model) ShowMessage(text string, severity view.Severity) {
	that.status = text
	that.severity = severity
}

func (that *Model) Init() tea.Cmd {
	return nil
}

func (that *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return that, nil
	}

	switch key := keyMsg.String(); key {
	case "ctrl+c", "q", "esc":
		return that, tea.Quit
	case "up", "k":
		if that.cursor >= boardSide {
			that.cursor -= boardSide
		}
	case "down", "j":
		if that.cursor < entity.BoardSize-boardSide {
			that.cursor += boardSide
		}
	case "left", "h":
		if that.cursor%boardSide > 0 {
			that.cursor--
		}
	case "right", "l":
		if that.cursor%boardSide < boardSide-1 {
			that.cursor++
		}
	case "enter", " ":
		that.activate(that.cursor)
	case "r":
		if err := that.game.Reset(that.ctx, that.sessionID, that); err != nil {
			that.ShowMessage(err.Error(), view.SeverityWarning)
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			that.cursor = int(key[0] - '1')
			that.activate(that.cursor)
		}
	}

	return that, nil
}

func (that *Model) activate(cell int) {
	if _, err := that.game.ActivateCell(that.ctx, that.sessionID, cell, that); err != nil {
		that.ShowMessage(err.Error(), view.SeverityWarning)
	}
}

func (that *Model) View() string {
	rows := make([]string, 0, boardSide)
	for row := range boardSide {
		cells := make([]string, 0, boardSide)
		for col := range boardSide {
			index := row*boardSide + col

			style := cellStyle
			if index == that.cursor {
				style = cursorStyle
			}

			cells = append(cells, style.Render(that.cells[index].String()))
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	b.WriteString("\n\n")
	b.WriteString(severityStyles[that.severity].Render(that.status))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(helpText))
	b.WriteString("\n")

	return b.String()
}

// Run plays in the terminal until the player quits.
func Run(ctx context.Context, game gameUseCase) error {
	model, err := NewModel(ctx, game)
	if err != nil {
		return err
	}

	if _, err = tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("failed to run terminal game: %w", err)
	}

	return nil
}

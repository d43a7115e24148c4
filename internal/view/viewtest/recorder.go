// Package viewtest provides a Presenter that records what it was asked to draw.
package viewtest

import (
	"github.com/rocketscienceinc/noughts-crosses/internal/entity"
	"github.com/rocketscienceinc/noughts-crosses/internal/view"
)

type Render struct {
	Cell int
	Mark entity.Mark
}

type Message struct {
	Text     string
	Severity view.Severity
}

type Recorder struct {
	Renders  []Render
	Messages []Message
}

func (that *Recorder) Render(cell int, mark entity.Mark) {
	that.Renders = append(that.Renders, Render{Cell: cell, Mark: mark})
}

func (that *Recorder) ShowMessage(text string, severity view.Severity) {
	that.Messages = append(that.Messages, Message{Text: text, Severity: severity})
}

// LastMessage returns the most recent message, or a zero Message.
func (that *Recorder) LastMessage() Message {
	if len(that.Messages) == 0 {
		return Message{}
	}

	return that.Messages[len(that.Messages)-1]
}

func (that *Recorder) Clear() {
	that.Renders = nil
	that.Messages = nil
}

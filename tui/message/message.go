package message

import (
	"image/color"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	sbc "bellbird-files/tui/types/statusbar_column"
)

type Type int

const (
	Success Type = iota
	Error
	Prompt
	PromptError
)

var msgColours = map[Type]color.Color{
	Success:     lipgloss.NoColor{},
	Error:       lipgloss.Color("#d75a7d"),
	Prompt:      lipgloss.NoColor{},
	PromptError: lipgloss.Color("#d75a7d"),
}

func (m Type) Colour() color.Color {
	return msgColours[m]
}

// StatusBarMsg is returned by every key action and routed to the
// status bar. Cmd is batched into the program loop if set.
type StatusBarMsg struct {
	Content string
	Type    Type
	Column  sbc.Column
	Cmd     tea.Cmd
}

// ErrorMsg wraps err into a StatusBarMsg for the general column
func ErrorMsg(err error) StatusBarMsg {
	if err == nil {
		return StatusBarMsg{}
	}

	return StatusBarMsg{
		Content: err.Error(),
		Type:    Error,
		Column:  sbc.General,
	}
}

package shared

import (
	"github.com/charmbracelet/lipgloss/v2"

	"bellbird-files/tui/theme"
)

type Styles struct {
	Base,
	Indent,
	Icon,
	Toggle,
	Dir,
	Hidden,
	Marked,
	Cut,
	Selected lipgloss.Style

	IconWidth,
	ToggleWidth int
}

func FileTreeStyle() Styles {
	var s Styles
	s.IconWidth = 2
	s.ToggleWidth = 2

	s.Base = lipgloss.NewStyle().
		Foreground(lipgloss.NoColor{})

	s.Indent = s.Base.Foreground(theme.ColourBorder)

	s.Icon = lipgloss.NewStyle().
		Width(s.IconWidth)

	s.Toggle = s.Icon.
		Width(s.ToggleWidth).
		Foreground(theme.ColourBorder)

	s.Dir = s.Base.Foreground(theme.ColourDir)
	s.Hidden = s.Base.Foreground(theme.ColourDim)
	s.Marked = s.Base.Foreground(theme.ColourMarked).Bold(true)
	s.Cut = s.Base.Faint(true).Italic(true)

	s.Selected = s.Base.
		Background(theme.ColourBgSelected).
		Bold(true)
	return s
}

// InfoStyle is used for the label column of the info panel
func InfoStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.ColourDim).
		Width(10)
}

// HeaderStyle renders column titles
func HeaderStyle(focused bool) lipgloss.Style {
	colour := theme.ColourBorder
	if focused {
		colour = theme.ColourBorderFocused
	}

	return lipgloss.NewStyle().
		Foreground(colour).
		Bold(true).
		PaddingLeft(1)
}

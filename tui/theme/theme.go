package theme

import (
	"os"

	"github.com/charmbracelet/lipgloss/v2"
	bl "github.com/winder/bubblelayout"
	"golang.org/x/term"

	"bellbird-files/app/config"
)

var (
	ColourBorder        = lipgloss.Color("#424B5D")
	ColourBorderFocused = lipgloss.Color("#69c8dc")
	ColourBgSelected    = lipgloss.Color("#424B5D")
	ColourMarked        = lipgloss.Color("#b7b27b")
	ColourDir           = lipgloss.Color("#69c8dc")
	ColourDim           = lipgloss.Color("#6c7385")
	ColourFg            = lipgloss.NoColor{}
	BorderStyle         = lipgloss.RoundedBorder()
)

type Theme struct {
	NerdFonts   bool
	IndentLines bool
}

func New(conf *config.Config) Theme {
	return Theme{
		NerdFonts:   conf.NerdFonts(),
		IndentLines: conf.IndentLines(),
	}
}

// BaseColumnLayout provides the basic layout style for a column
func (t Theme) BaseColumnLayout(size bl.Size, focused bool) lipgloss.Style {
	borderColour := ColourBorder
	if focused {
		borderColour = ColourBorderFocused
	}

	return lipgloss.NewStyle().
		Border(BorderStyle).
		BorderForeground(borderColour).
		Foreground(ColourFg).
		Width(size.Width).
		Height(size.Height)
}

// Icon returns the nerd font or the plain variant of icon
func (t Theme) Icon(icon Icon) string {
	return icon.String(t.NerdFonts)
}

// TerminalSize determines the current terminal size, falling back
// to 80x24. One line is subtracted from the height for the status bar.
func TerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 80, 24
	}
	return width, height - 1
}

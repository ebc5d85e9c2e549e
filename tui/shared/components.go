package shared

import (
	"github.com/charmbracelet/bubbles/v2/viewport"
	bl "github.com/winder/bubblelayout"

	"bellbird-files/tui/mode"
	"bellbird-files/tui/theme"
)

// Component holds what every column of the layout shares
type Component struct {
	ID   bl.ID
	Size bl.Size

	// The mode the component was last updated in
	Mode mode.Mode

	Viewport viewport.Model

	// IsReady indicates if the component received its first size
	IsReady bool

	isVisible bool

	// Only focused components receive key actions
	isFocused bool

	OnFocus func()
	OnBlur  func()

	theme theme.Theme
}

func (c Component) Visible() bool {
	return c.isVisible
}

func (c *Component) Show() {
	c.isVisible = true
}

func (c *Component) Hide() {
	c.isVisible = false
}

func (c *Component) ToggleVisibility() {
	if c.isVisible {
		c.Hide()
	} else {
		c.Show()
	}
}

func (c Component) Focused() bool {
	return c.isFocused
}

func (c *Component) Focus() {
	c.isFocused = true

	if c.OnFocus != nil {
		c.OnFocus()
	}
}

func (c *Component) Blur() {
	c.isFocused = false

	if c.OnBlur != nil {
		c.OnBlur()
	}
}

func (c *Component) SetFocus(focus bool) {
	if c.Focused() == focus {
		return
	}

	if focus {
		c.Focus()
	} else {
		c.Blur()
	}
}

func (c Component) Theme() theme.Theme {
	return c.theme
}

func (c *Component) SetTheme(theme theme.Theme) {
	c.theme = theme
}

// InitViewport creates the viewport on the first size message and
// resizes it afterwards
func (c *Component) InitViewport(width, height int) {
	c.Size.Width = width
	c.Size.Height = height

	if !c.IsReady {
		c.Viewport = viewport.New()
		c.Viewport.KeyMap = viewport.KeyMap{}
		c.IsReady = true
	}

	c.RefreshSize()
}

// RefreshSize applies the layout size to the viewport minus the
// header line
func (c *Component) RefreshSize() {
	width := max(c.Size.Width, 0)
	height := max(c.Size.Height-ReservedLines, 0)

	if c.Viewport.Width() != width || c.Viewport.Height() != height {
		c.Viewport.SetWidth(width)
		c.Viewport.SetHeight(height)
	}
}

// ReservedLines is the number of lines taken by the column header
const ReservedLines = 1

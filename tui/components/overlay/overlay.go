package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"

	"bellbird-files/app/utils"
)

// Overlay draws a box on top of already rendered content
type Overlay struct {
	x  int
	y  int
	fg string
}

func (o *Overlay) SetContent(content string) {
	o.fg = content
}

func (o *Overlay) SetPosition(x int, y int) {
	o.x = x
	o.y = y
}

// Center positions the overlay horizontally centered, y lines from
// the top of a screen of the given width
func (o *Overlay) Center(width int, y int) {
	_, fgWidth := lines(o.fg)
	o.SetPosition((width-fgWidth)/2, y)
}

// Place renders the overlay on top of bg. Lines of bg left and right of
// the overlay stay visible.
func (o *Overlay) Place(bg string) string {
	fgLines, fgWidth := lines(o.fg)
	bgLines, bgWidth := lines(bg)

	if fgWidth >= bgWidth && len(fgLines) >= len(bgLines) {
		return o.fg
	}

	x := utils.Clamp(o.x, 0, bgWidth-fgWidth)
	y := utils.Clamp(o.y, 0, len(bgLines)-len(fgLines))

	var b strings.Builder
	for i, bgLine := range bgLines {
		if i > 0 {
			b.WriteByte('\n')
		}

		if i < y || i >= y+len(fgLines) {
			b.WriteString(bgLine)
			continue
		}

		pos := 0
		if x > 0 {
			left := truncate.String(bgLine, uint(x))
			pos = ansi.StringWidth(left)
			b.WriteString(left)

			if pos < x {
				b.WriteString(strings.Repeat(" ", x-pos))
				pos = x
			}
		}

		fgLine := fgLines[i-y]
		b.WriteString(fgLine)
		pos += ansi.StringWidth(fgLine)

		right := ansi.TruncateLeft(bgLine, pos, "")
		lineWidth := ansi.StringWidth(bgLine)
		if rightWidth := ansi.StringWidth(right); rightWidth < lineWidth-pos {
			b.WriteString(strings.Repeat(" ", lineWidth-rightWidth-pos))
		}

		b.WriteString(right)
	}

	return b.String()
}

// Box wraps content into a rounded border with a title.
// The border takes the foreground colour of titleStyle.
func Box(title string, content string, titleStyle lipgloss.Style) string {
	header := titleStyle.Bold(true).Render(title)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(titleStyle.GetForeground()).
		Padding(0, 1).
		Render(header + "\n\n" + content)
}

// lines splits s into lines and returns the width of the widest one
func lines(s string) ([]string, int) {
	s = strings.ReplaceAll(s, "\t", "    ")
	result := strings.Split(s, "\n")

	widest := 0
	for _, l := range result {
		widest = max(widest, ansi.StringWidth(l))
	}

	return result, widest
}

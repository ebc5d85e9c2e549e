package infopanel

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wrap"

	"bellbird-files/app/browser"
	"bellbird-files/app/config"
	"bellbird-files/app/utils"
	"bellbird-files/tui/shared"
	"bellbird-files/tui/theme"
)

// InfoPanel shows details about the entry under the cursor and the
// state of clipboard, selection and undo history
type InfoPanel struct {
	shared.Component

	browser *browser.FileBrowser
}

func New(conf *config.Config, b *browser.FileBrowser) *InfoPanel {
	p := &InfoPanel{browser: b}
	p.SetTheme(theme.New(conf))
	p.Show()
	return p
}

func (p InfoPanel) Name() string { return "InfoPanel" }

func (p *InfoPanel) Init() tea.Cmd {
	return nil
}

func (p *InfoPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		p.InitViewport(msg.Width, msg.Height)
	}
	return p, nil
}

func (p *InfoPanel) View() tea.View {
	var view tea.View
	view.SetContent(p.Content())
	return view
}

func (p *InfoPanel) Content() string {
	if !p.IsReady || !p.Visible() {
		return ""
	}

	p.RefreshSize()
	p.Viewport.SetContent(p.viewportContent())

	size := p.Size
	size.Height -= shared.ReservedLines
	p.Viewport.Style = p.Theme().BaseColumnLayout(size, false)

	var view strings.Builder
	view.WriteString(shared.HeaderStyle(false).Render("INFO"))
	view.WriteByte('\n')
	view.WriteString(p.Viewport.View())
	return view.String()
}

func (p *InfoPanel) viewportContent() string {
	width := p.Size.Width - 2
	if width <= 0 {
		return ""
	}

	var rows []string
	add := func(label, value string) {
		rows = append(rows, row(label, value, width))
	}

	if e, ok := p.browser.SelectedEntry(); ok {
		add("Name", e.Name)
		add("Type", entryType(e))

		if !e.IsDir {
			add("Size", FormatSize(e.Size))
		}

		if !e.IsParent {
			add("Path", utils.RelativePath(p.browser.Root(), e.Path))
		}

		if e.IsHidden {
			add("Hidden", "yes")
		}

		rows = append(rows, "")
	}

	add("Selected", strconv.Itoa(len(p.browser.SelectedIndices())))

	if n := len(p.browser.ClipboardPaths()); n > 0 {
		icon, op := theme.IconCopy, "copy"
		if p.browser.IsCutOperation() {
			icon, op = theme.IconCut, "cut"
		}
		add("Clipboard", fmt.Sprintf("%s %d (%s)", p.Theme().Icon(icon), n, op))
	} else {
		add("Clipboard", "empty")
	}

	undo := fmt.Sprintf("%s %d", p.Theme().Icon(theme.IconUndo), p.browser.UndoLen())
	if name, ok := p.browser.NextUndoName(); ok {
		undo += " (" + name + ")"
	}
	add("Undo", undo)

	return strings.Join(rows, "\n")
}

// row renders a label and a value that is wrapped onto the following
// lines if it doesn't fit
func row(label, value string, width int) string {
	labelStyle := shared.InfoStyle()
	valueWidth := width - labelStyle.GetWidth()

	if valueWidth <= 0 {
		return utils.TruncateText(label, width)
	}

	value = wrap.String(value, valueWidth)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		labelStyle.Render(label),
		value,
	)
}

func entryType(e browser.Entry) string {
	switch {
	case e.IsParent:
		return "parent directory"
	case e.IsDir:
		return "directory"
	}
	return "file"
}

// FormatSize returns size in human readable binary units
func FormatSize(size int64) string {
	return humanize.IBytes(uint64(max(size, 0)))
}

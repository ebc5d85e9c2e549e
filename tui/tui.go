package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	bl "github.com/winder/bubblelayout"

	"bellbird-files/app/config"
	"bellbird-files/app/debug"
	"bellbird-files/app/state"
	"bellbird-files/tui/components/filetree"
	"bellbird-files/tui/components/infopanel"
	"bellbird-files/tui/components/overlay"
	"bellbird-files/tui/components/statusbar"
	"bellbird-files/tui/keyinput"
	"bellbird-files/tui/message"
	"bellbird-files/tui/mode"
	"bellbird-files/tui/shared"
	"bellbird-files/tui/theme"
	sbc "bellbird-files/tui/types/statusbar_column"
)

// Model is the Bubble Tea model for the TUI
type Model struct {
	layout bl.BubbleLayout

	conf  *config.Config
	state *state.State

	// Current app vim-like mode
	mode     *mode.ModeInstance
	keyInput *keyinput.Input
	keyMap   keyinput.KeyMap

	fileTree  *filetree.FileTree
	infoPanel *infopanel.InfoPanel
	statusBar *statusbar.StatusBar

	help     overlay.Overlay
	showHelp bool

	// Sizes from the last layout message
	treeSize bl.Size
	infoSize bl.Size
	width    int

	// status message of opening the start directory
	startMsg message.StatusBarMsg
}

// InitialModel builds the UI and opens dir
func InitialModel(conf *config.Config, st *state.State, dir string) *Model {
	mi := &mode.ModeInstance{Current: mode.Normal}
	fileTree := filetree.New(conf, mi)

	m := &Model{
		layout:    bl.New(),
		conf:      conf,
		state:     st,
		mode:      mi,
		keyInput:  keyinput.New(),
		fileTree:  fileTree,
		infoPanel: infopanel.New(conf, fileTree.Browser),
		statusBar: statusbar.New(),
	}

	m.componentsInit()

	m.keyInput.Components = []keyinput.FocusedComponent{m.fileTree, m.statusBar}
	m.keyInput.Registry = m.ActionRegistry()
	m.statusBar.Commands = m.CmdRegistry()

	m.keyMap = keyinput.LoadKeyMap()
	if err := m.keyInput.Apply(m.keyMap); err != nil {
		debug.LogErr(err)
	}

	m.startMsg = m.fileTree.OpenDirectory(dir)
	m.statusBar.Update([]message.StatusBarMsg{m.startMsg}, nil)

	return m
}

func (m *Model) Init() tea.Cmd {
	resizeCmd := func() tea.Msg {
		width, height := theme.TerminalSize()
		return m.layout.Resize(width, height)
	}

	return tea.Batch(resizeCmd, m.startMsg.Cmd)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmds       []tea.Cmd
		statusMsgs []message.StatusBarMsg
	)

	prevMode := m.mode.Current

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}

		// any key closes the help
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		statusMsgs = m.keyInput.HandleSequences(msg.String())

		// keys only reach the inputs if they were already open, so
		// the key that opened them isn't typed
		switch prevMode {
		case mode.Insert:
			_, cmd := m.fileTree.Update(msg)
			cmds = append(cmds, cmd)
		case mode.Command:
			_, cmd := m.statusBar.Update(nil, msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.statusBar.Update(nil, msg)

		// Convert WindowSizeMsg to BubbleLayoutMsg, the last line
		// belongs to the status bar
		return m, func() tea.Msg {
			return m.layout.Resize(msg.Width, max(msg.Height-1, 1))
		}

	case bl.BubbleLayoutMsg:
		m.treeSize, _ = msg.Size(m.fileTree.ID)
		m.infoSize, _ = msg.Size(m.infoPanel.ID)
		m.applySizes()

	case shared.DirectoryChangedMsg:
		m.state.Append(state.NewEntry(state.Directory, msg.Path))

	case shared.OpenFileMsg:
		m.state.Append(state.NewEntry(state.File, msg.Path))
		debug.LogInfo("activated", msg.Path)

	case message.StatusBarMsg:
		statusMsgs = append(statusMsgs, msg)
	}

	for _, statusMsg := range statusMsgs {
		if statusMsg.Cmd != nil {
			cmds = append(cmds, statusMsg.Cmd)
		}
	}

	if m.mode.Current != prevMode {
		m.keyInput.Mode = m.mode.Current
		m.keyInput.FetchKeyMap(true)
	}

	m.statusBar.Mode = m.mode.Current
	statusMsgs = append(statusMsgs,
		m.infoMsg(),
		m.keyInfoMsg(),
	)
	m.statusBar.Update(statusMsgs, nil)

	return m, tea.Batch(cmds...)
}

// View renders the TUI layout
func (m *Model) View() tea.View {
	var view tea.View

	columns := []string{m.fileTree.Content()}
	if m.infoPanel.Visible() {
		columns = append(columns, m.infoPanel.Content())
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
		m.statusBar.View(),
	)

	if m.showHelp {
		m.help.SetContent(m.helpContent())
		m.help.Center(m.width, 2)
		content = m.help.Place(content)
	}

	view.SetContent(content)
	view.AltScreen = true
	return view
}

// componentsInit registers components in the layout
// and sets initial focus
func (m *Model) componentsInit() {
	m.fileTree.ID = m.layout.Add("grow")
	m.infoPanel.ID = m.layout.Add("width 36")

	m.fileTree.Focus()
	m.keyInput.Mode = m.mode.Current
}

// applySizes hands the layout sizes to the columns. The file tree
// takes the space of a hidden info panel.
func (m *Model) applySizes() {
	treeSize := m.treeSize
	if !m.infoPanel.Visible() {
		treeSize.Width += m.infoSize.Width
	}

	m.fileTree.Update(tea.WindowSizeMsg{Width: treeSize.Width, Height: treeSize.Height})
	m.infoPanel.Update(tea.WindowSizeMsg{Width: m.infoSize.Width, Height: m.infoSize.Height})
}

// infoMsg summarises selection and clipboard for the status bar
func (m *Model) infoMsg() message.StatusBarMsg {
	b := m.fileTree.Browser
	var parts []string

	if n := len(b.SelectedIndices()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}

	if n := len(b.ClipboardPaths()); n > 0 {
		icon := theme.IconCopy
		if b.IsCutOperation() {
			icon = theme.IconCut
		}
		parts = append(parts, m.fileTree.Theme().Icon(icon)+" "+pluralize(n, "item", "items"))
	}

	if !b.ShowHidden() {
		parts = append(parts, "hidden off")
	}

	return message.StatusBarMsg{
		Content: strings.Join(parts, "  "),
		Column:  sbc.Info,
	}
}

// keyInfoMsg shows a pending key sequence or the cursor position
func (m *Model) keyInfoMsg() message.StatusBarMsg {
	if seq := m.keyInput.KeySequence; seq != "" {
		return message.StatusBarMsg{Content: seq, Column: sbc.KeyInfo}
	}
	return m.fileTree.ContentInfo()
}

func (m *Model) helpContent() string {
	var rows []string

	for _, ak := range m.keyMap.Describe("normal") {
		keys := strings.Join(ak.Keys, ", ")
		rows = append(rows, lipgloss.NewStyle().Width(18).Render(keys)+strings.ReplaceAll(ak.Action, "_", " "))
	}

	title := lipgloss.NewStyle().Foreground(theme.ColourBorderFocused)
	return overlay.Box("Key bindings", strings.Join(rows, "\n"), title)
}

// quit writes the history and pending meta values before quitting
func (m *Model) quit() tea.Cmd {
	if err := m.state.Write(); err != nil {
		debug.LogErr(err)
	}

	if err := m.conf.Flush(); err != nil {
		debug.LogErr(err)
	}

	return tea.Quit
}

func pluralize(n int, singular, plural string) string {
	word := plural
	if n == 1 {
		word = singular
	}
	return fmt.Sprintf("%d %s", n, word)
}

package statusbar

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
	bl "github.com/winder/bubblelayout"

	"bellbird-files/tui/message"
	"bellbird-files/tui/mode"
	"bellbird-files/tui/theme"
	sbc "bellbird-files/tui/types/statusbar_column"
)

// Commands maps the name of a : command to its implementation
type Commands map[string]func(args string) message.StatusBarMsg

// StatusBar represents the bottom bar UI component that displays messages,
// input prompts, and application mode information.
type StatusBar struct {
	ID   bl.ID
	Size bl.Size

	Type   message.Type
	Prompt textinput.Model

	// Only receives key actions while a command is typed
	focused bool

	// The current mode, synced by the root model
	Mode mode.Mode

	// The content for each column
	Columns [3]string

	// Registered prompt commands
	Commands Commands
}

var commandPattern = regexp.MustCompile(`^(\S+)\s*(.*)$`)

func New() *StatusBar {
	ti := textinput.New()
	ti.Prompt = ":"
	ti.CharLimit = 255
	ti.VirtualCursor = true

	return &StatusBar{
		Prompt:   ti,
		Commands: Commands{},
	}
}

func (sb StatusBar) Name() string { return "StatusBar" }

func (sb StatusBar) Focused() bool { return sb.focused }

func (sb *StatusBar) Init() tea.Cmd {
	return nil
}

// Update applies status messages to their columns and forwards keys
// to the prompt while a command is typed
func (sb *StatusBar) Update(
	msgs []message.StatusBarMsg,
	teaMsg tea.Msg,
) (*StatusBar, tea.Cmd) {
	var cmd tea.Cmd

	for _, msg := range msgs {
		// an open prompt keeps its question until it's answered
		if sb.Mode == mode.Prompt && msg.Column == sbc.General && msg.Type != message.PromptError {
			continue
		}

		sb.Columns[msg.Column] = msg.Content

		if msg.Column == sbc.General {
			sb.Type = msg.Type
		}
	}

	switch msg := teaMsg.(type) {
	case tea.KeyMsg:
		if sb.focused && sb.Prompt.Focused() {
			sb.Prompt, cmd = sb.Prompt.Update(msg)
		}

	case tea.WindowSizeMsg:
		sb.Size.Width = msg.Width
		sb.Size.Height = 1
	}

	return sb, cmd
}

func (sb *StatusBar) View() string {
	style := style()

	colGeneral := sb.Columns[sbc.General]
	colInfo := sb.Columns[sbc.Info]
	colKeyInfo := sb.Columns[sbc.KeyInfo]

	switch sb.Mode {
	case mode.Command:
		colGeneral = strings.TrimSpace(sb.Prompt.View())
	case mode.Insert:
		colGeneral = sb.ModeView()
	}

	width := sb.Size.Width
	if width <= 0 {
		width, _ = theme.TerminalSize()
	}

	wColInfo := 40
	wColKeyInfo := 12
	wColGeneral := max(width-(wColInfo+wColKeyInfo), 1)

	// padding takes one column
	colGeneral = truncate.StringWithTail(colGeneral, uint(max(wColGeneral-2, 0)), "…")
	colInfo = truncate.StringWithTail(colInfo, uint(wColInfo-1), "…")

	return lipgloss.JoinHorizontal(lipgloss.Top,
		style.Width(wColGeneral).Foreground(sb.Type.Colour()).Render(colGeneral),
		style.Width(wColInfo).Align(lipgloss.Right).Render(colInfo),
		style.Width(wColKeyInfo).Align(lipgloss.Right).PaddingRight(1).Render(colKeyInfo),
	)
}

// ModeView returns the rendered mode string
func (sb *StatusBar) ModeView() string {
	return lipgloss.NewStyle().
		Foreground(sb.Mode.Colour()).
		Render(sb.Mode.FullString())
}

// StartCommand focuses the prompt for typing a : command
func (sb *StatusBar) StartCommand() message.StatusBarMsg {
	sb.focused = true
	sb.Prompt.SetValue("")
	sb.Type = message.Prompt

	return message.StatusBarMsg{Cmd: sb.Prompt.Focus()}
}

// ConfirmCommand executes the typed command and closes the prompt
func (sb *StatusBar) ConfirmCommand() message.StatusBarMsg {
	if !sb.Prompt.Focused() {
		sb.focused = false
		return message.StatusBarMsg{}
	}

	statusMsg := sb.execPromptFn(sb.Prompt.Value())
	sb.BlurPrompt()

	return statusMsg
}

// CancelCommand closes the prompt without executing anything
func (sb *StatusBar) CancelCommand() message.StatusBarMsg {
	sb.BlurPrompt()
	return message.StatusBarMsg{}
}

// execPromptFn parses the command line and executes the matching command
func (sb *StatusBar) execPromptFn(line string) message.StatusBarMsg {
	matches := commandPattern.FindStringSubmatch(strings.TrimSpace(line))
	if matches == nil {
		return message.StatusBarMsg{}
	}

	name, args := matches[1], matches[2]

	fn, ok := sb.Commands[name]
	if !ok {
		return message.StatusBarMsg{
			Content: fmt.Sprintf(message.StatusBar.UnknownCommand, name),
			Type:    message.Error,
			Column:  sbc.General,
		}
	}

	return fn(args)
}

func (sb *StatusBar) BlurPrompt() {
	sb.Prompt.SetValue("")
	sb.Prompt.Blur()
	sb.focused = false
	sb.Type = message.Success
}

func style() lipgloss.Style {
	return lipgloss.NewStyle().
		AlignVertical(lipgloss.Center).
		PaddingLeft(1).
		Height(1)
}

package tui

import (
	"bellbird-files/app/state"
	"bellbird-files/tui/keyinput"
	"bellbird-files/tui/message"
	"bellbird-files/tui/mode"
	sbc "bellbird-files/tui/types/statusbar_column"
)

// noOpts adapts an action without options to a keyinput.ActionFunc
func noOpts(fn func() message.StatusBarMsg) keyinput.ActionFunc {
	return func(keyinput.Options) message.StatusBarMsg {
		return fn()
	}
}

// ActionRegistry maps the action names used in keymap.json to
// their implementations
func (m *Model) ActionRegistry() keyinput.Registry {
	t := m.fileTree

	return keyinput.Registry{
		"line_down": func(opts keyinput.Options) message.StatusBarMsg {
			return t.LineDown(opts.GetInt("count", 1))
		},
		"line_up": func(opts keyinput.Options) message.StatusBarMsg {
			return t.LineUp(opts.GetInt("count", 1))
		},
		"page_down":    noOpts(t.PageDown),
		"page_up":      noOpts(t.PageUp),
		"go_to_top":    noOpts(t.GoToTop),
		"go_to_bottom": noOpts(t.GoToBottom),

		"toggle":   noOpts(t.Toggle),
		"expand":   noOpts(t.Expand),
		"collapse": noOpts(t.Collapse),
		"go_up":    noOpts(t.GoUp),

		"previous_directory": noOpts(m.previousDirectory),

		"toggle_selection": noOpts(t.ToggleSelection),
		"select_range":     noOpts(t.SelectRange),
		"clear_selection":  noOpts(t.ClearSelection),

		"copy":   noOpts(t.Copy),
		"cut":    noOpts(t.Cut),
		"paste":  noOpts(t.Paste),
		"delete": noOpts(t.ConfirmRemove),
		"undo":   noOpts(t.Undo),
		"rename": noOpts(t.Rename),

		"confirm": noOpts(t.ConfirmAction),
		"cancel":  noOpts(t.CancelAction),

		"toggle_hidden": noOpts(t.ToggleHidden),
		"refresh":       noOpts(t.Refresh),
		"toggle_info":   noOpts(m.toggleInfo),
		"toggle_help":   noOpts(m.toggleHelp),

		"command":         noOpts(m.startCommand),
		"confirm_command": noOpts(m.confirmCommand),
		"cancel_command":  noOpts(m.cancelCommand),

		"quit": func(keyinput.Options) message.StatusBarMsg {
			return message.StatusBarMsg{Cmd: m.quit()}
		},
	}
}

// previousDirectory opens the last root from the history that
// differs from the current one
func (m *Model) previousDirectory() message.StatusBarMsg {
	prev, ok := m.state.Previous(state.Directory, m.fileTree.Browser.Root())
	if !ok {
		return message.StatusBarMsg{
			Content: message.StatusBar.NoPreviousDir,
			Type:    message.Error,
			Column:  sbc.General,
		}
	}

	return m.fileTree.OpenDirectory(prev.Content())
}

func (m *Model) toggleInfo() message.StatusBarMsg {
	m.infoPanel.ToggleVisibility()
	m.applySizes()

	return message.StatusBarMsg{}
}

func (m *Model) toggleHelp() message.StatusBarMsg {
	m.showHelp = !m.showHelp
	return message.StatusBarMsg{}
}

func (m *Model) startCommand() message.StatusBarMsg {
	m.mode.Current = mode.Command
	return m.statusBar.StartCommand()
}

func (m *Model) confirmCommand() message.StatusBarMsg {
	m.mode.Current = mode.Normal
	return m.statusBar.ConfirmCommand()
}

func (m *Model) cancelCommand() message.StatusBarMsg {
	m.mode.Current = mode.Normal
	return m.statusBar.CancelCommand()
}

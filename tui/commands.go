package tui

import (
	"path/filepath"
	"strings"

	"bellbird-files/app/utils"
	"bellbird-files/tui/components/statusbar"
	"bellbird-files/tui/message"
)

// CmdRegistry returns the commands that can be typed after ":"
func (m *Model) CmdRegistry() statusbar.Commands {
	quit := func(string) message.StatusBarMsg {
		return message.StatusBarMsg{Cmd: m.quit()}
	}

	return statusbar.Commands{
		message.Response.Quit: quit,
		"quit":                quit,

		// cd opens a directory, relative paths are resolved
		// against the current root
		message.Response.ChangeDir: func(args string) message.StatusBarMsg {
			path := strings.TrimSpace(args)
			if path == "" {
				path = "~"
			}

			path = utils.ExpandHome(path)
			if !filepath.IsAbs(path) {
				path = filepath.Join(m.fileTree.Browser.Root(), path)
			}

			return m.fileTree.OpenDirectory(path)
		},

		message.Response.Refresh: func(string) message.StatusBarMsg {
			return m.fileTree.Refresh()
		},

		"hidden": func(string) message.StatusBarMsg {
			return m.fileTree.ToggleHidden()
		},

		"undo": func(string) message.StatusBarMsg {
			return m.fileTree.Undo()
		},
	}
}

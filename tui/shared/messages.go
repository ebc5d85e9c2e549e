package shared

import (
	tea "github.com/charmbracelet/bubbletea/v2"
)

type RefreshUiMsg struct{}

func SendRefreshUiMsg() tea.Cmd {
	return func() tea.Msg {
		return RefreshUiMsg{}
	}
}

// OpenFileMsg is sent when a file is activated in the tree
type OpenFileMsg struct {
	Path string
}

// DirectoryChangedMsg is sent after a new root directory was opened
type DirectoryChangedMsg struct {
	Path string
}

func SendOpenFileMsg(path string) tea.Cmd {
	return func() tea.Msg {
		return OpenFileMsg{Path: path}
	}
}

func SendDirectoryChangedMsg(path string) tea.Cmd {
	return func() tea.Msg {
		return DirectoryChangedMsg{Path: path}
	}
}

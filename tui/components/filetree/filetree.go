package filetree

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"bellbird-files/app"
	"bellbird-files/app/browser"
	"bellbird-files/app/config"
	"bellbird-files/app/debug"
	"bellbird-files/app/utils"
	"bellbird-files/app/utils/clipboard"
	"bellbird-files/tui/message"
	"bellbird-files/tui/mode"
	"bellbird-files/tui/shared"
	"bellbird-files/tui/theme"
	sbc "bellbird-files/tui/types/statusbar_column"
)

// EditState tells what ConfirmAction is going to do
type EditState int

const (
	EditStateNone EditState = iota
	EditStateRename
	EditStateDelete
)

// FileTree renders a browser.FileBrowser and maps key actions to it
type FileTree struct {
	shared.Component

	Browser *browser.FileBrowser

	conf   *config.Config
	mode   *mode.ModeInstance
	styles shared.Styles

	// The text input used for renaming
	input     textinput.Model
	editState EditState

	// Start row of a pending range selection, -1 if there is none
	anchor int

	// Set by the browser when a file is toggled
	activated string

	// The root of the last opened directory
	root string
}

// New creates a file tree without a directory, see OpenDirectory
func New(conf *config.Config, mi *mode.ModeInstance) *FileTree {
	t := &FileTree{
		conf:   conf,
		mode:   mi,
		styles: shared.FileTreeStyle(),
		anchor: -1,
	}

	t.Browser = browser.New(browser.Options{
		ShowHidden:  conf.ShowHidden(),
		ParentEntry: conf.ParentEntry(),
		PageSize:    conf.PageSize(),
		UndoLimit:   conf.UndoLimit(),
		OnActivate: func(path string) {
			t.activated = path
		},
	})

	t.SetTheme(theme.New(conf))
	t.input = t.renameInput()
	t.Show()

	return t
}

func (t FileTree) Name() string { return "FileTree" }

func (t *FileTree) Init() tea.Cmd {
	return nil
}

func (t *FileTree) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if t.input.Focused() {
			t.input, cmd = t.input.Update(msg)
			return t, cmd
		}

	case tea.WindowSizeMsg:
		t.InitViewport(msg.Width, msg.Height)
	}

	return t, cmd
}

func (t *FileTree) View() tea.View {
	var view tea.View
	view.SetContent(t.Content())
	return view
}

// renameInput returns a textinput model tailored to the file tree
func (t *FileTree) renameInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = t.Theme().Icon(theme.IconPen) + " "
	ti.CharLimit = 255
	ti.VirtualCursor = true

	bgSelected := t.styles.Selected
	ti.Styles.Focused = textinput.StyleState{
		Text:   bgSelected,
		Prompt: bgSelected,
	}

	return ti
}

// EditState returns what the next confirmation is going to do
func (t *FileTree) EditState() EditState {
	return t.editState
}

// InputValue returns the text typed into the rename input
func (t *FileTree) InputValue() string {
	return t.input.Value()
}

func (t *FileTree) Content() string {
	if !t.IsReady {
		return "\n  Initializing..."
	}

	if !t.Visible() {
		return ""
	}

	t.RefreshSize()
	t.Viewport.SetContent(t.viewportContent())
	t.Viewport.EnsureVisible(t.Browser.SelectedIndex(), 0, 0)

	size := t.Size
	size.Height -= shared.ReservedLines
	t.Viewport.Style = t.Theme().BaseColumnLayout(size, t.Focused())

	var view strings.Builder
	view.WriteString(t.header(t.Size.Width))
	view.WriteByte('\n')
	view.WriteString(t.Viewport.View())
	return view.String()
}

// header renders the root directory, cut from the left if it's too long
func (t *FileTree) header(width int) string {
	root := displayPath(t.Browser.Root())
	avail := width - 2

	if w := ansi.StringWidth(root); w > avail && avail > 0 {
		root = ansi.TruncateLeft(root, w-avail+1, "…")
	}

	return shared.HeaderStyle(t.Focused()).Render(root)
}

func (t *FileTree) viewportContent() string {
	var rows strings.Builder

	// the border takes one column on each side
	width := t.Size.Width - 2
	cursor := t.Browser.SelectedIndex()

	for i, e := range t.Browser.Entries() {
		if app.CliArgs.Debug {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color("#999"))
			rows.WriteString(style.Render(fmt.Sprintf("%02d ", i)))
		}

		rows.WriteString(t.renderRow(e, i == cursor, width))
		rows.WriteByte('\n')
	}

	return rows.String()
}

// renderRow builds indentation, toggle arrow, icon and name of a row
func (t *FileTree) renderRow(e browser.Entry, isCursor bool, width int) string {
	if width <= 0 {
		return ""
	}

	th := t.Theme()
	s := t.styles
	w := width

	indentStr := "  "
	if th.IndentLines {
		indentStr = "│ "
	}

	indent := strings.Repeat(indentStr, e.Depth)
	indentStyle := s.Indent
	if isCursor {
		indentStyle = indentStyle.Background(theme.ColourBgSelected)
	}
	w -= lipgloss.Width(indent)

	toggle := ""
	if e.IsDir && !e.IsParent {
		toggle = theme.IconDirClosed.Alt
		if e.Expanded {
			toggle = theme.IconDirOpen.Alt
		}
	}

	toggleStyle := s.Toggle
	if isCursor {
		toggleStyle = s.Selected.Width(s.ToggleWidth)
	}
	w -= s.ToggleWidth

	parts := []string{
		indentStyle.Render(indent),
		toggleStyle.Render(toggle),
	}

	if th.NerdFonts {
		iconStyle := s.Icon
		if e.IsDir {
			iconStyle = iconStyle.Foreground(theme.ColourDir)
		}
		if isCursor {
			iconStyle = iconStyle.Background(theme.ColourBgSelected)
		}

		parts = append(parts, iconStyle.Render(entryIcon(e).Nerd))
		w -= s.IconWidth
	}

	if isCursor && t.editState == EditStateRename {
		t.input.SetWidth(max(w-2, 1))
		parts = append(parts, t.input.View())
	} else {
		parts = append(parts, t.renderName(e, isCursor, w))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Center, parts...)
	return ansi.Truncate(row, width, "")
}

func (t *FileTree) renderName(e browser.Entry, isCursor bool, width int) string {
	if width <= 0 {
		return ""
	}

	s := t.styles
	style := s.Base

	switch {
	case e.Cut:
		style = s.Cut
	case e.Selected:
		style = s.Marked
	case e.IsDir:
		style = s.Dir
	case e.IsHidden:
		style = s.Hidden
	}

	if isCursor {
		style = style.Background(theme.ColourBgSelected).Bold(true)
	}

	name := e.Name
	if e.Selected {
		name = t.Theme().Icon(theme.IconMarked) + " " + name
	}

	return style.Width(width).Render(utils.TruncateText(name, width-1))
}

func entryIcon(e browser.Entry) theme.Icon {
	switch {
	case e.IsParent:
		return theme.IconParent
	case e.IsDir && e.Expanded:
		return theme.IconDirOpen
	case e.IsDir:
		return theme.IconDirClosed
	}
	return theme.IconFile
}

// displayPath replaces the home directory with ~
func displayPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" || !utils.IsWithin(home, path) {
		return path
	}

	return "~" + strings.TrimPrefix(path, home)
}

func (t *FileTree) errorMsg() message.StatusBarMsg {
	err := t.Browser.Err()
	if err != nil {
		debug.LogDebug(err)
	}
	return message.ErrorMsg(err)
}

func successMsg(format string, args ...any) message.StatusBarMsg {
	return statusMsg(fmt.Sprintf(format, args...))
}

func statusMsg(content string) message.StatusBarMsg {
	return message.StatusBarMsg{
		Content: content,
		Type:    message.Success,
		Column:  sbc.General,
	}
}

///
/// directories
///

// OpenDirectory makes path the new root and restores the directories
// that were expanded below it the last time
func (t *FileTree) OpenDirectory(path string) message.StatusBarMsg {
	if !t.Browser.OpenDirectory(path) {
		return t.errorMsg()
	}

	return t.afterOpen()
}

func (t *FileTree) afterOpen() message.StatusBarMsg {
	root := t.Browser.Root()

	// deleted entries of another directory are not restorable from here
	if t.root != "" && t.root != root {
		t.Browser.ClearUndoStack()
	}
	t.root = root

	t.Browser.ExpandPaths(t.conf.ExpandedUnder(root))
	t.conf.SetMetaValue("", config.LastDirectory, root)
	t.anchor = -1

	return message.StatusBarMsg{
		Cmd: shared.SendDirectoryChangedMsg(root),
	}
}

// GoUp opens the parent directory and puts the cursor on the old root
func (t *FileTree) GoUp() message.StatusBarMsg {
	oldRoot := t.Browser.Root()

	if !t.Browser.GoUp() {
		return t.errorMsg()
	}

	msg := t.afterOpen()
	t.Browser.SelectPath(oldRoot)

	return msg
}

// Toggle expands or collapses a directory, activates a file or opens
// the parent directory on the ".." row
func (t *FileTree) Toggle() message.StatusBarMsg {
	oldRoot := t.Browser.Root()
	t.activated = ""

	if !t.Browser.ToggleSelected() {
		return t.errorMsg()
	}

	if t.Browser.Root() != oldRoot {
		msg := t.afterOpen()
		t.Browser.SelectPath(oldRoot)
		return msg
	}

	if t.activated != "" {
		path := t.activated
		t.activated = ""

		return message.StatusBarMsg{
			Content: utils.RelativePath(t.Browser.Root(), path),
			Column:  sbc.General,
			Cmd:     shared.SendOpenFileMsg(path),
		}
	}

	t.saveExpanded()
	return message.StatusBarMsg{}
}

func (t *FileTree) Expand() message.StatusBarMsg {
	if !t.Browser.Expand() {
		return t.errorMsg()
	}

	t.saveExpanded()
	return message.StatusBarMsg{}
}

func (t *FileTree) Collapse() message.StatusBarMsg {
	if !t.Browser.Collapse() {
		return t.errorMsg()
	}

	t.saveExpanded()
	return message.StatusBarMsg{}
}

// saveExpanded writes the expanded state of the directory under the
// cursor to the meta file
func (t *FileTree) saveExpanded() {
	e, ok := t.Browser.SelectedEntry()
	if !ok || !e.IsDir || e.IsParent {
		return
	}

	t.conf.SetMetaValue(e.Path, config.Expanded, strconv.FormatBool(e.Expanded))
}

///
/// navigation
///

func (t *FileTree) LineDown(count int) message.StatusBarMsg {
	for range max(count, 1) {
		t.Browser.Next()
	}
	return message.StatusBarMsg{}
}

func (t *FileTree) LineUp(count int) message.StatusBarMsg {
	for range max(count, 1) {
		t.Browser.Previous()
	}
	return message.StatusBarMsg{}
}

func (t *FileTree) PageDown() message.StatusBarMsg {
	t.Browser.PageDown()
	return message.StatusBarMsg{}
}

func (t *FileTree) PageUp() message.StatusBarMsg {
	t.Browser.PageUp()
	return message.StatusBarMsg{}
}

func (t *FileTree) GoToTop() message.StatusBarMsg {
	t.Browser.First()
	return message.StatusBarMsg{}
}

func (t *FileTree) GoToBottom() message.StatusBarMsg {
	t.Browser.Last()
	return message.StatusBarMsg{}
}

///
/// multi-selection
///

// ToggleSelection marks or unmarks the row under the cursor and moves
// on to the next row
func (t *FileTree) ToggleSelection() message.StatusBarMsg {
	if !t.Browser.ToggleSelection(t.Browser.SelectedIndex()) {
		return t.errorMsg()
	}

	t.Browser.Next()
	return message.StatusBarMsg{}
}

// SelectRange remembers the cursor as start of a range on the first
// call and selects everything up to the cursor on the second
func (t *FileTree) SelectRange() message.StatusBarMsg {
	if t.anchor < 0 {
		t.anchor = t.Browser.SelectedIndex()
		return successMsg("Range starts at row %d", t.anchor+1)
	}

	from := t.anchor
	t.anchor = -1

	if !t.Browser.SelectRange(from, t.Browser.SelectedIndex()) {
		return t.errorMsg()
	}

	return successMsg("%d selected", len(t.Browser.SelectedIndices()))
}

func (t *FileTree) ClearSelection() message.StatusBarMsg {
	t.Browser.ClearSelection()
	t.anchor = -1
	return message.StatusBarMsg{}
}

///
/// clipboard
///

func (t *FileTree) Copy() message.StatusBarMsg {
	if !t.Browser.CopySelected() {
		return t.errorMsg()
	}

	paths := t.Browser.ClipboardPaths()
	t.mirrorClipboard(paths)
	t.Browser.ClearSelection()

	return successMsg(message.StatusBar.Copied, len(paths))
}

func (t *FileTree) Cut() message.StatusBarMsg {
	if !t.Browser.CutSelected() {
		return t.errorMsg()
	}

	paths := t.Browser.ClipboardPaths()
	t.mirrorClipboard(paths)
	t.Browser.ClearSelection()

	return successMsg(message.StatusBar.Cut, len(paths))
}

// mirrorClipboard puts the yanked paths into the system clipboard
func (t *FileTree) mirrorClipboard(paths []string) {
	if !clipboard.Ready() {
		return
	}

	if err := clipboard.WritePaths(paths); err != nil {
		debug.LogErr(err)
	}
}

// Paste pastes the clipboard into the directory under the cursor, the
// directory of the file under the cursor or the root
func (t *FileTree) Paste() message.StatusBarMsg {
	if !t.Browser.HasClipboardFiles() {
		return message.StatusBarMsg{
			Content: message.StatusBar.NothingToPaste,
			Type:    message.Error,
			Column:  sbc.General,
		}
	}

	target := t.Browser.PasteTarget()
	results := t.Browser.Paste(target)

	if target != t.Browser.Root() {
		t.conf.SetMetaValue(target, config.Expanded, "true")
	}

	if failed := results.Failed(); len(failed) > 0 {
		return message.StatusBarMsg{
			Content: fmt.Sprintf(message.StatusBar.PasteFailed, len(failed), len(results), failed.Err()),
			Type:    message.Error,
			Column:  sbc.General,
		}
	}

	return successMsg(
		message.StatusBar.Pasted,
		len(results),
		utils.RelativePath(t.Browser.Root(), target),
	)
}

///
/// rename, delete and undo
///

// Rename switches to insert mode with the name under the cursor in the
// input
func (t *FileTree) Rename() message.StatusBarMsg {
	e, ok := t.Browser.SelectedEntry()
	if !ok || e.IsParent {
		return message.StatusBarMsg{}
	}

	t.mode.Current = mode.Insert
	t.editState = EditStateRename
	t.input.SetValue(e.Name)
	t.input.CursorEnd()

	return message.StatusBarMsg{Cmd: t.input.Focus()}
}

// ConfirmRemove asks for confirmation before deleting the entry under
// the cursor. Deletes immediately if confirmation is turned off.
func (t *FileTree) ConfirmRemove() message.StatusBarMsg {
	e, ok := t.Browser.SelectedEntry()
	if !ok || e.IsParent {
		return message.StatusBarMsg{}
	}

	if !t.conf.ConfirmDelete() {
		return t.Remove()
	}

	t.mode.Current = mode.Prompt
	t.editState = EditStateDelete

	prompt := message.StatusBar.RemovePrompt
	if e.IsDir {
		prompt = message.StatusBar.RemovePromptDirContent
	}

	return message.StatusBarMsg{
		Content: fmt.Sprintf(prompt, utils.RelativePath(t.Browser.Root(), e.Path)),
		Type:    message.PromptError,
		Column:  sbc.General,
	}
}

// Remove deletes the entry under the cursor
func (t *FileTree) Remove() message.StatusBarMsg {
	e, _ := t.Browser.SelectedEntry()

	if !t.Browser.DeleteSelected() {
		return t.errorMsg()
	}

	return successMsg(message.StatusBar.Deleted, e.Name)
}

// Undo restores the most recently deleted entry
func (t *FileTree) Undo() message.StatusBarMsg {
	name, ok := t.Browser.NextUndoName()
	if !ok {
		return statusMsg(message.StatusBar.NothingToUndo)
	}

	if !t.Browser.UndoDelete() {
		return t.errorMsg()
	}

	return successMsg(message.StatusBar.Restored, name)
}

// ConfirmAction finishes a rename or a pending delete.
// A failed rename keeps the input open.
func (t *FileTree) ConfirmAction() message.StatusBarMsg {
	switch t.editState {
	case EditStateRename:
		e, ok := t.Browser.SelectedEntry()
		if !ok {
			return t.CancelAction()
		}

		name := strings.TrimSpace(t.input.Value())
		if name == e.Name {
			return t.CancelAction()
		}

		if !t.Browser.Rename(name) {
			return t.errorMsg()
		}

		newPath := filepath.Join(filepath.Dir(e.Path), name)
		if err := t.conf.RenameMetaSection(e.Path, newPath); err != nil {
			debug.LogErr(err)
		}

		t.CancelAction()
		return successMsg(message.StatusBar.Renamed, name)

	case EditStateDelete:
		t.CancelAction()
		return t.Remove()
	}

	return message.StatusBarMsg{}
}

// CancelAction leaves insert or prompt mode without changes
func (t *FileTree) CancelAction() message.StatusBarMsg {
	t.editState = EditStateNone
	t.input.Blur()
	t.input.SetValue("")
	t.mode.Current = mode.Normal

	return message.StatusBarMsg{Column: sbc.General}
}

///
/// view options
///

func (t *FileTree) ToggleHidden() message.StatusBarMsg {
	show := !t.Browser.ShowHidden()

	if !t.Browser.SetShowHidden(show) {
		return t.errorMsg()
	}

	if show {
		return statusMsg(message.StatusBar.HiddenShown)
	}
	return statusMsg(message.StatusBar.HiddenHidden)
}

func (t *FileTree) Refresh() message.StatusBarMsg {
	if !t.Browser.Refresh() {
		return t.errorMsg()
	}

	return statusMsg(message.StatusBar.Refreshed)
}

// ContentInfo returns the cursor position for the status bar
func (t *FileTree) ContentInfo() message.StatusBarMsg {
	content := ""
	if n := t.Browser.Len(); n > 0 {
		content = strconv.Itoa(t.Browser.SelectedIndex()+1) + "/" + strconv.Itoa(n)
	}

	return message.StatusBarMsg{
		Content: content,
		Column:  sbc.KeyInfo,
	}
}

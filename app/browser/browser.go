// Package browser projects a tree.Tree onto a flat, indexable list and
// keeps a cursor, a multi-selection, a clipboard and a delete history on
// top of it.
//
// Every structural change rebuilds the flat list from scratch. The
// cursor is clamped after each rebuild and the multi-selection, which is
// keyed by node handle, drops entries that are no longer visible.
//
// Public operations never panic and report failure through their bool
// result. The reason of the last failure is available through Err.
package browser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"bellbird-files/app/debug"
	"bellbird-files/app/filesystem"
	"bellbird-files/app/tree"
	"bellbird-files/app/undo"
	"bellbird-files/app/utils"
)

// DefaultPageSize is the number of rows PageUp and PageDown move by
const DefaultPageSize = 10

type Options struct {
	ShowHidden bool

	// Prepend a ".." row that opens the parent directory
	ParentEntry bool

	PageSize  int
	UndoLimit int

	// Called with the path of a file that is toggled
	OnActivate func(path string)
}

// Entry is a read-only view of a single row
type Entry struct {
	Name     string
	Path     string
	IsDir    bool
	IsHidden bool
	Depth    int
	Expanded bool
	Size     int64

	// Part of the multi-selection
	Selected bool

	// Part of a cut clipboard
	Cut bool

	// The synthetic ".." row
	IsParent bool
}

type FileBrowser struct {
	opts Options
	tree *tree.Tree

	// Visible nodes in render order. tree.Nil marks the parent row.
	flat      []tree.Handle
	hasParent bool

	selectedIndex int
	selection     map[tree.Handle]struct{}

	clipboard clipboard
	history   *undo.Stack

	err error
}

// New creates a browser without a directory, use OpenDirectory to load one
func New(opts Options) *FileBrowser {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	return &FileBrowser{
		opts:      opts,
		selection: make(map[tree.Handle]struct{}),
		history:   undo.NewStack(opts.UndoLimit),
	}
}

// OpenDirectory replaces the current tree with the top level of path
// and moves the cursor to the first row.
// Nothing changes if path is missing, not a directory or unreadable.
func (b *FileBrowser) OpenDirectory(path string) bool {
	t, err := tree.New(path, b.opts.ShowHidden)
	if err != nil {
		var pathErr *tree.PathError
		if !errors.As(err, &pathErr) {
			err = &IOError{Op: "open", Path: path, Err: err}
		}
		return b.fail(err)
	}

	b.tree = t
	b.selection = make(map[tree.Handle]struct{})
	b.selectedIndex = 0
	b.rebuild()

	debug.LogInfo("opened", t.Root())
	return b.succeed()
}

// Refresh re-lists all loaded directories and keeps the cursor on the
// same entry if it still exists
func (b *FileBrowser) Refresh() bool {
	if b.tree == nil {
		return b.fail(&StateError{Op: "refresh", Reason: "no directory open"})
	}

	h := b.cursorHandle()
	err := b.reload()
	b.selectHandle(h)

	if err != nil {
		return b.fail(err)
	}
	return b.succeed()
}

// SetShowHidden changes whether dot files are listed and refreshes the
// tree
func (b *FileBrowser) SetShowHidden(show bool) bool {
	b.opts.ShowHidden = show

	if b.tree == nil {
		return b.succeed()
	}

	h := b.cursorHandle()
	err := b.tree.SetShowHidden(show)
	b.rebuild()
	b.selectHandle(h)

	if err != nil {
		return b.fail(&IOError{Op: "refresh", Path: b.tree.Root(), Err: err})
	}
	return b.succeed()
}

func (b *FileBrowser) ShowHidden() bool { return b.opts.ShowHidden }

// Root returns the canonical path of the open directory
func (b *FileBrowser) Root() string {
	if b.tree == nil {
		return ""
	}
	return b.tree.Root()
}

// Err returns the reason of the last failed operation, nil if the last
// operation succeeded
func (b *FileBrowser) Err() error { return b.err }

func (b *FileBrowser) Len() int { return len(b.flat) }

func (b *FileBrowser) SelectedIndex() int { return b.selectedIndex }

// Entries returns all visible rows in render order
func (b *FileBrowser) Entries() []Entry {
	entries := make([]Entry, 0, len(b.flat))
	for i := range b.flat {
		entries = append(entries, b.entry(i))
	}
	return entries
}

// Entry returns the row at index i
func (b *FileBrowser) Entry(i int) (Entry, bool) {
	if !b.validIndex(i) {
		return Entry{}, false
	}
	return b.entry(i), true
}

// SelectedEntry returns the row under the cursor
func (b *FileBrowser) SelectedEntry() (Entry, bool) {
	return b.Entry(b.selectedIndex)
}

///
/// navigation
///

func (b *FileBrowser) Next() {
	if b.selectedIndex < len(b.flat)-1 {
		b.selectedIndex++
	}
}

func (b *FileBrowser) Previous() {
	if b.selectedIndex > 0 {
		b.selectedIndex--
	}
}

func (b *FileBrowser) First() {
	b.selectedIndex = 0
}

func (b *FileBrowser) Last() {
	b.selectedIndex = max(0, len(b.flat)-1)
}

func (b *FileBrowser) PageUp() {
	b.selectedIndex = max(0, b.selectedIndex-b.opts.PageSize)
}

func (b *FileBrowser) PageDown() {
	b.selectedIndex = utils.Clamp(
		b.selectedIndex+b.opts.PageSize,
		0,
		len(b.flat)-1,
	)
}

// Select moves the cursor to row i
func (b *FileBrowser) Select(i int) bool {
	if !b.validIndex(i) {
		return b.fail(&StateError{Op: "select", Reason: "index out of range"})
	}

	b.selectedIndex = i
	return b.succeed()
}

func (b *FileBrowser) PageSize() int { return b.opts.PageSize }

func (b *FileBrowser) SetPageSize(size int) {
	if size > 0 {
		b.opts.PageSize = size
	}
}

// ToggleSelected expands or collapses the directory under the cursor.
// A file is handed to OnActivate, the parent row opens the parent
// directory.
func (b *FileBrowser) ToggleSelected() bool {
	if b.isParentRow(b.selectedIndex) {
		return b.GoUp()
	}

	h, node, ok := b.cursorNode("toggle")
	if !ok {
		return false
	}

	if !node.IsDir {
		if b.opts.OnActivate != nil {
			b.opts.OnActivate(node.Path)
		}
		return b.succeed()
	}

	b.tree.Toggle(h)
	b.rebuild()
	b.selectHandle(h)

	return b.succeed()
}

// Expand expands the directory under the cursor
func (b *FileBrowser) Expand() bool {
	h, node, ok := b.cursorNode("expand")
	if !ok {
		return false
	}

	if !node.IsDir {
		return b.fail(&StateError{Op: "expand", Reason: node.Name + " is not a directory"})
	}

	if !node.Expanded {
		b.tree.Expand(h)
		b.rebuild()
		b.selectHandle(h)
	}

	return b.succeed()
}

// Collapse collapses the directory under the cursor. On a file or an
// already collapsed directory the cursor moves to the parent directory.
func (b *FileBrowser) Collapse() bool {
	h, node, ok := b.cursorNode("collapse")
	if !ok {
		return false
	}

	if node.IsDir && node.Expanded {
		b.tree.Collapse(h)
		b.rebuild()
		b.selectHandle(h)
		return b.succeed()
	}

	if parent, _ := b.tree.Parent(h); !parent.IsNil() {
		b.selectHandle(parent)
	}

	return b.succeed()
}

// GoUp opens the parent of the current root
func (b *FileBrowser) GoUp() bool {
	if b.tree == nil {
		return b.fail(&StateError{Op: "go up", Reason: "no directory open"})
	}

	root := b.tree.Root()
	parent := filepath.Dir(root)

	if parent == root {
		return b.fail(&StateError{Op: "go up", Reason: "already at the filesystem root"})
	}

	return b.OpenDirectory(parent)
}

// ExpandPaths expands the given directories and their ancestors.
// Paths outside of the root are ignored.
func (b *FileBrowser) ExpandPaths(paths []string) {
	if b.tree == nil {
		return
	}

	h := b.cursorHandle()
	for _, path := range paths {
		if !b.tree.ExpandPath(path) {
			debug.LogDebug("can't expand", path)
		}
	}
	b.rebuild()
	b.selectHandle(h)
}

// ExpandedPaths returns the paths of all expanded directories
func (b *FileBrowser) ExpandedPaths() []string {
	if b.tree == nil {
		return nil
	}
	return b.tree.ExpandedPaths()
}

// SelectPath moves the cursor onto the visible row with the given path
func (b *FileBrowser) SelectPath(path string) bool {
	if b.tree == nil {
		return false
	}

	h, ok := b.tree.Find(path)
	return ok && b.selectHandle(h)
}

///
/// multi-selection
///

// ToggleSelection adds or removes row i from the multi-selection
func (b *FileBrowser) ToggleSelection(i int) bool {
	if !b.validIndex(i) {
		return b.fail(&StateError{Op: "select", Reason: "index out of range"})
	}

	if b.isParentRow(i) {
		return b.fail(&StateError{Op: "select", Reason: "the parent entry can't be selected"})
	}

	h := b.flat[i]
	if _, ok := b.selection[h]; ok {
		delete(b.selection, h)
	} else {
		b.selection[h] = struct{}{}
	}

	return b.succeed()
}

// SelectRange adds every row between a and b to the multi-selection.
// Both ends are clamped into the list.
func (b *FileBrowser) SelectRange(from int, to int) bool {
	if len(b.flat) == 0 {
		return b.fail(&StateError{Op: "select", Reason: "nothing to select"})
	}

	last := len(b.flat) - 1
	from = utils.Clamp(from, 0, last)
	to = utils.Clamp(to, 0, last)

	if from > to {
		from, to = to, from
	}

	for i := from; i <= to; i++ {
		if !b.isParentRow(i) {
			b.selection[b.flat[i]] = struct{}{}
		}
	}

	return b.succeed()
}

func (b *FileBrowser) ClearSelection() {
	clear(b.selection)
}

func (b *FileBrowser) IsSelected(i int) bool {
	if !b.validIndex(i) || b.isParentRow(i) {
		return false
	}

	_, ok := b.selection[b.flat[i]]
	return ok
}

// SelectedIndices returns the rows of the multi-selection in ascending
// order
func (b *FileBrowser) SelectedIndices() []int {
	var indices []int
	for i, h := range b.flat {
		if _, ok := b.selection[h]; ok && !b.isParentRow(i) {
			indices = append(indices, i)
		}
	}
	return indices
}

///
/// rename, delete, undo
///

// Rename renames the entry under the cursor within its directory
func (b *FileBrowser) Rename(newName string) bool {
	_, node, ok := b.cursorNode("rename")
	if !ok {
		return false
	}

	if err := validName(newName); err != nil {
		return b.fail(&StateError{Op: "rename", Reason: err.Error()})
	}

	newPath := filepath.Join(filepath.Dir(node.Path), newName)
	if err := filesystem.Rename(node.Path, newPath); err != nil {
		return b.fail(&IOError{Op: "rename", Path: node.Path, Err: err})
	}

	err := b.reload()
	b.SelectPath(newPath)

	if err != nil {
		return b.fail(err)
	}
	return b.succeed()
}

// DeleteSelected removes the entry under the cursor from disk and
// records its structure so it can be restored by UndoDelete
func (b *FileBrowser) DeleteSelected() bool {
	h, _, ok := b.cursorNode("delete")
	if !ok {
		return false
	}

	// loads the node if needed, the flat list is rebuilt below anyway
	snap, _ := b.tree.Snapshot(h)
	rec := undo.NewRecord(snap)

	if err := filesystem.Delete(rec.Path); err != nil {
		return b.fail(&IOError{Op: "delete", Path: rec.Path, Err: err})
	}

	b.history.Push(rec)
	debug.LogInfo("deleted", rec.Path)

	// the cursor stays on the same row, rebuild clamps it
	if err := b.reload(); err != nil {
		return b.fail(err)
	}
	return b.succeed()
}

// UndoDelete restores the structure of the most recently deleted entry.
// The record is dropped even if restoring fails.
func (b *FileBrowser) UndoDelete() bool {
	rec, ok := b.history.Pop()
	if !ok {
		return b.fail(&StateError{Op: "undo", Reason: "nothing to undo"})
	}

	_, restoreErr := undo.Restore(rec)

	var err error
	if b.tree != nil {
		err = b.reload()
		b.SelectPath(rec.Path)
	}

	if restoreErr != nil {
		return b.fail(&IOError{Op: "undo", Path: rec.Path, Err: restoreErr})
	}

	if err != nil {
		return b.fail(err)
	}

	debug.LogInfo("restored", rec.Path)
	return b.succeed()
}

func (b *FileBrowser) CanUndoDelete() bool { return b.history.CanUndo() }

func (b *FileBrowser) UndoLen() int { return b.history.Len() }

// NextUndoName returns the name of the entry UndoDelete would restore
func (b *FileBrowser) NextUndoName() (string, bool) {
	rec, ok := b.history.Peek()
	return rec.Name, ok
}

func (b *FileBrowser) ClearUndoStack() { b.history.Clear() }

///
/// internals
///

// rebuild flattens the tree, prunes the multi-selection and clamps the
// cursor
func (b *FileBrowser) rebuild() {
	b.flat = b.flat[:0]
	b.hasParent = false

	if b.tree == nil {
		b.selectedIndex = 0
		return
	}

	root := b.tree.Root()
	if b.opts.ParentEntry && filepath.Dir(root) != root {
		b.flat = append(b.flat, tree.Nil)
		b.hasParent = true
	}

	b.flat = append(b.flat, b.tree.Flatten()...)

	visible := make(map[tree.Handle]struct{}, len(b.flat))
	for _, h := range b.flat {
		visible[h] = struct{}{}
	}

	for h := range b.selection {
		if _, ok := visible[h]; !ok || h.IsNil() {
			delete(b.selection, h)
		}
	}

	b.selectedIndex = utils.Clamp(b.selectedIndex, 0, len(b.flat)-1)
}

// reload refreshes the tree and rebuilds the flat list
func (b *FileBrowser) reload() error {
	err := b.tree.Refresh()
	b.rebuild()

	if err != nil {
		return &IOError{Op: "refresh", Path: b.tree.Root(), Err: err}
	}
	return nil
}

func (b *FileBrowser) entry(i int) Entry {
	if b.isParentRow(i) {
		return Entry{
			Name:     "..",
			Path:     filepath.Dir(b.tree.Root()),
			IsDir:    true,
			IsParent: true,
		}
	}

	h := b.flat[i]
	node, _ := b.tree.Node(h)
	_, selected := b.selection[h]

	return Entry{
		Name:     node.Name,
		Path:     node.Path,
		IsDir:    node.IsDir,
		IsHidden: node.IsHidden,
		Depth:    node.Depth,
		Expanded: node.Expanded,
		Size:     node.Size,
		Selected: selected,
		Cut:      b.clipboard.cut && b.clipboard.contains(node.Path),
	}
}

func (b *FileBrowser) validIndex(i int) bool {
	return i >= 0 && i < len(b.flat)
}

func (b *FileBrowser) isParentRow(i int) bool {
	return b.hasParent && i == 0
}

// cursorHandle returns the handle under the cursor, tree.Nil if there's
// none or the cursor is on the parent row
func (b *FileBrowser) cursorHandle() tree.Handle {
	if !b.validIndex(b.selectedIndex) {
		return tree.Nil
	}
	return b.flat[b.selectedIndex]
}

// cursorNode resolves the node under the cursor for op and records a
// StateError if there is none
func (b *FileBrowser) cursorNode(op string) (tree.Handle, tree.Node, bool) {
	if b.isParentRow(b.selectedIndex) {
		b.fail(&StateError{Op: op, Reason: "not possible on the parent entry"})
		return tree.Nil, tree.Node{}, false
	}

	h := b.cursorHandle()
	if h.IsNil() {
		b.fail(&StateError{Op: op, Reason: "nothing selected"})
		return tree.Nil, tree.Node{}, false
	}

	node, ok := b.tree.Node(h)
	if !ok {
		b.fail(&StateError{Op: op, Reason: "entry no longer exists"})
		return tree.Nil, tree.Node{}, false
	}

	return h, node, true
}

// selectHandle moves the cursor onto h if it is visible
func (b *FileBrowser) selectHandle(h tree.Handle) bool {
	if h.IsNil() {
		return false
	}

	for i, fh := range b.flat {
		if fh == h {
			b.selectedIndex = i
			return true
		}
	}
	return false
}

func (b *FileBrowser) fail(err error) bool {
	b.err = err
	debug.LogErr(err)
	return false
}

func (b *FileBrowser) succeed() bool {
	b.err = nil
	return true
}

func validName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.New("name can't be empty")
	case name == "." || name == "..":
		return errors.New("invalid name " + name)
	case strings.ContainsRune(name, os.PathSeparator):
		return errors.New("name can't contain " + string(os.PathSeparator))
	}
	return nil
}

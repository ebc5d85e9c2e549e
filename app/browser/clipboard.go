package browser

import (
	"path/filepath"
	"slices"

	"bellbird-files/app/debug"
	"bellbird-files/app/filesystem"
)

type clipboard struct {
	paths []string
	cut   bool
}

func (c clipboard) contains(path string) bool {
	return slices.Contains(c.paths, path)
}

// CopySelected puts the multi-selection, or the entry under the cursor
// if nothing is selected, into the clipboard
func (b *FileBrowser) CopySelected() bool {
	return b.yank("copy", false)
}

// CutSelected works like CopySelected but the next paste moves the
// entries instead of copying them
func (b *FileBrowser) CutSelected() bool {
	return b.yank("cut", true)
}

func (b *FileBrowser) yank(op string, cut bool) bool {
	var paths []string

	for _, i := range b.SelectedIndices() {
		paths = append(paths, b.entry(i).Path)
	}

	if len(paths) == 0 {
		_, node, ok := b.cursorNode(op)
		if !ok {
			return false
		}
		paths = append(paths, node.Path)
	}

	b.clipboard = clipboard{paths: paths, cut: cut}
	debug.LogDebug(op, paths)

	return b.succeed()
}

// Paste copies or moves every clipboard entry into target and returns
// the outcome per item. A failing item doesn't stop the others.
// A cut clipboard is emptied afterwards, a copied one is kept.
func (b *FileBrowser) Paste(target string) filesystem.Results {
	var results filesystem.Results

	if !b.HasClipboardFiles() {
		b.fail(&StateError{Op: "paste", Reason: "clipboard is empty"})
		return results
	}

	for _, src := range b.clipboard.paths {
		dst := filepath.Join(target, filepath.Base(src))

		if b.clipboard.cut {
			results = results.Merge(filesystem.Move(src, dst))
		} else {
			results = results.Merge(filesystem.Copy(src, dst))
		}
	}

	first := filepath.Join(target, filepath.Base(b.clipboard.paths[0]))

	if b.clipboard.cut {
		b.clipboard = clipboard{}
	}

	if b.tree != nil {
		err := b.tree.Refresh()

		// show what was just pasted
		b.tree.ExpandPath(target)
		b.rebuild()
		b.SelectPath(first)

		if err != nil {
			b.fail(&IOError{Op: "refresh", Path: b.tree.Root(), Err: err})
			return results
		}
	}

	if err := results.Err(); err != nil {
		b.fail(&IOError{Op: "paste", Path: target, Err: err})
		return results
	}

	b.succeed()
	return results
}

// PasteFiles pastes into target and reports whether the clipboard had
// entries and all of them were pasted
func (b *FileBrowser) PasteFiles(target string) bool {
	if !b.HasClipboardFiles() {
		return b.fail(&StateError{Op: "paste", Reason: "clipboard is empty"})
	}

	return b.Paste(target).OK()
}

// PasteTarget returns the directory a paste should go to: the directory
// under the cursor, the directory containing the file under the cursor
// or the root
func (b *FileBrowser) PasteTarget() string {
	entry, ok := b.SelectedEntry()

	switch {
	case !ok || entry.IsParent:
		return b.Root()
	case entry.IsDir:
		return entry.Path
	default:
		return filepath.Dir(entry.Path)
	}
}

func (b *FileBrowser) HasClipboardFiles() bool {
	return len(b.clipboard.paths) > 0
}

func (b *FileBrowser) IsCutOperation() bool {
	return b.HasClipboardFiles() && b.clipboard.cut
}

// ClipboardPaths returns a copy of the clipboard entries
func (b *FileBrowser) ClipboardPaths() []string {
	return slices.Clone(b.clipboard.paths)
}

func (b *FileBrowser) ClearClipboard() {
	b.clipboard = clipboard{}
}

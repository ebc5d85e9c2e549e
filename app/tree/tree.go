// Package tree holds the lazily loaded directory hierarchy of a root
// directory.
//
// Nodes live in an arena owned by Tree and are addressed by Handle.
// Reloading a directory never moves a node, so a handle taken before a
// reload either resolves to the same node or doesn't resolve at all.
// Handles of a different Tree never resolve.
package tree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"bellbird-files/app/debug"
	"bellbird-files/app/filesystem"
)

// ErrNotDir is returned when a tree is opened on something that
// isn't a directory
var ErrNotDir = errors.New("not a directory")

// PathError is returned when the root path is missing or not a directory
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Handle addresses a node inside a Tree
type Handle struct {
	index int
	gen   uint32
}

// Nil is the zero handle, it never resolves
var Nil Handle

func (h Handle) IsNil() bool {
	return h.gen == 0
}

// Node is a read only copy of a tree node
type Node struct {
	Name     string
	Path     string
	IsDir    bool
	IsHidden bool

	// Size in bytes, files only
	Size int64

	// Indicates whether a directory shows its children
	Expanded bool

	// Indicates whether the children of a directory have been listed
	Loaded bool

	// Nesting level, the top level of the tree is 0
	Depth int
}

type node struct {
	Node

	parent   Handle
	children []Handle
	dead     bool
}

// Tree owns every node below a root directory
type Tree struct {
	root       string
	gen        uint32
	showHidden bool

	nodes  []node
	roots  []Handle
	byPath map[string]Handle
}

// every tree gets its own generation so handles don't leak across trees
var generations atomic.Uint32

// New opens path and lists its top level.
// Fails with a *PathError if path doesn't exist or isn't a directory.
func New(path string, showHidden bool) (*Tree, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &PathError{Path: path, Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, &PathError{Path: abs, Err: err}
	}

	if !info.IsDir() {
		return nil, &PathError{Path: abs, Err: ErrNotDir}
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, &PathError{Path: abs, Err: err}
	}

	entries, err := filesystem.List(canonical, showHidden)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", canonical, err)
	}

	t := &Tree{
		root:       canonical,
		gen:        generations.Add(1),
		showHidden: showHidden,
		byPath:     make(map[string]Handle),
	}
	t.roots = t.adopt(Nil, entries, 0)

	return t, nil
}

// Root returns the canonical root directory
func (t *Tree) Root() string { return t.root }

// ShowHidden returns whether hidden entries are listed
func (t *Tree) ShowHidden() bool { return t.showHidden }

// SetShowHidden changes the hidden file policy and reloads the tree
func (t *Tree) SetShowHidden(show bool) error {
	t.showHidden = show
	return t.Refresh()
}

// Len returns the number of live nodes
func (t *Tree) Len() int {
	return len(t.byPath)
}

// Node returns a copy of the node behind h
func (t *Tree) Node(h Handle) (Node, bool) {
	n := t.get(h)
	if n == nil {
		return Node{}, false
	}
	return n.Node, true
}

// Valid reports whether h resolves to a live node
func (t *Tree) Valid(h Handle) bool {
	return t.get(h) != nil
}

// Roots returns the top level nodes
func (t *Tree) Roots() []Handle {
	return append([]Handle(nil), t.roots...)
}

// Children returns the loaded children of h
func (t *Tree) Children(h Handle) []Handle {
	n := t.get(h)
	if n == nil {
		return nil
	}
	return append([]Handle(nil), n.children...)
}

// Parent returns the parent of h, Nil for top level nodes
func (t *Tree) Parent(h Handle) (Handle, bool) {
	n := t.get(h)
	if n == nil {
		return Nil, false
	}
	return n.parent, true
}

// Find returns the loaded node with the given path
func (t *Tree) Find(path string) (Handle, bool) {
	h, ok := t.byPath[filepath.Clean(path)]
	return h, ok
}

// Expand expands a directory and loads its children on first use
func (t *Tree) Expand(h Handle) bool {
	n := t.get(h)
	if n == nil || !n.IsDir {
		return false
	}

	if !n.Loaded {
		t.load(h)
	}

	t.get(h).Expanded = true
	return true
}

// Collapse collapses a directory, its children stay loaded
func (t *Tree) Collapse(h Handle) bool {
	n := t.get(h)
	if n == nil || !n.IsDir {
		return false
	}

	n.Expanded = false
	return true
}

// Toggle flips the expanded state of a directory
func (t *Tree) Toggle(h Handle) bool {
	n := t.get(h)
	if n == nil || !n.IsDir {
		return false
	}

	if n.Expanded {
		return t.Collapse(h)
	}
	return t.Expand(h)
}

// ExpandPath expands the directory at path and all of its ancestors
// below the root, loading them as needed
func (t *Tree) ExpandPath(path string) bool {
	rel, err := filepath.Rel(t.root, filepath.Clean(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}

	siblings := t.roots
	var h Handle

	for _, name := range strings.Split(rel, string(os.PathSeparator)) {
		h = Nil
		for _, sibling := range siblings {
			if n := t.get(sibling); n != nil && n.Name == name {
				h = sibling
				break
			}
		}

		if h.IsNil() || !t.Expand(h) {
			return false
		}

		siblings = t.get(h).children
	}

	return true
}

// ExpandedPaths returns the paths of all expanded directories in
// pre-order
func (t *Tree) ExpandedPaths() []string {
	var paths []string

	var walk func(handles []Handle)
	walk = func(handles []Handle) {
		for _, h := range handles {
			n := t.get(h)
			if n == nil || !n.IsDir || !n.Expanded {
				continue
			}
			paths = append(paths, n.Path)
			walk(n.children)
		}
	}
	walk(t.roots)

	return paths
}

// EnsureLoaded loads every expanded directory that is reachable through
// expanded ancestors but hasn't been listed yet
func (t *Tree) EnsureLoaded() {
	t.ensureLoaded(t.roots)
}

func (t *Tree) ensureLoaded(handles []Handle) {
	for _, h := range handles {
		n := t.get(h)
		if n == nil || !n.IsDir || !n.Expanded {
			continue
		}

		if !n.Loaded {
			t.load(h)
		}

		t.ensureLoaded(t.get(h).children)
	}
}

// Flatten returns the visible nodes in pre-order.
// A directory's children are only visited if it is expanded.
// All pending loads happen before the traversal, the walk itself
// doesn't touch the tree.
func (t *Tree) Flatten() []Handle {
	t.EnsureLoaded()

	flat := make([]Handle, 0, len(t.roots))

	var walk func(handles []Handle)
	walk = func(handles []Handle) {
		for _, h := range handles {
			n := t.get(h)
			if n == nil {
				continue
			}

			flat = append(flat, h)

			if n.IsDir && n.Expanded {
				walk(n.children)
			}
		}
	}
	walk(t.roots)

	return flat
}

// Refresh re-lists every loaded directory.
// Entries that still exist keep their handle and their expanded and
// loaded state, new entries are added and vanished ones are dropped.
func (t *Tree) Refresh() error {
	entries, err := filesystem.List(t.root, t.showHidden)
	if err != nil {
		return fmt.Errorf("list %s: %w", t.root, err)
	}

	t.roots = t.reconcile(Nil, t.roots, entries, 0)
	return nil
}

func (t *Tree) reconcile(
	parent Handle,
	old []Handle,
	entries []filesystem.Entry,
	depth int,
) []Handle {
	existing := make(map[string]Handle, len(old))
	for _, h := range old {
		if n := t.get(h); n != nil {
			existing[n.Name] = h
		}
	}

	result := make([]Handle, 0, len(entries))

	for _, entry := range entries {
		if h, ok := existing[entry.Name]; ok {
			if n := t.get(h); n.IsDir == entry.IsDir {
				n.Size = entry.Size
				delete(existing, entry.Name)
				result = append(result, h)
				continue
			}
		}

		result = append(result, t.newNode(parent, entry, depth))
	}

	for _, h := range existing {
		t.kill(h)
	}

	for _, h := range result {
		n := t.get(h)
		if !n.IsDir || !n.Loaded {
			continue
		}

		childEntries, err := filesystem.List(n.Path, t.showHidden)
		if err != nil {
			debug.LogErr("refresh", n.Path, err)
		}

		children := t.reconcile(h, n.children, childEntries, depth+1)
		t.get(h).children = children
	}

	return result
}

// load lists the children of a directory.
// A failed listing still marks the directory as loaded so it isn't
// retried on every flatten.
func (t *Tree) load(h Handle) {
	n := t.get(h)
	if n == nil || !n.IsDir {
		return
	}

	path, depth := n.Path, n.Depth

	entries, err := filesystem.List(path, t.showHidden)
	if err != nil {
		debug.LogErr("load", path, err)
	}

	// adopt grows the arena, n must not be used after this
	children := t.adopt(h, entries, depth+1)

	n = t.get(h)
	n.children = children
	n.Loaded = true
}

func (t *Tree) adopt(parent Handle, entries []filesystem.Entry, depth int) []Handle {
	handles := make([]Handle, 0, len(entries))
	for _, entry := range entries {
		handles = append(handles, t.newNode(parent, entry, depth))
	}
	return handles
}

func (t *Tree) newNode(parent Handle, entry filesystem.Entry, depth int) Handle {
	h := Handle{index: len(t.nodes), gen: t.gen}

	t.nodes = append(t.nodes, node{
		Node: Node{
			Name:     entry.Name,
			Path:     entry.Path,
			IsDir:    entry.IsDir,
			IsHidden: filesystem.IsHidden(entry.Name),
			Size:     entry.Size,
			Depth:    depth,
		},
		parent: parent,
	})
	t.byPath[entry.Path] = h

	return h
}

// kill drops a node and all of its descendants.
// The arena slot is never reused.
func (t *Tree) kill(h Handle) {
	n := t.get(h)
	if n == nil {
		return
	}

	n.dead = true
	if t.byPath[n.Path] == h {
		delete(t.byPath, n.Path)
	}

	for _, child := range n.children {
		t.kill(child)
	}
	n.children = nil
}

// get resolves h. The pointer is only valid until the arena grows.
func (t *Tree) get(h Handle) *node {
	if h.gen != t.gen || h.index < 0 || h.index >= len(t.nodes) {
		return nil
	}

	n := &t.nodes[h.index]
	if n.dead {
		return nil
	}
	return n
}

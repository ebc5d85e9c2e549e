package tree

import "path/filepath"

// Snapshot is a detached deep copy of a loaded subtree
type Snapshot struct {
	Name     string
	Path     string
	IsDir    bool
	Size     int64
	Children []Snapshot
}

// Snapshot copies the subtree of h as far as it has been loaded.
// A directory that was never listed is loaded first so the copy has at
// least its direct children.
func (t *Tree) Snapshot(h Handle) (Snapshot, bool) {
	n := t.get(h)
	if n == nil {
		return Snapshot{}, false
	}

	if n.IsDir && !n.Loaded {
		t.load(h)
	}

	return t.snapshot(h), true
}

func (t *Tree) snapshot(h Handle) Snapshot {
	n := t.get(h)

	snap := Snapshot{
		Name:  n.Name,
		Path:  n.Path,
		IsDir: n.IsDir,
		Size:  n.Size,
	}

	for _, child := range n.children {
		if t.get(child) == nil {
			continue
		}
		snap.Children = append(snap.Children, t.snapshot(child))
	}

	return snap
}

// Walk calls fn for every descendant of s in pre-order with the path
// relative to s. Returning false from fn skips the descendants of that
// entry.
func (s Snapshot) Walk(fn func(rel string, entry Snapshot) bool) {
	var walk func(prefix string, children []Snapshot)
	walk = func(prefix string, children []Snapshot) {
		for _, child := range children {
			rel := filepath.Join(prefix, child.Name)
			if fn(rel, child) {
				walk(rel, child.Children)
			}
		}
	}
	walk("", s.Children)
}

// Count returns the number of descendants
func (s Snapshot) Count() int {
	count := 0
	s.Walk(func(string, Snapshot) bool {
		count++
		return true
	})
	return count
}

package tree_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bellbird-files/app/debug"
	"bellbird-files/app/tree"
)

func TestMain(m *testing.M) {
	debug.Disable()
	os.Exit(m.Run())
}

// fixture creates
//
//	A/
//	  inner/
//	    deep.txt
//	  a1.txt
//	B/
//	  b1.txt
//	.git/
//	a.txt
//	b.txt
func fixture(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "A", "inner"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "B"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0755))

	for _, file := range []string{
		"a.txt", "b.txt",
		filepath.Join("A", "a1.txt"),
		filepath.Join("A", "inner", "deep.txt"),
		filepath.Join("B", "b1.txt"),
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(file), 0644))
	}

	return dir
}

func names(tr *tree.Tree, handles []tree.Handle) []string {
	var result []string
	for _, h := range handles {
		n, ok := tr.Node(h)
		if !ok {
			result = append(result, "<invalid>")
			continue
		}
		result = append(result, n.Name)
	}
	return result
}

func find(t *testing.T, tr *tree.Tree, rel string) tree.Handle {
	t.Helper()
	h, ok := tr.Find(filepath.Join(tr.Root(), rel))
	require.True(t, ok, "node %s not loaded", rel)
	return h
}

func TestNewErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := tree.New(filepath.Join(dir, "missing"), false)
	var pathErr *tree.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err = tree.New(file, false)
	require.ErrorIs(t, err, tree.ErrNotDir)
}

func TestLoadOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "A"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "B"), 0755))

	tr, err := tree.New(dir, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "a.txt", "b.txt"}, names(tr, tr.Flatten()))
}

func TestLazyLoad(t *testing.T) {
	tr, err := tree.New(fixture(t), false)
	require.NoError(t, err)

	// only the top level is known
	assert.Equal(t, 4, tr.Len())

	a := find(t, tr, "A")
	node, _ := tr.Node(a)
	assert.False(t, node.Loaded)
	assert.Empty(t, tr.Children(a))

	require.True(t, tr.Expand(a))
	node, _ = tr.Node(a)
	assert.True(t, node.Loaded)
	assert.True(t, node.Expanded)
	assert.Equal(t, []string{"inner", "a1.txt"}, names(tr, tr.Children(a)))

	inner := find(t, tr, filepath.Join("A", "inner"))
	innerNode, _ := tr.Node(inner)
	assert.Equal(t, 1, innerNode.Depth)

	// files can't be expanded
	assert.False(t, tr.Expand(find(t, tr, "a.txt")))
}

func TestFlattenPreOrder(t *testing.T) {
	tr, err := tree.New(fixture(t), false)
	require.NoError(t, err)

	require.True(t, tr.Expand(find(t, tr, "A")))
	require.True(t, tr.Expand(find(t, tr, filepath.Join("A", "inner"))))

	assert.Equal(t,
		[]string{"A", "inner", "deep.txt", "a1.txt", "B", "a.txt", "b.txt"},
		names(tr, tr.Flatten()),
	)

	// collapsing the parent hides the expanded grandchild as well
	require.True(t, tr.Collapse(find(t, tr, "A")))
	assert.Equal(t, []string{"A", "B", "a.txt", "b.txt"}, names(tr, tr.Flatten()))
}

func TestRefreshShowsNewChildren(t *testing.T) {
	dir := fixture(t)
	tr, err := tree.New(dir, false)
	require.NoError(t, err)

	require.True(t, tr.ExpandPath(filepath.Join(tr.Root(), "B")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "B", "b0.txt"), nil, 0644))

	// not visible until the directory is listed again
	assert.Equal(t, []string{"A", "B", "b1.txt", "a.txt", "b.txt"}, names(tr, tr.Flatten()))

	require.NoError(t, tr.Refresh())
	assert.Equal(t,
		[]string{"A", "B", "b0.txt", "b1.txt", "a.txt", "b.txt"},
		names(tr, tr.Flatten()),
	)
}

func TestExpandCollapseRoundTrip(t *testing.T) {
	tr, err := tree.New(fixture(t), false)
	require.NoError(t, err)

	before := tr.Flatten()
	a := find(t, tr, "A")

	require.True(t, tr.Toggle(a))
	require.True(t, tr.Toggle(a))

	assert.Equal(t, before, tr.Flatten())
}

func TestRefreshIdempotent(t *testing.T) {
	tr, err := tree.New(fixture(t), false)
	require.NoError(t, err)
	require.True(t, tr.Expand(find(t, tr, "A")))

	require.NoError(t, tr.Refresh())
	first := tr.Flatten()

	require.NoError(t, tr.Refresh())
	second := tr.Flatten()

	assert.Equal(t, first, second)
	assert.Equal(t, names(tr, first), names(tr, second))
}

func TestRefreshKeepsHandlesAndState(t *testing.T) {
	dir := fixture(t)
	tr, err := tree.New(dir, false)
	require.NoError(t, err)

	a := find(t, tr, "A")
	require.True(t, tr.Expand(a))
	b := find(t, tr, "B")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "A", "a0.txt"), nil, 0644))
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "B")))

	require.NoError(t, tr.Refresh())

	node, ok := tr.Node(a)
	require.True(t, ok, "handle of a surviving node must stay valid")
	assert.True(t, node.Expanded)
	assert.True(t, node.Loaded)
	assert.Equal(t, []string{"inner", "a0.txt", "a1.txt"}, names(tr, tr.Children(a)))

	assert.False(t, tr.Valid(b), "handle of a removed node must not resolve")
	_, found := tr.Find(filepath.Join(tr.Root(), "B"))
	assert.False(t, found)
}

func TestHandlesOfOtherTreesDontResolve(t *testing.T) {
	dir := fixture(t)
	first, err := tree.New(dir, false)
	require.NoError(t, err)
	second, err := tree.New(dir, false)
	require.NoError(t, err)

	h := first.Roots()[0]
	assert.True(t, first.Valid(h))
	assert.False(t, second.Valid(h))
	assert.False(t, second.Valid(tree.Nil))
}

func TestShowHidden(t *testing.T) {
	tr, err := tree.New(fixture(t), false)
	require.NoError(t, err)

	assert.NotContains(t, names(tr, tr.Flatten()), ".git")
	a := find(t, tr, "A")

	require.NoError(t, tr.SetShowHidden(true))
	assert.Equal(t, []string{".git", "A", "B", "a.txt", "b.txt"}, names(tr, tr.Flatten()))
	assert.True(t, tr.Valid(a))

	git := find(t, tr, ".git")
	node, _ := tr.Node(git)
	assert.True(t, node.IsHidden)

	require.NoError(t, tr.SetShowHidden(false))
	assert.Equal(t, []string{"A", "B", "a.txt", "b.txt"}, names(tr, tr.Flatten()))
	assert.False(t, tr.Valid(git))
}

func TestExpandedPaths(t *testing.T) {
	tr, err := tree.New(fixture(t), false)
	require.NoError(t, err)

	inner := filepath.Join(tr.Root(), "A", "inner")
	require.True(t, tr.ExpandPath(inner))
	assert.False(t, tr.ExpandPath(filepath.Join(tr.Root(), "nope")))
	assert.False(t, tr.ExpandPath(filepath.Dir(tr.Root())))

	assert.Equal(t,
		[]string{filepath.Join(tr.Root(), "A"), inner},
		tr.ExpandedPaths(),
	)
}

func TestSnapshot(t *testing.T) {
	tr, err := tree.New(fixture(t), false)
	require.NoError(t, err)

	// never expanded, the snapshot still sees the direct children
	snap, ok := tr.Snapshot(find(t, tr, "A"))
	require.True(t, ok)
	assert.True(t, snap.IsDir)
	assert.Equal(t, 2, snap.Count())

	var rels []string
	snap.Walk(func(rel string, entry tree.Snapshot) bool {
		rels = append(rels, rel)
		return true
	})
	assert.Equal(t, []string{"inner", "a1.txt"}, rels)

	require.True(t, tr.ExpandPath(filepath.Join(tr.Root(), "A", "inner")))
	snap, _ = tr.Snapshot(find(t, tr, "A"))
	assert.Equal(t, 3, snap.Count())

	_, ok = tr.Snapshot(tree.Nil)
	assert.False(t, ok)
}

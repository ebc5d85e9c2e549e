package utils

import (
	"cmp"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

// HasName is an interface for types that expose a Name method.
// Used to generically sort any slice of such types.
type HasName interface {
	GetName() string
}

// TruncateText shortens the given text to fit within maxWidth display cells.
// If the text exceeds maxWidth, it appends "..." (if possible).
func TruncateText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	if runewidth.StringWidth(text) <= maxWidth {
		return text
	}

	if maxWidth > 3 {
		return runewidth.Truncate(text, maxWidth, "...")
	}

	// No space for "..."
	return runewidth.Truncate(text, maxWidth, "")
}

// GetSortedKeys returns the keys of a map[K]T in ascending order.
func GetSortedKeys[K cmp.Ordered, T any](mapToSort map[K]T) []K {
	keys := make([]K, 0, len(mapToSort))
	for key := range mapToSort {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	return keys
}

// SortByName sorts a slice of items that implement HasName
// by their byte-wise (case sensitive) name, so `B` comes before `a`.
func SortByName[T HasName](slice []T) {
	sort.SliceStable(slice, func(i, j int) bool {
		return slice[i].GetName() < slice[j].GetName()
	})
}

// Clamp restricts value to [low, high].
// If high is below low, low wins.
func Clamp(value, low, high int) int {
	if value > high {
		value = high
	}
	if value < low {
		value = low
	}
	return value
}

// RelativePath strips root from path for display purposes.
// Paths outside of root are returned unchanged.
func RelativePath(root string, path string) string {
	if !IsWithin(root, path) {
		return path
	}

	rel, _ := filepath.Rel(root, path)
	if rel == "." {
		return rel
	}

	return "." + string(os.PathSeparator) + rel
}

// CreateFile creates a file at path. If truncate is false an existing
// file is left untouched and returned as is.
func CreateFile(path string, truncate bool) (*os.File, error) {
	flags := os.O_RDWR | os.O_CREATE
	if truncate {
		flags |= os.O_TRUNC
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	return os.OpenFile(path, flags, 0644)
}

// IsWithin reports whether path equals root or lies below it
func IsWithin(root string, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return rel == "." ||
		(rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)))
}

// Exists reports whether anything exists at path
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, os.ErrNotExist)
}

// ExpandHome replaces a leading ~ with the home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") && path != "~" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(homeDir, strings.TrimPrefix(path[1:], "/"))
}

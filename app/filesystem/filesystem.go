package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"bellbird-files/app/debug"
	"bellbird-files/app/utils"
)

// Entry is a single directory listing row
type Entry struct {
	Name  string
	Path  string
	IsDir bool

	// Size in bytes, always 0 for directories
	Size int64
}

func (e Entry) GetName() string {
	return e.Name
}

// IsHidden returns true if the file or directory is hidden
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// List reads dirPath and returns its directories followed by its files,
// each group sorted by name.
// Hidden entries are skipped unless showHidden is set, entries that
// can't be stat'ed or aren't regular files, directories or symlinks are
// skipped silently.
func List(dirPath string, showHidden bool) ([]Entry, error) {
	children, err := os.ReadDir(dirPath)
	if err != nil {
		debug.LogErr(err)
		return nil, err
	}

	var (
		dirs  []Entry
		files []Entry
	)

	for _, child := range children {
		if !showHidden && IsHidden(child.Name()) {
			continue
		}

		entryPath := filepath.Join(dirPath, child.Name())

		// follow symlinks so a link to a directory can be expanded
		info, err := os.Stat(entryPath)
		if err != nil {
			debug.LogDebug("skipping", entryPath, err)
			continue
		}

		switch {
		case info.IsDir():
			dirs = append(dirs, Entry{
				Name:  child.Name(),
				Path:  entryPath,
				IsDir: true,
			})

		case info.Mode().IsRegular():
			files = append(files, Entry{
				Name: child.Name(),
				Path: entryPath,
				Size: info.Size(),
			})

		default:
			debug.LogDebug("skipping special file", entryPath)
		}
	}

	utils.SortByName(dirs)
	utils.SortByName(files)

	return append(dirs, files...), nil
}

// IsDir returns whether path exists and is a directory
func IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return info.IsDir(), nil
}

// LinkTarget returns the target of path if path is a symbolic link
func LinkTarget(path string) (string, bool) {
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return "", false
	}

	target, err := os.Readlink(path)
	if err != nil {
		debug.LogErr(err)
		return "", false
	}
	return target, true
}

// CreateLink creates a symbolic link at path pointing to target
func CreateLink(target string, path string) error {
	if err := os.Symlink(target, path); err != nil {
		debug.LogErr(err)
		return err
	}
	return nil
}

// Create creates a directory
func Create(path string) error {
	if err := os.Mkdir(path, 0755); err != nil {
		debug.LogErr(err)
		return err
	}
	return nil
}

// CreateFile creates an empty file and fails if anything already
// exists at path
func CreateFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		debug.LogErr(err)
		return err
	}
	return f.Close()
}

// Rename renames oldPath to newPath and refuses to replace an
// existing entry
func Rename(oldPath string, newPath string) error {
	if oldPath == newPath {
		return nil
	}

	if utils.Exists(newPath) {
		err := &fs.PathError{Op: "rename", Path: newPath, Err: fs.ErrExist}
		debug.LogErr(err)
		return err
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		debug.LogErr(err)
		return err
	}
	return nil
}

// Delete removes a file or a directory including all of its content
func Delete(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		debug.LogErr(err)
		return err
	}

	if !info.IsDir() {
		err = os.Remove(path)
	} else {
		err = os.RemoveAll(path)
	}

	if err != nil {
		debug.LogErr(err)
		return err
	}
	return nil
}

// Copy recursively copies src to dst.
// Directories are walked pre-order so every directory exists before its
// content is written. A failing entry only fails itself (and the content
// of a failing directory), the walk goes on with the next sibling.
func Copy(src string, dst string) Results {
	var results Results

	if utils.IsWithin(src, dst) {
		return results.Add(src, fmt.Errorf(
			"cannot copy %s into itself: %w", src, fs.ErrInvalid,
		))
	}

	walkErr := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		rel, relErr := filepath.Rel(src, path)
		if relErr != nil {
			results = results.Add(path, relErr)
			return nil
		}
		target := filepath.Join(dst, rel)

		if err != nil {
			results = results.Add(path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case d.IsDir():
			err = copyDir(path, target)
			results = results.Add(path, err)
			if err != nil {
				return filepath.SkipDir
			}

		case d.Type()&fs.ModeSymlink != 0:
			results = results.Add(path, copySymlink(path, target))

		case d.Type().IsRegular():
			results = results.Add(path, copyFile(path, target))

		default:
			results = results.Add(path, fmt.Errorf(
				"unsupported file type %s: %w", d.Type(), fs.ErrInvalid,
			))
		}

		return nil
	})

	if walkErr != nil {
		results = results.Add(src, walkErr)
	}

	for _, res := range results.Failed() {
		debug.LogErr("copy", res.Path, res.Err)
	}

	return results
}

// Move moves src to dst. Falls back to copy and delete if a plain
// rename isn't possible, e.g. across devices.
// An existing dst is replaced if the OS allows it.
func Move(src string, dst string) Results {
	var results Results

	if src == dst {
		return results.Add(src, nil)
	}

	if utils.IsWithin(src, dst) {
		return results.Add(src, fmt.Errorf(
			"cannot move %s into itself: %w", src, fs.ErrInvalid,
		))
	}

	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return results.Add(src, nil)
	}

	var linkErr *os.LinkError
	if !errors.As(renameErr, &linkErr) || !isCrossDevice(linkErr) {
		debug.LogErr(renameErr)
		return results.Add(src, renameErr)
	}

	results = Copy(src, dst)
	if !results.OK() {
		return results
	}

	if err := Delete(src); err != nil {
		return results.Add(src, err)
	}

	return results
}

func copyDir(src string, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, info.Mode().Perm()|0700); err != nil {
		return err
	}
	return nil
}

func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

func copySymlink(src string, dst string) error {
	link, err := os.Readlink(src)
	if err != nil {
		return err
	}

	if utils.Exists(dst) {
		if err := os.Remove(dst); err != nil {
			return err
		}
	}

	return os.Symlink(link, dst)
}

package undo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"bellbird-files/app/debug"
	"bellbird-files/app/filesystem"
	"bellbird-files/app/tree"
	"bellbird-files/app/utils"
)

// DefaultLimit is the number of delete records kept if no limit is set
const DefaultLimit = 50

// Record holds everything needed to rebuild a deleted entry.
// File content is never kept, restoring only brings back the structure.
type Record struct {
	Name       string
	Path       string
	ParentPath string
	IsDir      bool
	Size       int64

	// Snapshot of the subtree as it was last loaded, directories only
	Snapshot *tree.Snapshot

	// Set if the entry was a symbolic link, the link is restored
	// instead of the entry it points to
	LinkTarget string
}

// NewRecord builds a record from a snapshot of the entry about to be
// deleted. Must be called while the entry still exists.
func NewRecord(snap tree.Snapshot) Record {
	rec := Record{
		Name:       snap.Name,
		Path:       snap.Path,
		ParentPath: filepath.Dir(snap.Path),
		IsDir:      snap.IsDir,
		Size:       snap.Size,
	}

	if target, ok := filesystem.LinkTarget(snap.Path); ok {
		rec.LinkTarget = target
		rec.IsDir = false
		return rec
	}

	if snap.IsDir {
		rec.Snapshot = &snap
	}

	return rec
}

// Stack is a bounded LIFO of delete records.
// Pushing onto a full stack drops the oldest record.
type Stack struct {
	records []Record
	limit   int
}

func NewStack(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}

	return &Stack{
		records: make([]Record, 0, min(limit, 16)),
		limit:   limit,
	}
}

func (s *Stack) Push(rec Record) {
	if len(s.records) >= s.limit {
		s.records = append(s.records[:0], s.records[1:]...)
	}
	s.records = append(s.records, rec)
}

// Pop removes and returns the newest record
func (s *Stack) Pop() (Record, bool) {
	if len(s.records) == 0 {
		return Record{}, false
	}

	rec := s.records[len(s.records)-1]
	s.records = s.records[:len(s.records)-1]
	return rec, true
}

// Peek returns the newest record without removing it
func (s *Stack) Peek() (Record, bool) {
	if len(s.records) == 0 {
		return Record{}, false
	}
	return s.records[len(s.records)-1], true
}

func (s *Stack) Len() int { return len(s.records) }
func (s *Stack) Limit() int { return s.limit }
func (s *Stack) CanUndo() bool { return len(s.records) > 0 }

func (s *Stack) Clear() {
	s.records = s.records[:0]
}

// Restore recreates the structure of a deleted entry.
// Fails without touching the disk if the parent directory is gone or
// something already exists at the original path.
// Directories are rebuilt pre-order from the snapshot, files come back
// as empty placeholders. Failures of single descendants are collected,
// the remaining entries are still restored.
func Restore(rec Record) (filesystem.Results, error) {
	var results filesystem.Results

	if isDir, err := filesystem.IsDir(rec.ParentPath); err != nil || !isDir {
		if err == nil {
			err = fmt.Errorf("%s: %w", rec.ParentPath, tree.ErrNotDir)
		}
		return results, fmt.Errorf("parent of %s is gone: %w", rec.Name, err)
	}

	if utils.Exists(rec.Path) {
		return results, &fs.PathError{Op: "restore", Path: rec.Path, Err: fs.ErrExist}
	}

	if rec.LinkTarget != "" {
		err := filesystem.CreateLink(rec.LinkTarget, rec.Path)
		results = results.Add(rec.Path, err)
		return results, err
	}

	if !rec.IsDir {
		err := filesystem.CreateFile(rec.Path)
		results = results.Add(rec.Path, err)
		return results, err
	}

	if err := filesystem.Create(rec.Path); err != nil {
		return results.Add(rec.Path, err), err
	}
	results = results.Add(rec.Path, nil)

	if rec.Snapshot != nil {
		rec.Snapshot.Walk(func(rel string, entry tree.Snapshot) bool {
			target := filepath.Join(rec.Path, rel)

			var err error
			if entry.IsDir {
				err = os.Mkdir(target, 0755)
			} else {
				err = filesystem.CreateFile(target)
			}

			results = results.Add(target, err)

			// nothing to put into a directory that couldn't be created
			return err == nil
		})
	}

	if err := results.Err(); err != nil {
		debug.LogErr("restore", rec.Path, err)
		return results, err
	}

	return results, nil
}

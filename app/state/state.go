package state

import (
	"bufio"
	"os"
	"strings"
	"time"

	"bellbird-files/app"
	"bellbird-files/app/debug"
	"bellbird-files/app/utils"
)

// maxEntries is the number of entries written to the state file
const maxEntries = 200

type HistoryType int

const (
	Directory HistoryType = iota
	File
)

var historyTypes = map[HistoryType]string{
	Directory: "DIR",
	File:      "FILE",
}

func (t HistoryType) String() string {
	return historyTypes[t]
}

type StateEntry struct {
	historyType HistoryType
	timestamp   string
	content     string
}

func (e *StateEntry) Content() string {
	return e.content
}

func (e *StateEntry) Type() HistoryType {
	return e.historyType
}

func NewEntry(stateType HistoryType, content string) StateEntry {
	return StateEntry{
		historyType: stateType,
		timestamp:   time.Now().Format(time.RFC3339),
		content:     content,
	}
}

type State struct {
	filePath string
	entries  []StateEntry
}

// New returns the state stored in the config directory
func New() *State {
	filePath, err := app.StateFile()
	if err != nil {
		return &State{}
	}

	return NewWithFile(filePath)
}

// NewWithFile returns a state backed by filePath, the file is created if
// it doesn't exist
func NewWithFile(filePath string) *State {
	if _, err := os.Stat(filePath); err != nil {
		f, err := utils.CreateFile(filePath, false)
		if err != nil {
			debug.LogErr(err)
		} else {
			f.Close()
		}
	}

	return &State{
		filePath: filePath,
		entries:  []StateEntry{},
	}
}

func (s *State) removeLastOccurences(st HistoryType, c string) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].historyType == st && s.entries[i].content == c {
			copy(s.entries[i:], s.entries[i+1:])
			s.entries = s.entries[:len(s.entries)-1]
			return
		}
	}
}

// Entries returns all entries of the given type, oldest first
func (s *State) Entries(st HistoryType) []StateEntry {
	entries := []StateEntry{}

	for _, entry := range s.entries {
		if entry.historyType == st {
			entries = append(entries, entry)
		}
	}

	return entries
}

// Append adds entry as the newest one. An older entry with the same
// type and content is removed.
func (s *State) Append(entry StateEntry) {
	if entry.content == "" {
		return
	}

	s.removeLastOccurences(entry.historyType, entry.content)
	s.entries = append(s.entries, entry)
}

// Previous returns the newest entry of the given type that differs from
// current
func (s *State) Previous(st HistoryType, current string) (StateEntry, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		entry := s.entries[i]
		if entry.historyType == st && entry.content != current {
			return entry, true
		}
	}

	return StateEntry{}, false
}

func (s *State) Read() error {
	file, err := os.OpenFile(s.filePath, os.O_RDONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		ln := strings.SplitN(scanner.Text(), "|", 3)
		if len(ln) != 3 {
			debug.LogWarn("skipping malformed state entry", scanner.Text())
			continue
		}

		historyType, ok := parseType(ln[0])
		if !ok {
			continue
		}

		s.entries = append(s.entries, StateEntry{
			historyType: historyType,
			timestamp:   ln[1],
			content:     ln[2],
		})
	}

	return scanner.Err()
}

func (s *State) Write() error {
	f, err := os.OpenFile(s.filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		debug.LogErr(err)
		return err
	}
	defer f.Close()

	entries := s.entries
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}

	w := bufio.NewWriter(f)

	for _, entry := range entries {
		var line strings.Builder
		line.WriteString(entry.historyType.String())
		line.WriteRune('|')
		line.WriteString(entry.timestamp)
		line.WriteRune('|')
		line.WriteString(entry.content)
		line.WriteRune('\n')

		if _, err := w.WriteString(line.String()); err != nil {
			debug.LogErr(err)
			return err
		}
	}

	return w.Flush()
}

func parseType(str string) (HistoryType, bool) {
	for hisType, name := range historyTypes {
		if name == str {
			return hisType, true
		}
	}
	return 0, false
}

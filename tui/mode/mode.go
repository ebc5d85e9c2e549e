package mode

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
)

type Mode int

const (
	Normal Mode = iota
	// Renaming an entry
	Insert
	// Waiting for a yes/no answer in the status bar
	Prompt
	// Typing a : command
	Command
)

var modeName = map[Mode]string{
	Normal:  "n",
	Insert:  "i",
	Prompt:  "p",
	Command: "c",
}

var fullName = map[Mode]string{
	Normal:  "-- NORMAL --",
	Insert:  "-- RENAME --",
	Prompt:  "",
	Command: "",
}

var colour = map[Mode]color.Color{
	Normal:  lipgloss.NoColor{},
	Insert:  lipgloss.Color("#7bb791"),
	Prompt:  lipgloss.NoColor{},
	Command: lipgloss.NoColor{},
}

func (m Mode) String() string {
	return modeName[m]
}

func (m Mode) FullString() string {
	return fullName[m]
}

func (m Mode) Colour() color.Color {
	return colour[m]
}

// Parse maps the mode names used in keymap.json to a Mode
func Parse(name string) (Mode, bool) {
	switch name {
	case "normal":
		return Normal, true
	case "insert", "rename":
		return Insert, true
	case "prompt":
		return Prompt, true
	case "command":
		return Command, true
	}
	return Normal, false
}

type ModeInstance struct {
	Current Mode
}

package keyinput

import (
	"slices"
	"strings"
	"unicode/utf8"

	"bellbird-files/tui/message"
	"bellbird-files/tui/mode"
)

// FocusedComponent is a UI component that can receive key actions
type FocusedComponent interface {
	Focused() bool
	Name() string
}

// KeyBinding represents one or more keys that trigger a specific action.
type KeyBinding struct {
	keys []string
}

// KeyBindings is a constructor that creates a KeyBinding from a list of keys.
func KeyBindings(keys ...string) KeyBinding {
	return KeyBinding{keys: keys}
}

// KeyAction is a set of key bindings with one or more conditions
// under which the action can be triggered
type KeyAction struct {
	Bindings KeyBinding
	Cond     []KeyCondition
}

// KeyCondition holds the mode and the components of which one must be
// focused for Action to run
type KeyCondition struct {
	Mode       mode.Mode
	Components []FocusedComponent
	Action     func() message.StatusBarMsg
}

type matchContext struct {
	mode      mode.Mode
	component FocusedComponent
	binding   string
}

// Input keeps the pending key sequence and resolves keys to actions
type Input struct {
	KeySequence  string
	sequenceKeys []string
	actions      map[string]func() message.StatusBarMsg
	Ctrl         bool
	Alt          bool
	Mode         mode.Mode
	Functions    []KeyAction

	// Components keymap entries can refer to by name
	Components []FocusedComponent

	// Actions keymap entries can refer to by name
	Registry Registry
}

// Matches checks if the condition applies to ctx.
// Without a component in ctx any focused component of the condition
// matches.
func (kc KeyCondition) Matches(ctx matchContext) bool {
	if kc.Mode != ctx.mode {
		return false
	}

	for _, c := range kc.Components {
		if ctx.component != nil && c != ctx.component {
			continue
		}
		if c.Focused() {
			return true
		}
	}

	return false
}

func New() *Input {
	return &Input{
		Mode:         mode.Normal,
		sequenceKeys: []string{},
		Functions:    []KeyAction{},
		actions:      map[string]func() message.StatusBarMsg{},
		Registry:     Registry{},
	}
}

func isModifier(binding string) (string, bool) {
	if strings.HasPrefix(binding, "ctrl+") {
		return "ctrl", true
	}

	if strings.HasPrefix(binding, "alt+") {
		return "alt", true
	}

	return "", false
}

// HandleSequences processes an incoming key. The first key of a
// sequence is stored and nil is returned, otherwise the matching action
// is executed.
func (ki *Input) HandleSequences(key string) []message.StatusBarMsg {
	if key == "esc" && ki.KeySequence != "" {
		ki.ResetKeysDown()
		return nil
	}

	if ki.KeySequence == "" {
		if !ki.isBinding(key) && slices.Contains(ki.sequenceKeys, key) {
			ki.KeySequence = key

			switch mod, _ := isModifier(key); mod {
			case "ctrl":
				ki.Ctrl = true
			case "alt":
				ki.Alt = true
			}

			return nil
		}
	} else {
		if ki.Ctrl || ki.Alt {
			key = " " + key
		}
		key = ki.KeySequence + key
	}

	statusMsg := ki.executeAction(key)
	ki.ResetKeysDown()

	return []message.StatusBarMsg{statusMsg}
}

func (ki *Input) executeAction(binding string) message.StatusBarMsg {
	ctx := matchContext{
		mode:    ki.Mode,
		binding: binding,
	}

	for _, action := range ki.matchActions(ctx) {
		return action()
	}

	return message.StatusBarMsg{}
}

// FetchKeyMap updates the cached bindings for the current mode and
// the focused components. Has to be called whenever one of them changes.
func (ki *Input) FetchKeyMap(resetSeq bool) {
	if resetSeq {
		ki.sequenceKeys = []string{}
		ki.ResetKeysDown()
	}

	ki.actions = map[string]func() message.StatusBarMsg{}

	for _, action := range ki.Functions {
		for _, key := range action.Bindings.keys {
			for _, cond := range action.Cond {
				if cond.Mode != ki.Mode {
					continue
				}

				if !anyComponentFocused(cond.Components) {
					continue
				}

				ki.actions[key] = cond.Action
				ki.addSequenceKey(key)
			}
		}
	}
}

// addSequenceKey registers the first key of a multi key binding.
// Bindings are either two characters like "gg" or space separated
// like "ctrl+w l".
func (ki *Input) addSequenceKey(binding string) {
	first := ""

	if prefix, _, ok := strings.Cut(binding, " "); ok {
		first = prefix
	} else if utf8.RuneCountInString(binding) == 2 && !isNamedKey(binding) {
		first = string([]rune(binding)[0])
	}

	if first != "" && !slices.Contains(ki.sequenceKeys, first) {
		ki.sequenceKeys = append(ki.sequenceKeys, first)
	}
}

// isNamedKey reports whether a two character binding is a single key
func isNamedKey(binding string) bool {
	if binding == "up" {
		return true
	}
	return binding[0] == 'f' && binding[1] >= '0' && binding[1] <= '9'
}

func (ki *Input) isBinding(key string) bool {
	_, ok := ki.actions[key]
	return ok
}

// matchActions returns the actions bound to ctx.binding whose condition
// matches the current mode and focus
func (ki *Input) matchActions(ctx matchContext) []func() message.StatusBarMsg {
	var matched []func() message.StatusBarMsg

	for _, action := range ki.Functions {
		if !slices.Contains(action.Bindings.keys, ctx.binding) {
			continue
		}

		for _, cond := range action.Cond {
			if cond.Matches(ctx) {
				matched = append(matched, cond.Action)
			}
		}
	}

	return matched
}

func anyComponentFocused(components []FocusedComponent) bool {
	for _, c := range components {
		if c.Focused() {
			return true
		}
	}
	return false
}

// ResetKeysDown resets the modifier state flags and
// clears the current key sequence.
func (ki *Input) ResetKeysDown() {
	ki.Ctrl = false
	ki.Alt = false
	ki.KeySequence = ""
}

package keyinput

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/tailscale/hujson"

	"bellbird-files/app"
	"bellbird-files/app/debug"
	"bellbird-files/app/utils"
	"bellbird-files/tui/message"
	"bellbird-files/tui/mode"
)

//go:embed keymap.json
var defaultKeyMap []byte

const keyMapFileName = "keymap.json"

// ActionFunc is a named action that can be bound in keymap.json
type ActionFunc func(opts Options) message.StatusBarMsg

type Registry map[string]ActionFunc

type KeyMap struct {
	path    string
	Entries []KeyMapEntry
}

func (km *KeyMap) Path() string { return km.path }

// ParseKeyMap reads a keymap. Comments and trailing commas are allowed.
func ParseKeyMap(data []byte) (KeyMap, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return KeyMap{}, err
	}

	var entries []KeyMapEntry
	if err := json.Unmarshal(std, &entries); err != nil {
		return KeyMap{}, err
	}

	return KeyMap{Entries: entries}, nil
}

// DefaultKeyMap returns the embedded key bindings
func DefaultKeyMap() KeyMap {
	km, err := ParseKeyMap(defaultKeyMap)
	if err != nil {
		debug.LogErr("invalid default keymap", err)
	}
	return km
}

// LoadKeyMap returns the default key bindings merged with the user's
// keymap.json if there is one
func LoadKeyMap() KeyMap {
	km := DefaultKeyMap()

	path, err := keyMapPath()
	if err != nil {
		debug.LogErr(err)
		return km
	}
	km.path = path

	if !utils.Exists(path) {
		return km
	}

	data, err := os.ReadFile(path)
	if err != nil {
		debug.LogErr(err)
		return km
	}

	user, err := ParseKeyMap(data)
	if err != nil {
		debug.LogErr("can't parse", path, err)
		return km
	}

	km.Merge(user)
	return km
}

func keyMapPath() (string, error) {
	confDir, err := app.ConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(confDir, keyMapFileName), nil
}

// Merge applies the entries of other on top of km. Bindings of entries
// with the same mode and components are replaced, an empty action
// removes the binding.
func (km *KeyMap) Merge(other KeyMap) {
	for _, entry := range other.Entries {
		i := slices.IndexFunc(km.Entries, func(e KeyMapEntry) bool {
			return e.sameTarget(entry)
		})

		if i < 0 {
			km.Entries = append(km.Entries, entry)
			continue
		}

		if km.Entries[i].Bindings == nil {
			km.Entries[i].Bindings = map[string]MapBinding{}
		}

		for key, binding := range entry.Bindings {
			if binding.Action == "" {
				delete(km.Entries[i].Bindings, key)
				continue
			}
			km.Entries[i].Bindings[key] = binding
		}
	}
}

type KeyMapEntry struct {
	Mode       string                `json:"mode"`
	Components []string              `json:"components"`
	Bindings   map[string]MapBinding `json:"bindings"`
}

func (e KeyMapEntry) sameTarget(other KeyMapEntry) bool {
	if e.Mode != other.Mode {
		return false
	}

	a := slices.Sorted(slices.Values(e.Components))
	b := slices.Sorted(slices.Values(other.Components))
	return slices.Equal(a, b)
}

func (e *KeyMapEntry) ResolveComponents(ki *Input) []FocusedComponent {
	var components []FocusedComponent
	for i := range ki.Components {
		if slices.Contains(e.Components, ki.Components[i].Name()) {
			components = append(components, ki.Components[i])
		}
	}
	return components
}

// Apply turns the keymap into key actions using the registry of ki.
// Entries with an unknown mode and bindings with an unknown action are
// skipped and reported in the returned error.
func (ki *Input) Apply(km KeyMap) error {
	var errs []error

	ki.Functions = []KeyAction{}

	for _, entry := range km.Entries {
		m, ok := mode.Parse(entry.Mode)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown mode %q", entry.Mode))
			continue
		}

		components := entry.ResolveComponents(ki)

		for _, key := range utils.GetSortedKeys(entry.Bindings) {
			binding := entry.Bindings[key]

			fn, ok := ki.Registry[binding.Action]
			if !ok {
				errs = append(errs, fmt.Errorf("unknown action %q for %q", binding.Action, key))
				continue
			}

			opts := binding.Options
			ki.Functions = append(ki.Functions, KeyAction{
				Bindings: KeyBindings(key),
				Cond: []KeyCondition{{
					Mode:       m,
					Components: components,
					Action: func() message.StatusBarMsg {
						return fn(opts)
					},
				}},
			})
		}
	}

	ki.FetchKeyMap(true)

	return errors.Join(errs...)
}

type Options map[string]any

func (o Options) GetBool(key string) bool {
	val, ok := o[key].(bool)
	return ok && val
}

func (o Options) GetString(key string) string {
	str, _ := o[key].(string)
	return str
}

// GetInt returns the option as int, fallback if it's missing or not
// a number
func (o Options) GetInt(key string, fallback int) int {
	switch val := o[key].(type) {
	case float64:
		return int(val)
	case int:
		return val
	}
	return fallback
}

// MapBinding is either "action" or ["action", {options}]
type MapBinding struct {
	Action  string
	Options Options
	HasOpts bool
}

func (b *MapBinding) UnmarshalJSON(data []byte) error {
	var keyString string

	if err := json.Unmarshal(data, &keyString); err == nil {
		b.Action = keyString
		b.Options = Options{}
		b.HasOpts = false

		return nil
	}

	var keyArr []json.RawMessage
	if err := json.Unmarshal(data, &keyArr); err != nil {
		return err
	}

	b.Options = Options{}

	if len(keyArr) > 0 {
		if err := json.Unmarshal(keyArr[0], &b.Action); err != nil {
			return err
		}

		if len(keyArr) > 1 {
			if err := json.Unmarshal(keyArr[1], &b.Options); err != nil {
				return err
			}
			b.HasOpts = true
		}
	}

	return nil
}

// ActionKeys lists all keys bound to an action
type ActionKeys struct {
	Action string
	Keys   []string
}

// Describe returns the bindings of the given mode grouped by action,
// sorted by action name
func (km KeyMap) Describe(modeName string) []ActionKeys {
	keys := map[string][]string{}

	for _, entry := range km.Entries {
		if entry.Mode != modeName {
			continue
		}

		for key, binding := range entry.Bindings {
			keys[binding.Action] = append(keys[binding.Action], key)
		}
	}

	var result []ActionKeys
	for _, action := range utils.GetSortedKeys(keys) {
		slices.Sort(keys[action])
		result = append(result, ActionKeys{Action: action, Keys: keys[action]})
	}

	return result
}

package keyinput_test

import (
	"os"
	"testing"

	"bellbird-files/app/debug"
	"bellbird-files/tui/keyinput"
	"bellbird-files/tui/message"
	"bellbird-files/tui/mode"
)

func TestMain(m *testing.M) {
	debug.Disable()
	os.Exit(m.Run())
}

type component struct {
	name    string
	focused bool
}

func (c *component) Focused() bool { return c.focused }
func (c *component) Name() string  { return c.name }

const testKeyMap = `
// comments and trailing commas are fine
[
	{
		"mode": "normal",
		"components": ["FileTree"],
		"bindings": {
			"j": "line_down",
			"J": ["line_down", {"count": 5}],
			"gg": "go_to_top",
			"dd": "delete",
			"ctrl+w l": "go_to_top",
		},
	},
	{
		"mode": "prompt",
		"components": ["FileTree"],
		"bindings": {"y": "delete"},
	},
]`

func newInput(t *testing.T, data string) (*keyinput.Input, *[]string) {
	t.Helper()

	calls := &[]string{}
	record := func(name string) keyinput.ActionFunc {
		return func(opts keyinput.Options) message.StatusBarMsg {
			*calls = append(*calls, name)
			return message.StatusBarMsg{Content: name, Type: message.Success}
		}
	}

	ki := keyinput.New()
	ki.Components = []keyinput.FocusedComponent{&component{name: "FileTree", focused: true}}
	ki.Registry = keyinput.Registry{
		"go_to_top": record("go_to_top"),
		"delete":    record("delete"),
		"line_down": func(opts keyinput.Options) message.StatusBarMsg {
			*calls = append(*calls, "line_down")
			return message.StatusBarMsg{Content: string(rune('0' + opts.GetInt("count", 1)))}
		},
	}

	km, err := keyinput.ParseKeyMap([]byte(data))
	if err != nil {
		t.Fatalf("failed to parse keymap: %v", err)
	}

	if err := ki.Apply(km); err != nil {
		t.Fatalf("failed to apply keymap: %v", err)
	}

	return ki, calls
}

func TestSingleKey(t *testing.T) {
	ki, calls := newInput(t, testKeyMap)

	msgs := ki.HandleSequences("j")
	if len(msgs) != 1 || msgs[0].Content != "1" {
		t.Fatalf("expected line_down with count 1, got %v", msgs)
	}

	msgs = ki.HandleSequences("J")
	if len(msgs) != 1 || msgs[0].Content != "5" {
		t.Errorf("expected line_down with count 5, got %v", msgs)
	}

	if len(*calls) != 2 {
		t.Errorf("expected 2 calls, got %v", *calls)
	}
}

func TestSequences(t *testing.T) {
	ki, calls := newInput(t, testKeyMap)

	if msgs := ki.HandleSequences("g"); msgs != nil {
		t.Fatalf("first key of a sequence should wait, got %v", msgs)
	}

	if ki.KeySequence != "g" {
		t.Fatalf("expected pending sequence g, got %q", ki.KeySequence)
	}

	ki.HandleSequences("g")

	if len(*calls) != 1 || (*calls)[0] != "go_to_top" {
		t.Errorf("expected go_to_top, got %v", *calls)
	}

	// esc drops a pending sequence
	ki.HandleSequences("d")
	ki.HandleSequences("esc")
	ki.HandleSequences("d")
	if len(*calls) != 1 {
		t.Errorf("expected dd to be interrupted, got %v", *calls)
	}

	ki.HandleSequences("d")
	if len(*calls) != 2 || (*calls)[1] != "delete" {
		t.Errorf("expected delete, got %v", *calls)
	}

	// modifier sequences are separated by a space
	ki.HandleSequences("ctrl+w")
	ki.HandleSequences("l")
	if len(*calls) != 3 || (*calls)[2] != "go_to_top" {
		t.Errorf("expected ctrl+w l to run go_to_top, got %v", *calls)
	}
}

func TestModeAndFocus(t *testing.T) {
	ki, calls := newInput(t, testKeyMap)

	ki.HandleSequences("y")
	if len(*calls) != 0 {
		t.Fatalf("y is only bound in prompt mode, got %v", *calls)
	}

	ki.Mode = mode.Prompt
	ki.FetchKeyMap(true)

	ki.HandleSequences("y")
	if len(*calls) != 1 || (*calls)[0] != "delete" {
		t.Fatalf("expected delete in prompt mode, got %v", *calls)
	}

	ki.Mode = mode.Normal
	ki.Components[0].(*component).focused = false
	ki.FetchKeyMap(true)

	ki.HandleSequences("j")
	if len(*calls) != 1 {
		t.Errorf("unfocused components should not receive actions, got %v", *calls)
	}
}

func TestMerge(t *testing.T) {
	km, err := keyinput.ParseKeyMap([]byte(testKeyMap))
	if err != nil {
		t.Fatal(err)
	}

	user, err := keyinput.ParseKeyMap([]byte(`[
		{
			"mode": "normal",
			"components": ["FileTree"],
			"bindings": {"j": "", "n": "line_down"}
		}
	]`))
	if err != nil {
		t.Fatal(err)
	}

	km.Merge(user)

	bindings := km.Entries[0].Bindings
	if _, ok := bindings["j"]; ok {
		t.Errorf("empty action should remove the binding")
	}

	if bindings["n"].Action != "line_down" {
		t.Errorf("expected n to be bound to line_down, got %q", bindings["n"].Action)
	}

	if bindings["gg"].Action != "go_to_top" {
		t.Errorf("unrelated bindings should be kept")
	}

	if len(km.Entries) != 2 {
		t.Errorf("expected no new entry, got %d entries", len(km.Entries))
	}
}

func TestUnknownActionsAreReported(t *testing.T) {
	km, err := keyinput.ParseKeyMap([]byte(`[
		{"mode": "normal", "components": ["FileTree"], "bindings": {"z": "nope"}},
		{"mode": "visual", "components": ["FileTree"], "bindings": {}}
	]`))
	if err != nil {
		t.Fatal(err)
	}

	ki := keyinput.New()
	if err := ki.Apply(km); err == nil {
		t.Errorf("expected an error for an unknown action and mode")
	}
}

func TestDefaultKeyMap(t *testing.T) {
	km := keyinput.DefaultKeyMap()

	if len(km.Entries) == 0 {
		t.Fatalf("default keymap should not be empty")
	}

	expected := map[string]string{
		"dd": "delete",
		"yy": "copy",
		"gg": "go_to_top",
		"u":  "undo",
		"p":  "paste",
	}

	normal := km.Entries[0].Bindings
	for key, action := range expected {
		if normal[key].Action != action {
			t.Errorf("expected %s to be bound to %s, got %q", key, action, normal[key].Action)
		}
	}
}

func TestDescribe(t *testing.T) {
	km, err := keyinput.ParseKeyMap([]byte(testKeyMap))
	if err != nil {
		t.Fatal(err)
	}

	described := km.Describe("normal")

	// delete, go_to_top, line_down
	if len(described) != 3 {
		t.Fatalf("expected 3 actions, got %v", described)
	}

	top := described[1]
	if top.Action != "go_to_top" || len(top.Keys) != 2 || top.Keys[0] != "ctrl+w l" || top.Keys[1] != "gg" {
		t.Errorf("unexpected keys for go_to_top: %v", top)
	}

	if keys := described[2].Keys; len(keys) != 2 || keys[0] != "J" || keys[1] != "j" {
		t.Errorf("unexpected keys for line_down: %v", keys)
	}
}

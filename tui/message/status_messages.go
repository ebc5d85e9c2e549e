package message

var Response = struct {
	Yes, No, Quit, ChangeDir, Refresh string
}{
	Yes:       "y",
	No:        "n",
	Quit:      "q",
	ChangeDir: "cd",
	Refresh:   "refresh",
}

var StatusBar = struct {
	RemovePromptDirContent, RemovePrompt, Copied, Cut, Pasted,
	PasteFailed, Deleted, Restored, NothingToUndo, NothingToPaste,
	Renamed, HiddenShown, HiddenHidden, Refreshed, UnknownCommand,
	NoPreviousDir string
}{
	RemovePromptDirContent: "Delete `%s` and all of its content? [y(es),n(o)]",
	RemovePrompt:           "Delete `%s`? [y(es),n(o)]",
	Copied:                 "%d item(s) copied",
	Cut:                    "%d item(s) cut",
	Pasted:                 "%d item(s) pasted into %s",
	PasteFailed:            "%d of %d item(s) failed: %v",
	Deleted:                "Deleted `%s`, press u to undo",
	Restored:               "Restored `%s`",
	NothingToUndo:          "Nothing to undo",
	NothingToPaste:         "Clipboard is empty",
	Renamed:                "Renamed to `%s`",
	HiddenShown:            "Showing hidden files",
	HiddenHidden:           "Hiding hidden files",
	Refreshed:              "Refreshed",
	UnknownCommand:         "Not a command: %s",
	NoPreviousDir:          "No previous directory",
}

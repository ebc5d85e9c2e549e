package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	tea "github.com/charmbracelet/bubbletea/v2"

	"bellbird-files/app"
	"bellbird-files/app/config"
	"bellbird-files/app/debug"
	"bellbird-files/app/state"
	"bellbird-files/app/utils/clipboard"
	"bellbird-files/tui"
)

func main() {
	// parse flags for stuff like --debug etc.
	arg.MustParse(&app.CliArgs)
	debug.EnableDebug(app.CliArgs.Debug)

	conf := config.New()
	conf.CleanMetaFile()

	st := state.New()
	if err := st.Read(); err != nil {
		debug.LogErr(err)
	}

	// copy and cut still work inside the app without a system clipboard
	if err := clipboard.Init(); err != nil {
		debug.LogWarn("system clipboard unavailable", err)
	}

	p := tea.NewProgram(tui.InitialModel(conf, st, conf.StartDirectory()))

	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}

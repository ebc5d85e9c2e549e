package app

import (
	"os"
	"path/filepath"

	"bellbird-files/app/debug"
)

// Args holds the command line arguments parsed by go-arg
type Args struct {
	Dir         string `arg:"positional" help:"directory to browse (defaults to the last or configured directory)"`
	Debug       bool   `arg:"--debug" help:"write debug messages to the log"`
	ShowHidden  bool   `arg:"--show-hidden" help:"show dot files and directories"`
	NoNerdFonts bool   `arg:"--no-nerd-fonts" help:"disable nerd font icons"`
}

// Description is shown on top of the generated help text
func (Args) Description() string {
	return Name() + " - a terminal file browser\n"
}

// CliArgs holds the parsed arguments of the running program.
// Stays zero valued in tests.
var CliArgs Args

func IsDev() bool {
	return os.Getenv("CHANNEL") == "dev"
}

func Name() string {
	return "Bellbird Files"
}

// ModuleName is the name used for directories and files on disk.
// A CHANNEL env var keeps dev builds apart from the installed version.
func ModuleName() string {
	moduleName := "bellbird-files"
	if channel := os.Getenv("CHANNEL"); channel != "" {
		moduleName += "-" + channel
	}

	return moduleName
}

// ConfigDir returns the config directory
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		debug.LogErr("Could not get config directory in app.go/ConfigDir()", err)
		return "", err
	}

	confDir := filepath.Join(configDir, ModuleName())

	if _, err := os.Stat(confDir); err != nil {
		os.MkdirAll(confDir, 0755)
	}

	return confDir, nil
}

// ConfigFile returns the path to the config file
func ConfigFile(isMetaInfo bool) (string, error) {
	filename := ModuleName()
	if isMetaInfo {
		filename += "_metainfos"
	} else {
		filename += ".conf"
	}

	configDir, err := ConfigDir()
	if err != nil {
		debug.LogErr("Could not get config dir in app.go/ConfigFile", err)
		return "", err
	}

	return filepath.Join(configDir, filename), nil
}

// StateFile returns the path to the history file
func StateFile() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, ModuleName()+"_state"), nil
}

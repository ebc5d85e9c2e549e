package debug

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const appLogFile = "app.log"
const errorLogFile = "error.log"

type ErrorLvl int

const (
	Info ErrorLvl = iota
	Debug
	Warn
	Error
)

var errLvl = map[ErrorLvl]string{
	Info:  "INFO",
	Debug: "DEBUG",
	Warn:  "WARN",
	Error: "ERROR",
}

func (e ErrorLvl) String() string {
	return errLvl[e]
}

var (
	mu sync.Mutex

	// directory the log files are written to.
	// Resolved lazily from the user config dir if empty
	logDir string

	// debug messages are dropped unless enabled
	debugEnabled bool

	// disabled drops every message, used by tests
	disabled bool
)

// SetLogDir changes the directory log files are written to
func SetLogDir(dir string) {
	mu.Lock()
	defer mu.Unlock()
	logDir = dir
}

// EnableDebug toggles whether LogDebug writes anything
func EnableDebug(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	debugEnabled = enable
}

// Disable silences all log output
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	disabled = true
}

func LogInfo(args ...any) {
	logMsg(Info, args...)
}

func LogDebug(args ...any) {
	logMsg(Debug, args...)
}

func LogWarn(args ...any) {
	logMsg(Warn, args...)
}

func LogErr(args ...any) {
	logMsg(Error, args...)
}

func logMsg(level ErrorLvl, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if disabled || (level == Debug && !debugEnabled) {
		return
	}

	dir, err := resolveLogDir()
	if err != nil {
		return
	}

	logFile := appLogFile
	if level == Error {
		logFile = errorLogFile
	}

	file, err := os.OpenFile(
		filepath.Join(dir, logFile),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0644,
	)
	if err != nil {
		// nowhere to report this, the tui owns stdout
		return
	}
	defer file.Close()

	logger := log.New(file, "", 0)
	logger.Printf(
		"[%s] %s: %s\n",
		time.Now().Format("15:04:05"),
		level.String(), strings.TrimSuffix(fmt.Sprintln(args...), "\n"),
	)
}

// resolveLogDir duplicates app.ConfigDir since app imports this package
func resolveLogDir() (string, error) {
	if logDir != "" {
		return logDir, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	appName := "bellbird-files"
	if channel := os.Getenv("CHANNEL"); channel != "" {
		appName += "-" + channel
	}

	dir := filepath.Join(configDir, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	logDir = dir
	return dir, nil
}

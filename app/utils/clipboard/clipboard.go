package clipboard

import (
	"errors"
	"os"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	nativeclip "golang.design/x/clipboard"
)

var (
	useNative   = false
	useFallback = false
	ready       = false
)

// Init picks a clipboard backend.
// X11, macOS and Windows use the native cgo backend, everything else
// (mostly wayland) goes through atotto/clipboard which shells out to
// wl-copy, xclip or xsel.
func Init() error {
	switch runtime.GOOS {
	case "windows", "darwin":
		useNative = true

	case "linux", "freebsd", "openbsd", "netbsd":
		display := os.Getenv("DISPLAY")
		wayland := os.Getenv("WAYLAND_DISPLAY")

		switch {
		case wayland != "":
			useFallback = true

		case display != "":
			useNative = true

		default:
			return errors.New("no clipboard backend detected (no DISPLAY or WAYLAND_DISPLAY)")
		}
	default:
		return errors.New("unsupported OS for clipboard")
	}

	if useNative {
		if err := nativeclip.Init(); err != nil {
			// cgo backend unavailable, try the command line tools instead
			useNative = false
			useFallback = true
		}
	}

	if useFallback && clipboard.Unsupported {
		return errors.New("no clipboard utility found (wl-copy, xclip or xsel)")
	}

	ready = true
	return nil
}

// Ready reports whether Init found a usable backend
func Ready() bool {
	return ready
}

func Write(text string) error {
	if !ready {
		return errors.New("clipboard not initialized")
	}

	if useNative {
		nativeclip.Write(nativeclip.FmtText, []byte(text))
		return nil
	}

	if useFallback {
		return clipboard.WriteAll(text)
	}

	return errors.New("no clipboard backend available for Write")
}

// WritePaths puts one path per line into the system clipboard
func WritePaths(paths []string) error {
	return Write(strings.Join(paths, "\n"))
}

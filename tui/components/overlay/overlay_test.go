package overlay_test

import (
	"strings"
	"testing"

	"bellbird-files/tui/components/overlay"
)

func TestPlace(t *testing.T) {
	bg := strings.Join([]string{
		"..........",
		"..........",
		"..........",
		"..........",
	}, "\n")

	var o overlay.Overlay
	o.SetContent("ab\ncd")
	o.SetPosition(3, 1)

	expected := strings.Join([]string{
		"..........",
		"...ab.....",
		"...cd.....",
		"..........",
	}, "\n")

	if got := o.Place(bg); got != expected {
		t.Errorf("expected\n%s\ngot\n%s", expected, got)
	}
}

func TestPlaceClampsPosition(t *testing.T) {
	bg := "....\n...."

	var o overlay.Overlay
	o.SetContent("ab")
	o.SetPosition(10, 10)

	expected := "....\n..ab"
	if got := o.Place(bg); got != expected {
		t.Errorf("expected\n%s\ngot\n%s", expected, got)
	}
}

func TestCenter(t *testing.T) {
	bg := strings.Repeat(".", 10)

	var o overlay.Overlay
	o.SetContent("ab")
	o.Center(10, 0)

	if got := o.Place(bg); got != "....ab...." {
		t.Errorf("expected the overlay to be centered, got %q", got)
	}
}

func TestLargerOverlayReplacesBackground(t *testing.T) {
	var o overlay.Overlay
	o.SetContent("abcdef\nghijkl")

	if got := o.Place("ab"); got != "abcdef\nghijkl" {
		t.Errorf("expected the overlay only, got %q", got)
	}
}

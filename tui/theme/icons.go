package theme

type Icon struct {
	Nerd string
	Alt  string
}

func (i Icon) String(nerdFonts bool) string {
	if nerdFonts {
		return i.Nerd
	}
	return i.Alt
}

var (
	IconDirClosed = Icon{Nerd: "", Alt: "▸"}
	IconDirOpen   = Icon{Nerd: "", Alt: "▾"}
	IconFile      = Icon{Nerd: "", Alt: " "}
	IconParent    = Icon{Nerd: "", Alt: "↑"}
	IconPen       = Icon{Nerd: "", Alt: ">"}
	IconMarked    = Icon{Nerd: "", Alt: "*"}
	IconCut       = Icon{Nerd: "", Alt: "x"}
	IconCopy      = Icon{Nerd: "", Alt: "+"}
	IconUndo      = Icon{Nerd: "", Alt: "u"}
)

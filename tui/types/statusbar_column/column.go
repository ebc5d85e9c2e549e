package statusbarcolumn

type Column int

const (
	General Column = iota
	Info
	KeyInfo
)

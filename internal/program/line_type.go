package program

// LineType defines the type of an output line.
type LineType uint8

// line types.
const (
	UnknownLine     LineType = 0
	InstructionLine LineType = 1 << iota
	LabelLine
	OriginLine // switches the address context of the following lines
)

// IsType returns whether the line is of given type.
func (l Line) IsType(typ LineType) bool {
	return l.Type&typ != 0
}

// SetType sets the type of the line.
func (l *Line) SetType(typ LineType) {
	l.Type |= typ
}

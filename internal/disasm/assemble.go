package disasm

import (
	"github.com/retroenv/profidisasm/internal/labels"
	"github.com/retroenv/profidisasm/internal/program"
)

// injections provides the text blocks that are scheduled before output lines.
type injections interface {
	Lines() []int
	Injection(line int) []string
}

// assemble merges the instruction lines with the injected lines. Injected lines are
// inserted before their target line, target lines are processed in ascending order and the
// running offset accounts for all lines inserted before.
func assemble(lines []program.Line, inj injections) []program.Line {
	targets := inj.Lines()
	if len(targets) == 0 {
		return lines
	}

	result := make([]program.Line, 0, len(lines)+len(targets))
	var next int // next instruction line to copy

	for _, target := range targets {
		position := min(target, len(lines))
		result = append(result, lines[next:position]...)
		next = position

		for _, text := range inj.Injection(target) {
			result = append(result, injectedLine(text))
		}
	}
	return append(result, lines[next:]...)
}

func injectedLine(text string) program.Line {
	line := program.Line{Text: text}
	if address, ok := labels.IsOrigin(text); ok {
		line.Address = address
		line.SetType(program.OriginLine)
	} else {
		line.SetType(program.LabelLine)
	}
	return line
}

// Package program represents a disassembled program as ordered output lines.
package program

import (
	"github.com/retroenv/profidisasm/internal/instruction"
)

// Line is a single line of the disassembly output. It either represents a decoded
// instruction or literal text like a label definition or an origin directive.
type Line struct {
	Instruction *instruction.Instruction // nil for injected text
	Address     int                      // logical address of the instruction
	Type        LineType
	Text        string
}

// Program is the result of a disassembler run.
type Program struct {
	BaseAddress  int // logical address of the first instruction
	Size         int // number of decoded bytes
	Instructions int
	Lines        []Line
}

// New creates a new program for the given base address.
func New(baseAddress int) *Program {
	return &Program{
		BaseAddress: baseAddress,
	}
}

// AddInstruction appends an instruction line.
func (p *Program) AddInstruction(ins instruction.Instruction, address int, text string) {
	p.Lines = append(p.Lines, Line{
		Instruction: &ins,
		Address:     address,
		Type:        InstructionLine,
		Text:        text,
	})
	p.Instructions++
	p.Size += ins.Size()
}

// Bytes returns the encoded bytes of all instruction lines in output order.
func (p *Program) Bytes() []byte {
	data := make([]byte, 0, p.Size)
	for _, line := range p.Lines {
		if line.Instruction != nil {
			data = append(data, line.Instruction.Bytes()...)
		}
	}
	return data
}

// Texts returns the text of all lines.
func (p *Program) Texts() []string {
	texts := make([]string, len(p.Lines))
	for i, line := range p.Lines {
		texts[i] = line.Text
	}
	return texts
}

package disasm

import (
	"fmt"
	"strings"

	"github.com/retroenv/profidisasm/internal/instruction"
)

const hexCommentColumn = 20

// labelResolver converts an address operand to a label name.
type labelResolver interface {
	Resolve(address uint16) string
}

// render returns the assembly text of a decoded instruction. Address operands are passed
// to the resolver, which can schedule the label definitions as a side effect.
func (dis *Disasm) render(ins instruction.Instruction, def instruction.Definition, resolver labelResolver) string {
	args := make([]string, 0, len(def.Operands))
	var start int

	for _, op := range def.Operands {
		switch op.Kind {
		case instruction.Immediate:
			args = append(args, fmt.Sprintf("%s%02x", dis.options.ImmediatePrefix, ins.Operands[start]))

		case instruction.Address:
			address := uint16(ins.Operands[start]) | uint16(ins.Operands[start+1])<<8
			args = append(args, resolver.Resolve(address))

		default:
			args = append(args, strings.ToLower(op.Name))
		}
		start += op.Size()
	}

	code := def.Name + " " + strings.Join(args, ",")
	if !dis.options.HexComments {
		return code
	}
	return code + dis.hexComment(code, ins)
}

// hexComment returns the instruction bytes as comment, aligned to the hex comment column.
func (dis *Disasm) hexComment(code string, ins instruction.Instruction) string {
	prefix := ""
	if dis.options.HexPrefix {
		prefix = "0x"
	}

	data := ins.Bytes()
	values := make([]string, len(data))
	for i, b := range data {
		values[i] = fmt.Sprintf("%s%02x", prefix, b)
	}

	padding := max(hexCommentColumn-len(code), 1)
	return strings.Repeat(" ", padding) + "; " + strings.Join(values, " ")
}

// Package instruction contains the fundamental types for instruction definitions
// and decoded instructions.
package instruction

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOperand is returned when an operand token of an instruction table is not recognized.
var ErrUnknownOperand = errors.New("unknown operand token")

// ShapeKind is the behavioral class of an operand.
type ShapeKind int

const (
	// Token is a plain token like a register name that does not consume operand bytes.
	Token ShapeKind = iota
	// Immediate is a single byte immediate value.
	Immediate
	// Address is a two byte little endian address.
	Address
)

// Size returns the number of operand bytes consumed by the shape kind.
func (k ShapeKind) Size() int {
	switch k {
	case Immediate:
		return 1
	case Address:
		return 2
	default:
		return 0
	}
}

func (k ShapeKind) String() string {
	switch k {
	case Token:
		return "token"
	case Immediate:
		return "immediate"
	case Address:
		return "address"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// Operand describes one operand of an instruction definition.
type Operand struct {
	Name string // canonical token name, for example "A", "KO" or "3"
	Kind ShapeKind
}

// Size returns the number of operand bytes consumed by the operand.
func (o Operand) Size() int {
	return o.Kind.Size()
}

// reserved operand tokens of the instruction table.
const (
	constantToken = "KO" // 8 bit constant
	channelToken  = "KA" // 8 bit I/O channel
	addressToken  = "ADR"
)

var plainTokens = map[string]struct{}{
	"A": {}, "B": {}, "C": {}, "D": {}, "E": {}, "H": {}, "L": {}, "M": {}, "F": {},
	"SP": {}, "PSW": {},
}

// ParseOperand converts an instruction table operand token to an operand.
// Tokens are matched case insensitively, the digits 0 to 7 are index tokens.
func ParseOperand(token string) (Operand, error) {
	name := strings.ToUpper(strings.TrimSpace(token))

	switch name {
	case constantToken, channelToken:
		return Operand{Name: name, Kind: Immediate}, nil
	case addressToken:
		return Operand{Name: name, Kind: Address}, nil
	}

	if _, ok := plainTokens[name]; ok {
		return Operand{Name: name, Kind: Token}, nil
	}
	if len(name) == 1 && name[0] >= '0' && name[0] <= '7' {
		return Operand{Name: name, Kind: Token}, nil
	}

	return Operand{}, fmt.Errorf("%w '%s'", ErrUnknownOperand, token)
}

// Definition is an instruction table entry.
type Definition struct {
	Opcode   byte
	Name     string
	Operands []Operand
}

// OperandSize returns the number of operand bytes that follow the opcode.
func (d Definition) OperandSize() int {
	var size int
	for _, op := range d.Operands {
		size += op.Size()
	}
	return size
}

// Size returns the total instruction size including the opcode byte.
func (d Definition) Size() int {
	return 1 + d.OperandSize()
}

// Instruction is a decoded instruction consisting of the opcode and its raw operand bytes.
type Instruction struct {
	Opcode   byte
	Operands []byte
}

// Size returns the number of bytes the instruction occupies in the byte stream.
func (i Instruction) Size() int {
	return 1 + len(i.Operands)
}

// Bytes returns the encoded instruction bytes.
func (i Instruction) Bytes() []byte {
	b := make([]byte, 0, i.Size())
	b = append(b, i.Opcode)
	return append(b, i.Operands...)
}

func (i Instruction) String() string {
	operands := make([]string, len(i.Operands))
	for j, b := range i.Operands {
		operands[j] = fmt.Sprintf("%02x", b)
	}
	return fmt.Sprintf("Instruction(opcode=%02x, operand=%s)", i.Opcode, strings.Join(operands, ","))
}

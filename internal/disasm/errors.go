package disasm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOpcode is matched by UnknownOpcodeError.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrTruncatedOperand is matched by TruncatedOperandError.
	ErrTruncatedOperand = errors.New("truncated operand")
)

// UnknownOpcodeError is returned when an opcode has no instruction definition and
// unknown opcodes are not allowed.
type UnknownOpcodeError struct {
	Opcode  byte
	Address int
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode %02x at address %04x", e.Opcode, e.Address)
}

// Is reports whether the error matches ErrUnknownOpcode.
func (e *UnknownOpcodeError) Is(target error) bool {
	return target == ErrUnknownOpcode
}

// TruncatedOperandError is returned when the byte stream ends before all operand bytes
// of an instruction could be read.
type TruncatedOperandError struct {
	Opcode    byte
	Address   int
	Needed    int // operand bytes required by the instruction definition
	Available int // operand bytes left in the stream
}

func (e *TruncatedOperandError) Error() string {
	return fmt.Sprintf("truncated operand of opcode %02x at address %04x: needs %d bytes but %d available",
		e.Opcode, e.Address, e.Needed, e.Available)
}

// Is reports whether the error matches ErrTruncatedOperand.
func (e *TruncatedOperandError) Is(target error) bool {
	return target == ErrTruncatedOperand
}

// Package options contains the program options.
package options

import (
	"io"
)

// Default values of the Profi-5E memory layout.
const (
	DefaultBaseAddress  = 0x8000
	DefaultBinaryLength = 0x87ff // maximum binary size of the Profi-5E
)

// Parameters contains file path options.
type Parameters struct {
	Input   string // input binary or hex text file
	Output  string // output .asm file, defaults to the input name with .asm extension
	Catalog string // instruction table file, defaults to the embedded Profi-5E table
	Batch   string // batch process files matching a pattern
}

// Flags contains behavior options.
type Flags struct {
	Text         bool // read the input as hex text instead of binary
	BinaryOffset int  // offset of the first byte to disassemble in the input file
	BinaryLength int  // number of bytes to disassemble from the input file
	AssembleTest bool // verify that the decoded instructions recreate the input
	Schema       bool // print the instruction table JSON schema and exit
	Debug        bool
	Quiet        bool
}

// OutputFlags contains output formatting options.
type OutputFlags struct {
	Detailed    bool // write an address prefixed .dump file next to the output
	NoHexPrefix bool // strip the 0x prefix from all hex output
	Verbose     bool // print the listing to the console
	Color       bool // colorize the console listing
	Trace       bool // print every decoded instruction to stderr
}

// Program options of the disassembler.
type Program struct {
	Parameters
	Flags
	OutputFlags
}

// Disassembler defines options to control the disassembler.
type Disassembler struct {
	BaseAddress     int       // logical address of the first decoded byte
	ImmediatePrefix string    // prefix of single byte immediate operands
	Trace           io.Writer // receives a trace of every decoded instruction if set

	AllowUnknownOpcodes bool // output unknown opcodes as placeholder instead of failing
	ExactLabels         bool // pre-scan the stream to place forward labels exactly
	HexComments         bool // append the instruction bytes as comment
	HexPrefix           bool // prefix the bytes of the hex comment with 0x
}

// NewProgram returns a new program options instance with default options.
func NewProgram() Program {
	return Program{
		Flags: Flags{
			BinaryLength: DefaultBinaryLength,
		},
	}
}

// NewDisassembler returns a new options instance with default options.
func NewDisassembler() Disassembler {
	return Disassembler{
		BaseAddress: DefaultBaseAddress,
		HexPrefix:   true,
	}
}

// Package disasm implements the Profi-5E disassembler. It decodes a byte stream in a single
// forward pass, renders every instruction and inserts label definitions before the output
// lines of referenced addresses.
package disasm

import (
	"context"
	"fmt"

	"github.com/k0kubun/pp/v3"
	"github.com/retroenv/profidisasm/internal/catalog"
	"github.com/retroenv/profidisasm/internal/instruction"
	"github.com/retroenv/profidisasm/internal/labels"
	"github.com/retroenv/profidisasm/internal/options"
	"github.com/retroenv/profidisasm/internal/program"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/exp/slices"
)

// Disasm implements a disassembler. It holds no per run state and can be used for
// multiple runs, also concurrently.
type Disasm struct {
	logger  *log.Logger
	catalog *catalog.Catalog
	options options.Disassembler
	tracer  *pp.PrettyPrinter
}

// run contains the state of a single disassembler run.
type run struct {
	data     []byte
	cursor   int // index of the next byte to decode
	address  int // logical address of the next byte to decode
	line     int // output line of the next instruction
	index    *labels.Index
	resolver *labels.Resolver
	app      *program.Program
}

// New creates a new disassembler that uses the passed catalog to decode instructions.
func New(logger *log.Logger, cat *catalog.Catalog, options options.Disassembler) *Disasm {
	dis := &Disasm{
		logger:  logger,
		catalog: cat,
		options: options,
	}

	if options.Trace != nil {
		dis.tracer = pp.New()
		dis.tracer.SetColoringEnabled(false)
		dis.tracer.SetOutput(options.Trace)
	}
	return dis
}

// Process disassembles the byte stream and returns the program containing the ordered
// output lines.
func (dis *Disasm) Process(ctx context.Context, data []byte) (*program.Program, error) {
	index := labels.NewIndex()
	if dis.options.ExactLabels {
		if err := dis.prescan(ctx, data, index); err != nil {
			return nil, fmt.Errorf("scanning instruction addresses: %w", err)
		}
	}

	r := &run{
		data:     data,
		address:  dis.options.BaseAddress,
		index:    index,
		resolver: labels.NewResolver(index, dis.options.BaseAddress, len(data)),
		app:      program.New(dis.options.BaseAddress),
	}

	for r.cursor < len(r.data) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := dis.step(r); err != nil {
			return nil, err
		}
	}

	dis.logger.Debug("Decoded instructions",
		log.Int("instructions", r.app.Instructions),
		log.Int("bytes", r.cursor),
		log.Int("labels", len(r.resolver.Lines())))

	r.app.Lines = assemble(r.app.Lines, r.resolver)
	return r.app, nil
}

// step decodes and renders the instruction at the cursor and advances the cursor.
func (dis *Disasm) step(r *run) error {
	ins, def, err := dis.decode(r.data, r.cursor, r.address)
	if err != nil {
		return err
	}

	text := dis.render(ins, def, r.resolver)
	r.app.AddInstruction(ins, r.address, text)

	if dis.tracer != nil {
		_, _ = fmt.Fprintf(dis.options.Trace, "%04x line %d: %s ", r.address, r.line, def.Name)
		_, _ = dis.tracer.Println(ins)
	}

	r.index.Record(r.address, r.line)
	r.line++
	r.cursor += ins.Size()
	r.address += ins.Size()
	return nil
}

// decode reads the instruction at the given stream position.
func (dis *Disasm) decode(data []byte, cursor, address int) (instruction.Instruction, instruction.Definition, error) {
	opcode := data[cursor]
	def, err := dis.definition(opcode, address)
	if err != nil {
		return instruction.Instruction{}, instruction.Definition{}, err
	}

	size := def.OperandSize()
	available := len(data) - cursor - 1
	if size > available {
		return instruction.Instruction{}, instruction.Definition{}, &TruncatedOperandError{
			Opcode:    opcode,
			Address:   address,
			Needed:    size,
			Available: available,
		}
	}

	ins := instruction.Instruction{
		Opcode:   opcode,
		Operands: slices.Clone(data[cursor+1 : cursor+1+size]),
	}
	return ins, def, nil
}

// definition returns the catalog definition of the opcode or a placeholder definition
// if unknown opcodes are allowed.
func (dis *Disasm) definition(opcode byte, address int) (instruction.Definition, error) {
	def, ok := dis.catalog.Lookup(opcode)
	if ok {
		return def, nil
	}
	if !dis.options.AllowUnknownOpcodes {
		return instruction.Definition{}, &UnknownOpcodeError{Opcode: opcode, Address: address}
	}

	dis.logger.Debug("Unknown opcode",
		log.Hex("opcode", opcode),
		log.Hex("address", address))
	return catalog.Placeholder(opcode), nil
}

// prescan decodes the instruction sizes of the whole stream to record the output line of
// every instruction before rendering, this makes forward label placement exact.
// The address following the last instruction is recorded as the line after the output.
func (dis *Disasm) prescan(ctx context.Context, data []byte, index *labels.Index) error {
	address := dis.options.BaseAddress
	var line int
	for cursor := 0; cursor < len(data); line++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		ins, _, err := dis.decode(data, cursor, address)
		if err != nil {
			return err
		}

		index.Record(address, line)
		cursor += ins.Size()
		address += ins.Size()
	}

	index.Record(address, line)
	return nil
}

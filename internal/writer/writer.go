// Package writer implements the assembly listing and dump file writing functionality.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/profidisasm/internal/program"
)

const (
	hexPrefix    = "0x"
	dumpSpacing  = "     "
	originMarker = "######"
)

// Writer implements the output writing of a disassembled program.
type Writer struct {
	app     *program.Program
	options Options
	writer  io.Writer
}

// Options of the writer.
type Options struct {
	NoHexPrefix bool // strip the 0x prefix from all output lines
	Color       bool // colorize the listing using terminal escape codes
}

// New creates a new writer.
func New(app *program.Program, writer io.Writer, options Options) *Writer {
	return &Writer{
		app:     app,
		options: options,
		writer:  writer,
	}
}

// WriteListing writes all output lines of the program.
func (w Writer) WriteListing() error {
	if w.options.Color {
		return w.writeColored()
	}

	for _, line := range w.app.Lines {
		if _, err := fmt.Fprintln(w.writer, w.text(line)); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	return nil
}

// WriteDump writes all output lines of the program prefixed with the address of the
// instruction. Lines that are not instructions are prefixed with a marker instead.
func (w Writer) WriteDump() error {
	marker := originMarker
	if w.options.NoHexPrefix {
		marker = marker[len(hexPrefix):]
	}

	for _, line := range w.app.Lines {
		var err error
		switch {
		case line.IsType(program.InstructionLine) && w.options.NoHexPrefix:
			_, err = fmt.Fprintf(w.writer, "%04x%s%s\n", line.Address, dumpSpacing, w.text(line))
		case line.IsType(program.InstructionLine):
			_, err = fmt.Fprintf(w.writer, "%s%04x%s%s\n", hexPrefix, line.Address, dumpSpacing, w.text(line))
		default:
			_, err = fmt.Fprintf(w.writer, "%s%s%s\n", marker, dumpSpacing, w.text(line))
		}
		if err != nil {
			return fmt.Errorf("writing dump line: %w", err)
		}
	}
	return nil
}

func (w Writer) writeColored() error {
	var buf strings.Builder
	for _, line := range w.app.Lines {
		buf.WriteString(w.text(line))
		buf.WriteByte('\n')
	}

	if _, err := io.WriteString(w.writer, Colorize(buf.String())); err != nil {
		return fmt.Errorf("writing colored listing: %w", err)
	}
	return nil
}

func (w Writer) text(line program.Line) string {
	if w.options.NoHexPrefix {
		return strings.ReplaceAll(line.Text, hexPrefix, "")
	}
	return line.Text
}

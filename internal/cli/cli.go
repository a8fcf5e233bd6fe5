// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/profidisasm/internal/options"
)

// ParseFlags parses command line flags and returns program and disassembler options
func ParseFlags() (options.Program, options.Disassembler, error) {
	return parseFlags(os.Args[0], os.Args[1:])
}

func parseFlags(name string, arguments []string) (options.Program, options.Disassembler, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	opts := options.NewProgram()
	disasmOptions := options.NewDisassembler()
	readOptionFlags(flags, &opts)
	readDisasmOptionFlags(flags, &disasmOptions)

	err := flags.Parse(arguments)
	if err != nil {
		return opts, disasmOptions, &UsageError{flags: flags, msg: err.Error()}
	}

	if opts.Schema {
		return opts, disasmOptions, nil
	}

	args := flags.Args()
	if len(args) == 0 && opts.Batch == "" && opts.Input == "" {
		return opts, disasmOptions, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, disasmOptions, err
	}

	if opts.Batch == "" && len(args) > 0 {
		opts.Input = args[0]
	}

	applyOutputFlags(opts, &disasmOptions)

	if err := validateOptionCombinations(opts, disasmOptions); err != nil {
		return opts, disasmOptions, err
	}

	return opts, disasmOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("%s\n\n", e.msg)
	}
	fmt.Printf("usage: profidisasm [options] <file to disassemble>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to disassemble, please pass the file to disassemble as last argument", arg),
			}
		}
	}
	return nil
}

// validateOptionCombinations checks for options that can not be used together.
func validateOptionCombinations(opts options.Program, disasmOpts options.Disassembler) error {
	if opts.Color && !opts.Verbose {
		return errors.New("the -color option requires the console listing option -v")
	}
	if opts.Batch != "" && opts.Input != "" {
		return errors.New("the -batch option can not be combined with an input file")
	}
	if disasmOpts.ImmediatePrefix == "0x" && opts.NoHexPrefix {
		return errors.New("the immediate prefix 0x would be stripped by the -n0x option")
	}
	return nil
}

// applyOutputFlags derives disassembler options from the output flags.
func applyOutputFlags(opts options.Program, disasmOpts *options.Disassembler) {
	disasmOpts.HexPrefix = !opts.NoHexPrefix
	if opts.Trace {
		disasmOpts.Trace = os.Stderr
	}
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input binary or hex text file")
	flags.StringVar(&opts.Output, "o", "", "name of the output .asm file, defaults to the input name with .asm extension")
	flags.StringVar(&opts.Catalog, "catalog", "", "name of a JSON or YAML instruction table file to use instead of the built in Profi-5E table")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically .asm file naming, for example *.bin")
	flags.BoolVar(&opts.Text, "t", false, "read the input file as hex text, whitespace and 0x prefixes are ignored")
	flags.Var(&hexValue{value: &opts.BinaryOffset}, "boff", "offset of the first byte to disassemble in the input file (hex)")
	flags.Var(&hexValue{value: &opts.BinaryLength}, "blen", "number of bytes to disassemble from the input file (hex)")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.AssembleTest, "verify", false, "verify that the decoded instructions recreate the input and all labels are defined")
	flags.BoolVar(&opts.Schema, "schema", false, "print the JSON schema of the instruction table format and exit")

	flags.BoolVar(&opts.Detailed, "d", false, "write a detailed .dump file with the address of every instruction")
	flags.BoolVar(&opts.NoHexPrefix, "n0x", false, "strip the 0x prefix from all hex values in the output")
	flags.BoolVar(&opts.Verbose, "v", false, "print the listing on the console")
	flags.BoolVar(&opts.Color, "color", false, "colorize the console listing")
	flags.BoolVar(&opts.Trace, "vv", false, "print every decoded instruction to stderr")
}

func readDisasmOptionFlags(flags *flag.FlagSet, opts *options.Disassembler) {
	flags.Var(&hexValue{value: &opts.BaseAddress, bits: 16}, "off", "logical address of the first disassembled byte (hex)")
	flags.StringVar(&opts.ImmediatePrefix, "immprefix", "", "prefix of single byte immediate values, for example 0x")
	flags.BoolVar(&opts.HexComments, "x", false, "output the instruction bytes as hex values in comments")
	flags.BoolVar(&opts.AllowUnknownOpcodes, "aih", false, "output unknown opcodes as placeholder instead of failing")
	flags.BoolVar(&opts.ExactLabels, "exact", false, "scan all instruction addresses first to place forward labels exactly")
}

// hexValue is a flag value for a hex number with an optional 0x prefix.
type hexValue struct {
	value *int
	bits  int
}

func (h *hexValue) String() string {
	if h.value == nil {
		return ""
	}
	return fmt.Sprintf("0x%x", *h.value)
}

func (h *hexValue) Set(s string) error {
	bits := h.bits
	if bits == 0 {
		bits = strconv.IntSize - 1
	}

	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	value, err := strconv.ParseUint(s, 16, bits)
	if err != nil {
		return fmt.Errorf("parsing hex value '%s': %w", s, err)
	}
	*h.value = int(value)
	return nil
}

package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/profidisasm/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags_DisasmOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Disassembler
	}{
		{
			name: "default flags",
			args: []string{"prog", "test.bin"},
			want: options.Disassembler{BaseAddress: 0x8000, HexPrefix: true},
		},
		{
			name: "hex comments flag",
			args: []string{"prog", "-x", "test.bin"},
			want: options.Disassembler{BaseAddress: 0x8000, HexComments: true, HexPrefix: true},
		},
		{
			name: "no hex prefix flag",
			args: []string{"prog", "-x", "-n0x", "test.bin"},
			want: options.Disassembler{BaseAddress: 0x8000, HexComments: true},
		},
		{
			name: "base address flag",
			args: []string{"prog", "-off", "0x2000", "test.bin"},
			want: options.Disassembler{BaseAddress: 0x2000, HexPrefix: true},
		},
		{
			name: "all disasm flags",
			args: []string{"prog", "-off", "1000", "-immprefix", "$", "-aih", "-exact", "test.bin"},
			want: options.Disassembler{
				BaseAddress:         0x1000,
				ImmediatePrefix:     "$",
				AllowUnknownOpcodes: true,
				ExactLabels:         true,
				HexPrefix:           true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			_, got, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlags_ProgramOptions(t *testing.T) {
	opts, disasmOpts, err := parseFlags("prog", []string{
		"-boff", "0x10", "-blen", "ff", "-t", "-d", "-v", "-color", "-vv", "-verify",
		"-catalog", "table.json", "-o", "out.asm", "monitor.hex",
	})
	assert.NoError(t, err)

	assert.Equal(t, "monitor.hex", opts.Input)
	assert.Equal(t, "out.asm", opts.Output)
	assert.Equal(t, "table.json", opts.Catalog)
	assert.Equal(t, 0x10, opts.BinaryOffset)
	assert.Equal(t, 0xff, opts.BinaryLength)
	assert.True(t, opts.Text)
	assert.True(t, opts.Detailed)
	assert.True(t, opts.Verbose)
	assert.True(t, opts.Color)
	assert.True(t, opts.AssembleTest)
	assert.True(t, opts.Trace)
	assert.NotNil(t, disasmOpts.Trace)
}

func TestParseFlags_Defaults(t *testing.T) {
	opts, _, err := parseFlags("prog", []string{"-i", "monitor.bin"})
	assert.NoError(t, err)
	assert.Equal(t, "monitor.bin", opts.Input)
	assert.Equal(t, 0, opts.BinaryOffset)
	assert.Equal(t, options.DefaultBinaryLength, opts.BinaryLength)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantUsage bool
	}{
		{
			name:      "no input",
			args:      []string{"-x"},
			wantUsage: true,
		},
		{
			name:      "invalid hex value",
			args:      []string{"-off", "zz", "test.bin"},
			wantUsage: true,
		},
		{
			name:      "base address out of range",
			args:      []string{"-off", "10000", "test.bin"},
			wantUsage: true,
		},
		{
			name:      "flag after input file",
			args:      []string{"test.bin", "-x"},
			wantUsage: true,
		},
		{
			name: "color without verbose",
			args: []string{"-color", "test.bin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseFlags("prog", tt.args)
			assert.Error(t, err)

			var usageErr *UsageError
			assert.Equal(t, tt.wantUsage, errors.As(err, &usageErr))
		})
	}
}

func TestParseFlags_Schema(t *testing.T) {
	opts, _, err := parseFlags("prog", []string{"-schema"})
	assert.NoError(t, err)
	assert.True(t, opts.Schema)
}

func TestValidateOptionCombinations(t *testing.T) {
	tests := []struct {
		name        string
		opts        options.Program
		disasmOpts  options.Disassembler
		expectError bool
	}{
		{
			name:        "no conflict",
			opts:        options.Program{},
			disasmOpts:  options.Disassembler{},
			expectError: false,
		},
		{
			name: "colored console listing",
			opts: options.Program{
				OutputFlags: options.OutputFlags{Color: true, Verbose: true},
			},
			expectError: false,
		},
		{
			name: "color without console listing",
			opts: options.Program{
				OutputFlags: options.OutputFlags{Color: true},
			},
			expectError: true,
		},
		{
			name: "batch and input conflict",
			opts: options.Program{
				Parameters: options.Parameters{Input: "a.bin", Batch: "*.bin"},
			},
			expectError: true,
		},
		{
			name: "stripped immediate prefix",
			opts: options.Program{
				OutputFlags: options.OutputFlags{NoHexPrefix: true},
			},
			disasmOpts:  options.Disassembler{ImmediatePrefix: "0x"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOptionCombinations(tt.opts, tt.disasmOpts)
			if tt.expectError {
				assert.True(t, err != nil)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectError bool
	}{
		{name: "single file", args: []string{"test.bin"}},
		{name: "empty argument after file", args: []string{"test.bin", ""}},
		{name: "flag after file", args: []string{"test.bin", "-x"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateArgs(tt.args)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

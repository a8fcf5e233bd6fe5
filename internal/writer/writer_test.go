package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retroenv/profidisasm/internal/instruction"
	"github.com/retroenv/profidisasm/internal/program"
	"github.com/retroenv/retrogolib/assert"
)

func testProgram() *program.Program {
	app := program.New(0x8000)
	app.Lines = append(app.Lines,
		program.Line{Type: program.OriginLine, Address: 0x0100, Text: "0100:"},
		program.Line{Type: program.LabelLine, Text: "@label_0100"},
		program.Line{Type: program.OriginLine, Address: 0x8000, Text: "8000:"},
	)
	app.AddInstruction(instruction.Instruction{Opcode: 0x00}, 0x8000,
		"nop                 ; 0x00")
	app.AddInstruction(instruction.Instruction{Opcode: 0xc3, Operands: []byte{0x00, 0x01}}, 0x8001,
		"jmp @label_0100     ; 0xc3 0x00 0x01")
	return app
}

func TestWriteListing(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		want    string
	}{
		{
			name: "hex prefix",
			want: "0100:\n@label_0100\n8000:\n" +
				"nop                 ; 0x00\n" +
				"jmp @label_0100     ; 0xc3 0x00 0x01\n",
		},
		{
			name:    "no hex prefix",
			options: Options{NoHexPrefix: true},
			want: "0100:\n@label_0100\n8000:\n" +
				"nop                 ; 00\n" +
				"jmp @label_0100     ; c3 00 01\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := New(testProgram(), &buf, tt.options)
			assert.NoError(t, w.WriteListing())
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteDump(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		want    string
	}{
		{
			name: "hex prefix",
			want: "######     0100:\n" +
				"######     @label_0100\n" +
				"######     8000:\n" +
				"0x8000     nop                 ; 0x00\n" +
				"0x8001     jmp @label_0100     ; 0xc3 0x00 0x01\n",
		},
		{
			name:    "no hex prefix",
			options: Options{NoHexPrefix: true},
			want: "####     0100:\n" +
				"####     @label_0100\n" +
				"####     8000:\n" +
				"8000     nop                 ; 00\n" +
				"8001     jmp @label_0100     ; c3 00 01\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := New(testProgram(), &buf, tt.options)
			assert.NoError(t, w.WriteDump())
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteListingColored(t *testing.T) {
	t.Setenv(noColorEnv, "")

	var buf bytes.Buffer
	w := New(testProgram(), &buf, Options{Color: true})
	assert.NoError(t, w.WriteListing())

	output := buf.String()
	assert.Contains(t, output, "\x1b[")
	assert.Contains(t, stripEscapeCodes(output), "jmp @label_0100")
}

func TestColorizeDisabled(t *testing.T) {
	t.Setenv(noColorEnv, "1")

	code := "nop \njmp @label_8000\n"
	assert.Equal(t, code, Colorize(code))
}

func stripEscapeCodes(s string) string {
	var result strings.Builder
	inEscape := false

	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}

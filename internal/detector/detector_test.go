package detector

import (
	"testing"

	"github.com/retroenv/profidisasm/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestDetect(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name       string
		textOpt    bool
		inputFile  string
		wantFormat Format
	}{
		{
			name:       "explicit text option",
			textOpt:    true,
			inputFile:  "program.bin",
			wantFormat: Text,
		},
		{
			name:       "detect from .txt extension",
			inputFile:  "program.txt",
			wantFormat: Text,
		},
		{
			name:       "detect from .hex extension",
			inputFile:  "program.hex",
			wantFormat: Text,
		},
		{
			name:       "unknown extension defaults to binary",
			inputFile:  "program.bin",
			wantFormat: Binary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.Program{
				Parameters: options.Parameters{Input: tt.inputFile},
				Flags:      options.Flags{Text: tt.textOpt},
			}

			got := d.Detect(opts)
			assert.Equal(t, tt.wantFormat, got)
		})
	}
}

func TestDetectFromFile(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name       string
		filename   string
		wantFormat Format
	}{
		{
			name:       ".txt extension",
			filename:   "monitor.txt",
			wantFormat: Text,
		},
		{
			name:       ".HEX extension (uppercase)",
			filename:   "MONITOR.HEX",
			wantFormat: Text,
		},
		{
			name:       "no extension",
			filename:   "monitor",
			wantFormat: Binary,
		},
		{
			name:       ".bin extension",
			filename:   "monitor.bin",
			wantFormat: Binary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.detectFromFile(tt.filename)
			assert.Equal(t, tt.wantFormat, got)
		})
	}
}

// Package detector handles input format detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/profidisasm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Format of an input file.
type Format string

const (
	Binary Format = "binary"
	Text   Format = "text"
)

// Detector handles input format detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new input format detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the input format from options or file auto-detection.
// Text mode that is explicitly requested in the options always wins, otherwise
// the format is detected from the input filename extension.
func (d *Detector) Detect(opts options.Program) Format {
	if opts.Text {
		return Text
	}

	format := d.detectFromFile(opts.Input)
	d.logger.Debug("Auto-detected input format",
		log.String("format", string(format)),
		log.String("file", opts.Input))
	return format
}

// detectFromFile determines the input format based on file extension.
func (d *Detector) detectFromFile(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".hex":
		return Text
	default:
		return Binary
	}
}

// Package loader handles input file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/retroenv/profidisasm/internal/options"
)

// ErrInvalidHexText is returned for a hex text input that contains a non hex byte value.
var ErrInvalidHexText = errors.New("invalid hex text")

// Loader handles loading input files from disk.
type Loader struct{}

// New creates a new input loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the input file, decodes it as hex text if requested and returns the byte
// window that is selected by the binary offset and length options.
func (l *Loader) Load(opts options.Program) ([]byte, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", opts.Input, err)
	}

	if opts.Text {
		data, err = DecodeText(string(data))
		if err != nil {
			return nil, fmt.Errorf("decoding hex text of %s: %w", opts.Input, err)
		}
	}

	return Window(data, opts.BinaryOffset, opts.BinaryLength), nil
}

// DecodeText converts a hex text to bytes. All whitespace is ignored, the remaining text is
// split into pairs of hex digits and pairs that form a 0x prefix are skipped.
func DecodeText(text string) ([]byte, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	data := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		chunk := digits[i:min(i+2, len(digits))]
		if chunk == "0x" {
			continue
		}

		value, err := strconv.ParseUint(chunk, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: '%s' at position %d", ErrInvalidHexText, chunk, i)
		}
		data = append(data, byte(value))
	}
	return data, nil
}

// Window returns the part of data that starts at offset and has at most length bytes.
// A negative length selects all data after the offset.
func Window(data []byte, offset, length int) []byte {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(data) {
		return []byte{}
	}

	end := len(data)
	if length >= 0 && length < end-offset {
		end = offset + length
	}
	return data[offset:end]
}

// Package verification verifies that the disassembled program recreates the input.
package verification

import (
	"fmt"
	"regexp"

	"github.com/retroenv/profidisasm/internal/catalog"
	"github.com/retroenv/profidisasm/internal/options"
	"github.com/retroenv/profidisasm/internal/program"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// maxLoggedMismatches limits the number of logged byte mismatches.
const maxLoggedMismatches = 10

var labelReference = regexp.MustCompile(`@label_[0-9a-f]{4}`)

// VerifyOutput verifies that the rendered instruction text of the program assembles back
// to the exact input bytes and that every referenced label is defined in the output.
func VerifyOutput(logger *log.Logger, cat *catalog.Catalog, opts options.Disassembler,
	input []byte, app *program.Program) error {

	output, err := encodeListing(cat, opts, app)
	if err != nil {
		return fmt.Errorf("encoding listing: %w", err)
	}

	if err := checkBufferEqual(logger, input, output); err != nil {
		return fmt.Errorf("instruction bytes mismatch: %w", err)
	}

	if err := checkLabelsDefined(logger, app); err != nil {
		return fmt.Errorf("label check: %w", err)
	}
	return nil
}

// encodeListing assembles the text of all instruction lines.
func encodeListing(cat *catalog.Catalog, opts options.Disassembler, app *program.Program) ([]byte, error) {
	enc := newEncoder(cat, opts.ImmediatePrefix)

	data := make([]byte, 0, app.Size)
	for _, line := range app.Lines {
		if !line.IsType(program.InstructionLine) {
			continue
		}

		b, err := enc.encode(line.Text)
		if err != nil {
			return nil, fmt.Errorf("line at address 0x%04x: %w", line.Address, err)
		}
		data = append(data, b...)
	}
	return data, nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < maxLoggedMismatches {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}

// checkLabelsDefined returns an error for referenced labels without definition. Labels that
// are defined multiple times are logged, a forward reference that is later followed by a
// backward reference to the same address results in two definitions in single pass mode.
func checkLabelsDefined(logger *log.Logger, app *program.Program) error {
	defined := set.New[string]()
	for _, line := range app.Lines {
		if !line.IsType(program.LabelLine) {
			continue
		}

		if defined.Contains(line.Text) {
			logger.Warn("Label defined multiple times", log.String("label", line.Text))
			continue
		}
		defined.Add(line.Text)
	}

	var missing int
	for _, line := range app.Lines {
		if !line.IsType(program.InstructionLine) {
			continue
		}

		for _, label := range labelReference.FindAllString(line.Text, -1) {
			if defined.Contains(label) {
				continue
			}

			missing++
			logger.Error("Undefined label",
				log.String("label", label),
				log.Hex("address", line.Address))
		}
	}
	if missing == 0 {
		return nil
	}
	return fmt.Errorf("%d undefined label references", missing)
}

package verification

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/retroenv/profidisasm/internal/catalog"
	"github.com/retroenv/profidisasm/internal/instruction"
)

const (
	immediateSignature = "#"
	addressSignature   = "@"
	placeholderPrefix  = "*"
)

var labelOperand = regexp.MustCompile(`^@label_([0-9a-f]{4})$`)

// encoder rebuilds instruction bytes from rendered instruction text.
type encoder struct {
	immediatePrefix string
	opcodes         map[string]byte // instruction signature -> opcode
}

// newEncoder creates an encoder for the instructions of the catalog. If multiple opcodes
// share the same rendered signature, the lowest opcode is used.
func newEncoder(cat *catalog.Catalog, immediatePrefix string) *encoder {
	e := &encoder{
		immediatePrefix: immediatePrefix,
		opcodes:         map[string]byte{},
	}

	for i := 0; i < 256; i++ {
		def, ok := cat.Lookup(byte(i))
		if !ok {
			continue
		}

		parts := make([]string, len(def.Operands))
		for j, op := range def.Operands {
			switch op.Kind {
			case instruction.Immediate:
				parts[j] = immediateSignature
			case instruction.Address:
				parts[j] = addressSignature
			default:
				parts[j] = strings.ToLower(op.Name)
			}
		}

		sig := signature(def.Name, parts)
		if _, ok := e.opcodes[sig]; !ok {
			e.opcodes[sig] = def.Opcode
		}
	}
	return e
}

// encode returns the bytes of a rendered instruction line, a trailing hex comment is ignored.
func (e *encoder) encode(text string) ([]byte, error) {
	code, _, _ := strings.Cut(text, ";")
	name, args, _ := strings.Cut(strings.TrimSpace(code), " ")

	if strings.HasPrefix(name, placeholderPrefix) {
		opcode, err := strconv.ParseUint(name[len(placeholderPrefix):], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid placeholder '%s': %w", name, err)
		}
		return []byte{byte(opcode)}, nil
	}

	var (
		parts    []string
		operands []byte
	)
	if args = strings.TrimSpace(args); args != "" {
		for _, arg := range strings.Split(args, ",") {
			part, data, err := e.operand(arg)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
			operands = append(operands, data...)
		}
	}

	opcode, ok := e.opcodes[signature(name, parts)]
	if !ok {
		return nil, fmt.Errorf("no instruction matches '%s'", strings.TrimSpace(code))
	}
	return append([]byte{opcode}, operands...), nil
}

// operand returns the signature part and the encoded bytes of a rendered operand.
func (e *encoder) operand(arg string) (string, []byte, error) {
	if match := labelOperand.FindStringSubmatch(arg); match != nil {
		address, err := strconv.ParseUint(match[1], 16, 16)
		if err != nil {
			return "", nil, fmt.Errorf("invalid label '%s': %w", arg, err)
		}
		return addressSignature, []byte{byte(address), byte(address >> 8)}, nil
	}

	if value, ok := strings.CutPrefix(arg, e.immediatePrefix); ok && len(value) == 2 {
		if b, err := strconv.ParseUint(value, 16, 8); err == nil {
			return immediateSignature, []byte{byte(b)}, nil
		}
	}

	return arg, nil, nil
}

func signature(name string, parts []string) string {
	return name + " " + strings.Join(parts, ",")
}

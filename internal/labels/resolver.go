package labels

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/set"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const labelNaming = "@label_%04x"

// Name returns the label name for the given address.
func Name(address uint16) string {
	return fmt.Sprintf(labelNaming, address)
}

// Origin returns an origin directive for the given address.
func Origin(address int) string {
	return fmt.Sprintf("%04x:", address)
}

// IsOrigin returns whether the line is an origin directive and the address it sets.
func IsOrigin(line string) (int, bool) {
	if !strings.HasSuffix(line, ":") {
		return 0, false
	}
	var address int
	if _, err := fmt.Sscanf(line, "%x:", &address); err != nil {
		return 0, false
	}
	return address, true
}

// Resolver converts address operands to label names and schedules the label definitions
// as injections before the output line of the referenced address.
type Resolver struct {
	index  *Index
	base   int // logical address of the first byte of the stream
	length int // length of the byte stream

	injections map[int][]string        // line -> injected text blocks
	injected   map[int]set.Set[string] // line -> set of injected text blocks
}

// NewResolver returns a resolver for a byte stream of the given length that starts at the
// given logical base address. The index is shared with the decoder, which records the line
// of every decoded instruction.
func NewResolver(index *Index, base, length int) *Resolver {
	return &Resolver{
		index:      index,
		base:       base,
		length:     length,
		injections: map[int][]string{},
		injected:   map[int]set.Set[string]{},
	}
}

// InRange returns whether the address is inside the logical address window of the stream.
// The end of the window is inclusive to allow references to the address following the
// last instruction.
func (r *Resolver) InRange(address int) bool {
	return address >= r.base && address <= r.base+r.length
}

// Resolve returns the label name for the referenced address and schedules its definition.
// References outside of the stream window are wrapped in an origin block that switches to
// the referenced address and back to the base address.
func (r *Resolver) Resolve(address uint16) string {
	name := Name(address)

	injection := name
	if !r.InRange(int(address)) {
		injection = strings.Join([]string{Origin(int(address)), name, Origin(r.base)}, "\n")
	}

	line := r.index.InsertPosition(int(address))
	r.inject(line, injection)
	return name
}

func (r *Resolver) inject(line int, text string) {
	injected, ok := r.injected[line]
	if !ok {
		injected = set.New[string]()
		r.injected[line] = injected
	}
	if injected.Contains(text) {
		return
	}
	injected.Add(text)
	r.injections[line] = append(r.injections[line], text)
}

// Lines returns the lines that have injections, sorted ascending.
func (r *Resolver) Lines() []int {
	lines := maps.Keys(r.injections)
	slices.Sort(lines)
	return lines
}

// Injection returns the injected text lines for the given output line, blank lines are
// omitted.
func (r *Resolver) Injection(line int) []string {
	var result []string
	for _, block := range r.injections[line] {
		for _, s := range strings.Split(block, "\n") {
			if strings.TrimSpace(s) != "" {
				result = append(result, s)
			}
		}
	}
	return result
}

// Package labels implements the address to output line index and the label resolver that
// schedules label definitions for insertion into the disassembly output.
package labels

import (
	"golang.org/x/exp/slices"
)

// Index maps logical addresses to output line numbers. Entries are never removed.
// Lookups of addresses that have not been recorded yet return an insert position
// instead of failing.
type Index struct {
	addresses []int // sorted ascending
	lines     map[int]int
}

// NewIndex returns a new empty index.
func NewIndex() *Index {
	return &Index{
		lines: map[int]int{},
	}
}

// Record sets the output line of the given address, replacing any earlier entry.
func (ix *Index) Record(address, line int) {
	if _, ok := ix.lines[address]; !ok {
		i, _ := slices.BinarySearch(ix.addresses, address)
		ix.addresses = slices.Insert(ix.addresses, i, address)
	}
	ix.lines[address] = line
}

// Line returns the recorded line of the given address.
func (ix *Index) Line(address int) (int, bool) {
	line, ok := ix.lines[address]
	return line, ok
}

// Len returns the number of recorded addresses.
func (ix *Index) Len() int {
	return len(ix.addresses)
}

// InsertPosition returns the line that an instruction at the given address is or will be
// output at. A recorded address returns its exact line. Otherwise the line of the nearest
// recorded greater address is used, or the line of the highest recorded address if there
// is no greater one, which is only an approximation for addresses that have not been
// decoded yet. An empty index returns line 0.
// The result is recorded for the address so that repeated lookups return the same line,
// until decoding records the real line of the address. A later backward reference then
// returns the real line, so a forward referenced label can be defined twice.
func (ix *Index) InsertPosition(address int) int {
	if line, ok := ix.lines[address]; ok {
		return line
	}
	if len(ix.addresses) == 0 {
		ix.Record(address, 0)
		return 0
	}

	i, _ := slices.BinarySearch(ix.addresses, address)
	if i == len(ix.addresses) {
		i--
	}
	line := ix.lines[ix.addresses[i]]
	ix.Record(address, line)
	return line
}

// Package catalog provides the instruction table that maps opcodes to instruction definitions.
// A catalog is loaded once from a declarative JSON or YAML document and is read-only afterwards,
// which makes it safe to share between concurrent disassembler runs.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/retroenv/profidisasm/internal/instruction"
	"gopkg.in/yaml.v3"
)

// Format of an instruction table document.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

//go:embed profi5e.yaml
var defaultTable []byte

// ErrMalformedEntry is matched by all entry errors that caused an entry to be skipped.
var ErrMalformedEntry = errors.New("malformed catalog entry")

// MalformedEntryError describes an instruction table entry that was skipped while loading.
type MalformedEntryError struct {
	Key    string // opcode key of the entry as written in the table
	Reason string
	Err    error
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed catalog entry '%s': %s", e.Key, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *MalformedEntryError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches ErrMalformedEntry.
func (e *MalformedEntryError) Is(target error) bool {
	return target == ErrMalformedEntry
}

// Entry is the document representation of a single instruction definition.
type Entry struct {
	Name string   `json:"name" yaml:"name" jsonschema:"title=Name,description=Mnemonic of the instruction"`
	Args []string `json:"args" yaml:"args" jsonschema:"title=Arguments,description=Ordered operand tokens: register names or 0-7 for plain tokens; KO or KA for one byte immediates; ADR for a two byte address"`
}

// Catalog is an immutable opcode to instruction definition lookup.
type Catalog struct {
	definitions [256]*instruction.Definition
	loaded      int
	skipped     []*MalformedEntryError
}

// rawEntry is a table entry whose value has not been decoded yet.
type rawEntry struct {
	key    string
	decode func(*Entry) error
}

// Default returns the catalog of the embedded Profi-5E instruction table.
func Default() (*Catalog, error) {
	cat, err := Load(bytes.NewReader(defaultTable), YAML)
	if err != nil {
		return nil, fmt.Errorf("loading embedded instruction table: %w", err)
	}
	return cat, nil
}

// LoadFile loads a catalog from the given file, the format is chosen by the file extension.
func LoadFile(fileName string) (*Catalog, error) {
	format := JSON
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".yaml", ".yml":
		format = YAML
	}

	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", fileName, err)
	}
	defer func() { _ = file.Close() }()

	return Load(file, format)
}

// Load parses an instruction table document. Entries that can not be parsed are skipped
// and reported by Skipped. If an opcode is defined multiple times, the last entry wins.
func Load(reader io.Reader, format Format) (*Catalog, error) {
	var (
		entries []rawEntry
		err     error
	)

	switch format {
	case JSON, YAML:
		entries, err = readDocument(reader)
	default:
		return nil, fmt.Errorf("unsupported catalog format '%s'", format)
	}
	if err != nil {
		return nil, err
	}

	cat := &Catalog{}
	for _, raw := range entries {
		def, err := parseEntry(raw)
		if err != nil {
			var entryErr *MalformedEntryError
			if errors.As(err, &entryErr) {
				cat.skipped = append(cat.skipped, entryErr)
				continue
			}
			return nil, err
		}
		cat.definitions[def.Opcode] = &def
		cat.loaded++
	}
	return cat, nil
}

// Lookup returns the definition of the given opcode.
func (c *Catalog) Lookup(opcode byte) (instruction.Definition, bool) {
	def := c.definitions[opcode]
	if def == nil {
		return instruction.Definition{}, false
	}
	return *def, true
}

// Loaded returns the number of definitions that were loaded, including entries that
// replaced an earlier definition of the same opcode.
func (c *Catalog) Loaded() int {
	return c.loaded
}

// Len returns the number of distinct opcodes that have a definition.
func (c *Catalog) Len() int {
	var n int
	for _, def := range c.definitions {
		if def != nil {
			n++
		}
	}
	return n
}

// Skipped returns the entries that were skipped while loading the table.
func (c *Catalog) Skipped() []*MalformedEntryError {
	return c.skipped
}

// Placeholder returns a synthesized definition without operands for an opcode that is not
// part of the catalog. If the opcode actually has operands, decoding after it desynchronizes.
func Placeholder(opcode byte) instruction.Definition {
	return instruction.Definition{
		Opcode: opcode,
		Name:   fmt.Sprintf("*%02x", opcode),
	}
}

func parseEntry(raw rawEntry) (instruction.Definition, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw.key)), "0x")
	opcode, err := strconv.ParseUint(key, 16, 8)
	if err != nil {
		return instruction.Definition{}, &MalformedEntryError{Key: raw.key, Reason: "invalid opcode", Err: err}
	}

	var entry Entry
	if err := raw.decode(&entry); err != nil {
		return instruction.Definition{}, &MalformedEntryError{Key: raw.key, Reason: "invalid entry", Err: err}
	}
	if entry.Name == "" {
		return instruction.Definition{}, &MalformedEntryError{Key: raw.key, Reason: "missing name"}
	}

	def := instruction.Definition{
		Opcode:   byte(opcode),
		Name:     entry.Name,
		Operands: make([]instruction.Operand, 0, len(entry.Args)),
	}
	for _, arg := range entry.Args {
		op, err := instruction.ParseOperand(arg)
		if err != nil {
			return instruction.Definition{}, &MalformedEntryError{Key: raw.key, Reason: err.Error(), Err: err}
		}
		def.Operands = append(def.Operands, op)
	}
	return def, nil
}

// readDocument reads the table as node tree to keep the document order of the entries
// including duplicate keys. JSON documents are valid YAML flow mappings.
func readDocument(reader io.Reader) ([]rawEntry, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(reader).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decoding document: expected mapping at line %d", root.Line)
	}

	entries := make([]rawEntry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		value := root.Content[i+1]
		entries = append(entries, rawEntry{
			key:    root.Content[i].Value,
			decode: func(e *Entry) error { return value.Decode(e) },
		})
	}
	return entries, nil
}

package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Document is an instruction table, keyed by the opcode as two hex digits.
type Document map[string]Entry

// Schema returns the JSON schema of an instruction table document.
func Schema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(Document{})
	schema.Title = "Instruction table"
	schema.Description = "Maps a two hex digit opcode to the mnemonic and operand tokens of the instruction"

	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	return b, nil
}

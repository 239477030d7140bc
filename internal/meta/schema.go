package meta

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of the callee table and hints file formats.
func Schema() ([]byte, error) {
	reflector := new(jsonschema.Reflector)
	doc := map[string]*jsonschema.Schema{
		"meta":  reflector.Reflect(&Meta{}),
		"hints": reflector.Reflect(&Hints{}),
	}
	bts, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return bts, nil
}

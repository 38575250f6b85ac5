package schema

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a schema override from a JSON file. The file holds the
// mappings object keyed by document type, the same shape CreateBody
// wraps, e.g. {"build": {"properties": {...}}, "step": {...}}.
func Load(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON in %q", path)
	}

	var raw map[string]docMapping
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing schema file %q: %w", path, err)
	}

	s := make(Schema, len(raw))
	for docType, dm := range raw {
		s[docType] = dm.Properties
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("schema file %q: %w", path, err)
	}

	return s, nil
}

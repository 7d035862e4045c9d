package companies

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads the company registry from a JSON file. An empty path yields
// an empty registry.
func LoadFile(path string) (*Registry, error) {
	if path == "" {
		return NewRegistry(nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("companies.LoadFile: %w", err)
	}
	var list []Company
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("companies.LoadFile: parsing %s: %w", path, err)
	}
	return NewRegistry(list), nil
}

package inventory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/meshwise/meshcost/internal/model"
)

// LoadSnapshot reads an inventory snapshot from a JSON file.
func LoadSnapshot(path string) (model.Inventory, error) {
	var inv model.Inventory

	data, err := os.ReadFile(path)
	if err != nil {
		return inv, fmt.Errorf("reading inventory snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &inv); err != nil {
		return inv, fmt.Errorf("parsing inventory snapshot: %w", err)
	}
	return inv, nil
}

// SaveSnapshot writes an inventory snapshot as indented JSON.
func SaveSnapshot(path string, inv model.Inventory) error {
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling inventory snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing inventory snapshot: %w", err)
	}
	return nil
}

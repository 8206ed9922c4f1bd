package dupes

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sbarthel/dupsync/pkg/models"
)

// WriteReport saves duplicate groups as a JSON array. Each element carries
// main_file, duplicates, hash, size_per_file and wasted_size.
func WriteReport(path string, groups []models.DuplicateGroup) error {
	if groups == nil {
		groups = []models.DuplicateGroup{}
	}
	data, err := json.MarshalIndent(groups, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// LoadReport reads a previously saved duplicate report.
func LoadReport(path string) ([]models.DuplicateGroup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var groups []models.DuplicateGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return groups, nil
}

package types

import (
	"encoding/json"
	"fmt"
	"os"
)

// ResultManifest lists the pairs of one labeled pair file for which the corpus
// returned at least one match.
type ResultManifest struct {
	Label Relation `json:"label"`
	Pairs []string `json:"pairs"`
}

func ReadManifest(path string) (*ResultManifest, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var manifest ResultManifest
	if err := json.Unmarshal(buf, &manifest); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	if _, err := ParseRelation(string(manifest.Label)); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &manifest, nil
}

func WriteManifest(path string, manifest ResultManifest) error {
	if manifest.Pairs == nil {
		manifest.Pairs = []string{}
	}
	buf, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

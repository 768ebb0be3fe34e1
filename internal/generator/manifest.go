package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const (
	manifestFileName    = "manifest.json"
	manifestFileVersion = 1
)

// Manifest records what a build produced.
type Manifest struct {
	Version     int                `json:"version"`
	BuildID     string             `json:"build_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Documents   []ManifestDocument `json:"documents"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// ManifestDocument links a generated file to its source.
type ManifestDocument struct {
	Slug           string `json:"slug"`
	Source         string `json:"source"`
	Output         string `json:"output"`
	SourceChecksum string `json:"source_checksum"`
	OutputChecksum string `json:"output_checksum"`
}

func newManifest(buildID string, generatedAt time.Time) *Manifest {
	return &Manifest{
		Version:     manifestFileVersion,
		BuildID:     buildID,
		GeneratedAt: generatedAt.UTC(),
		Documents:   []ManifestDocument{},
	}
}

// ParseManifest decodes a manifest written by a previous build.
func ParseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	if manifest.Version == 0 {
		manifest.Version = manifestFileVersion
	}
	return &manifest, nil
}

func (m *Manifest) marshal() ([]byte, error) {
	cloned := *m
	cloned.Documents = append([]ManifestDocument(nil), m.Documents...)
	sort.Slice(cloned.Documents, func(i, j int) bool {
		return cloned.Documents[i].Slug < cloned.Documents[j].Slug
	})
	if cloned.Documents == nil {
		cloned.Documents = []ManifestDocument{}
	}
	return json.MarshalIndent(cloned, "", "  ")
}

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Bellwether/internal/scoring"
)

// FilePresetSource reads the preset document from a JSON or YAML file.
type FilePresetSource struct {
	path string
}

func NewFilePresetSource(path string) *FilePresetSource {
	return &FilePresetSource{path: path}
}

func (s *FilePresetSource) LoadPresets(ctx context.Context) (*PresetDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	return ParsePresets(data)
}

// ParsePresets decodes a preset document. A document starting with '{' is
// read as JSON, anything else as YAML. Top-level keys are period keys and
// their order is kept.
func ParsePresets(data []byte) (*PresetDocument, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return parseJSONPresets(trimmed)
	}
	return parseYAMLPresets(data)
}

// parseJSONPresets walks the top-level object token by token so period
// order survives. Duplicate keys resolve last-wins, as encoding/json does.
func parseJSONPresets(data []byte) (*PresetDocument, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}

	doc := &PresetDocument{ByPeriod: make(map[string]scoring.PeriodPresets)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse presets: %w", err)
		}
		key, _ := tok.(string)

		var dims map[string]map[string]any
		if err := dec.Decode(&dims); err != nil {
			return nil, fmt.Errorf("parse presets: period %q: %w", key, err)
		}
		doc.add(key, dims)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse presets: trailing data after document")
	}
	return doc, nil
}

func parseYAMLPresets(data []byte) (*PresetDocument, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	doc := &PresetDocument{ByPeriod: make(map[string]scoring.PeriodPresets)}
	if len(root.Content) == 0 {
		return doc, nil
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse presets: top level must be a mapping of periods")
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i], top.Content[i+1]

		var dims map[string]map[string]any
		if err := val.Decode(&dims); err != nil {
			return nil, fmt.Errorf("parse presets: period %q: %w", key.Value, err)
		}
		doc.add(key.Value, dims)
	}
	return doc, nil
}

// add stores one period. A repeated period keeps its first position and its
// last value.
func (d *PresetDocument) add(period string, dims map[string]map[string]any) {
	pp := make(scoring.PeriodPresets, len(dims))
	for dim, cats := range dims {
		m := make(map[string]scoring.PreferenceEntry, len(cats))
		for label, raw := range cats {
			// Scalars or lists where an entry belongs read as an empty, neutral entry.
			entry, _ := raw.(map[string]any)
			if entry == nil {
				entry = map[string]any{}
			}
			m[label] = scoring.PreferenceEntry(entry)
		}
		pp[dim] = m
	}

	if _, dup := d.ByPeriod[period]; !dup {
		d.Periods = append(d.Periods, period)
	}
	d.ByPeriod[period] = pp
}

// Package pack locates the documents of an icon pack.
//
// A pack is a directory holding a pack.yaml manifest, one icons document and
// a labels document per locale. Packs are read through fs.FS so the builtin
// pack can be embedded in the binary.
package pack

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ManifestName is the file name of a pack manifest.
const ManifestName = "pack.yaml"

// Manifest describes the documents of a pack.
type Manifest struct {
	Name   string       `yaml:"name"`
	Icons  string       `yaml:"icons"`
	Labels LabelsConfig `yaml:"labels"`
}

// LabelsConfig lists the labels documents of a pack.
type LabelsConfig struct {
	// Language is the language of Default. It defaults to English.
	Language string `yaml:"language"`
	Default  string `yaml:"default"`
	// Locales maps BCP 47 tags to labels documents.
	Locales map[string]string `yaml:"locales"`
}

// ParseManifest decodes and validates a YAML manifest.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks required fields and locale tags.
func (m Manifest) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("manifest: name is required")
	}
	if strings.TrimSpace(m.Icons) == "" && strings.TrimSpace(m.Labels.Default) == "" {
		return fmt.Errorf("manifest %s: icons or labels.default is required", m.Name)
	}
	if len(m.Labels.Locales) > 0 && strings.TrimSpace(m.Labels.Default) == "" {
		return fmt.Errorf("manifest %s: labels.locales requires labels.default", m.Name)
	}
	if _, err := m.defaultLanguage(); err != nil {
		return err
	}
	for raw, path := range m.Labels.Locales {
		if _, err := language.Parse(raw); err != nil {
			return fmt.Errorf("manifest %s: locale %q: %w", m.Name, raw, err)
		}
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("manifest %s: locale %q has no document", m.Name, raw)
		}
	}
	return nil
}

func (m Manifest) defaultLanguage() (language.Tag, error) {
	raw := strings.TrimSpace(m.Labels.Language)
	if raw == "" {
		return language.English, nil
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return language.Und, fmt.Errorf("manifest %s: language %q: %w", m.Name, raw, err)
	}
	return tag, nil
}

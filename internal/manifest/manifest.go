// Package manifest maintains the shared manifest.yml record one level
// above a language's output base.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the cross-language course record.
type Manifest struct {
	Languages []string          `yaml:"languages"`
	Title     map[string]string `yaml:"title"`
}

// Load reads a manifest file. A missing file yields an empty manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Manifest{Title: map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	if m.Title == nil {
		m.Title = map[string]string{}
	}
	return &m, nil
}

// Update appends lang to the language list if absent, sets its title and
// writes the manifest back.
func Update(path, lang, title string) error {
	m, err := Load(path)
	if err != nil {
		return err
	}
	if !contains(m.Languages, lang) {
		m.Languages = append(m.Languages, lang)
	}
	m.Title[lang] = title

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

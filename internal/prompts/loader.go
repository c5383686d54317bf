// Package prompts renders the externalized document prompt templates.
// Template files are JSON objects of key to text/template source, embedded at compile time.
package prompts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"text/template"
)

//go:embed *.json
var promptFiles embed.FS

// Set is one parsed template file
type Set struct {
	name      string
	raw       map[string]string
	templates map[string]*template.Template
}

var (
	sets   = make(map[string]*Set)
	setsMu sync.Mutex
)

// Load returns the parsed template set for an embedded file such as "documents.json".
// Sets are parsed once and shared.
func Load(filename string) (*Set, error) {
	setsMu.Lock()
	defer setsMu.Unlock()

	if s, ok := sets[filename]; ok {
		return s, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	s := &Set{name: filename, raw: raw, templates: make(map[string]*template.Template, len(raw))}
	for key, text := range raw {
		tmpl, err := template.New(key).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse prompt %q in %s: %w", key, filename, err)
		}
		s.templates[key] = tmpl
	}
	sets[filename] = s
	return s, nil
}

// Raw returns the unrendered template source for key
func (s *Set) Raw(key string) (string, error) {
	text, ok := s.raw[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, s.name)
	}
	return text, nil
}

// Render executes the template for key with data. Missing map keys are errors.
func (s *Set) Render(key string, data any) (string, error) {
	tmpl, ok := s.templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, s.name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %q: %w", key, err)
	}
	return buf.String(), nil
}

// Keys returns the template keys in sorted order
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.raw))
	for key := range s.raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

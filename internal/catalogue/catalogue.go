// Package catalogue implements the persisted category → package-id mapping.
//
// The on-disk format is YAML with a single top-level "catalogue" key. The
// file is user-curated, so round-trips must preserve the category order the
// user wrote; the custom yaml.Node marshaling below exists for exactly that.
package catalogue

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultCategory is where hunter-mode and list-mode uninstalls are filed.
const DefaultCategory = "hunter"

// Category is one named, ordered group of package identifiers.
type Category struct {
	Name     string
	Packages []string
}

// Catalogue maps category names to ordered package-id lists. Identifiers are
// unique within a category; insertion order of both categories and ids is
// preserved across load/save.
type Catalogue struct {
	categories []*Category
	index      map[string]*Category
}

// Match is a (category, package id) pair present in both the catalogue and
// the installed set. Computed fresh per run, never persisted.
type Match struct {
	Category string
	Package  string
}

// fileDoc mirrors the document layout: one top-level catalogue key.
type fileDoc struct {
	Catalogue *Catalogue `yaml:"catalogue"`
}

// New returns an empty catalogue.
func New() *Catalogue {
	return &Catalogue{index: make(map[string]*Category)}
}

// Load reads and parses a catalogue file. An unreadable or unparseable file
// is an error (callers treat it as fatal at startup); a parseable document
// without the catalogue key yields an empty catalogue.
func Load(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalogue: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("catalogue file %s is empty", path)
	}

	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalogue: %w", err)
	}

	if doc.Catalogue == nil {
		return New(), nil
	}
	return doc.Catalogue, nil
}

// Save rewrites the whole catalogue file. Called at each mutation point, so
// the on-disk state always reflects the last successful append.
func (c *Catalogue) Save(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&fileDoc{Catalogue: c}); err != nil {
		return fmt.Errorf("encoding catalogue: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding catalogue: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing catalogue: %w", err)
	}
	return nil
}

// Add appends an id to a category, creating the category on first use.
// Returns false when the id is already present; the append is idempotent.
func (c *Catalogue) Add(category, id string) bool {
	cat := c.ensure(category)
	for _, existing := range cat.Packages {
		if existing == id {
			return false
		}
	}

	cat.Packages = append(cat.Packages, id)
	return true
}

// Has reports whether the id is already filed under the category.
func (c *Catalogue) Has(category, id string) bool {
	cat, ok := c.index[category]
	if !ok {
		return false
	}
	for _, existing := range cat.Packages {
		if existing == id {
			return true
		}
	}
	return false
}

// Categories returns the categories in insertion order. The returned slice
// is a read-only view; use Add to mutate.
func (c *Catalogue) Categories() []*Category {
	return c.categories
}

// Counts returns the number of categories and the total number of ids.
func (c *Catalogue) Counts() (categories, packages int) {
	for _, cat := range c.categories {
		packages += len(cat.Packages)
	}
	return len(c.categories), packages
}

// Matches returns every (category, id) pair whose id appears in the
// installed list, in catalogue order.
func (c *Catalogue) Matches(installed []string) []Match {
	set := make(map[string]bool, len(installed))
	for _, id := range installed {
		set[id] = true
	}

	var matches []Match
	for _, cat := range c.categories {
		for _, id := range cat.Packages {
			if set[id] {
				matches = append(matches, Match{Category: cat.Name, Package: id})
			}
		}
	}
	return matches
}

// ensure returns the category, creating and registering it if absent.
func (c *Catalogue) ensure(name string) *Category {
	if c.index == nil {
		c.index = make(map[string]*Category)
	}
	if cat, ok := c.index[name]; ok {
		return cat
	}

	cat := &Category{Name: name}
	c.categories = append(c.categories, cat)
	c.index[name] = cat
	return cat
}

// UnmarshalYAML decodes the category mapping while preserving the key order
// of the document. A plain map decode would lose it. Duplicate ids within a
// category are suppressed, first occurrence wins.
func (c *Catalogue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("catalogue must be a mapping of categories (line %d)", node.Line)
	}

	c.index = make(map[string]*Category)
	c.categories = nil

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]

		var ids []string
		if err := valNode.Decode(&ids); err != nil {
			return fmt.Errorf("category %s: %w", keyNode.Value, err)
		}

		c.ensure(keyNode.Value)
		for _, id := range ids {
			c.Add(keyNode.Value, id)
		}
	}

	return nil
}

// MarshalYAML emits the categories as a mapping node in insertion order.
func (c *Catalogue) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, cat := range c.categories {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: cat.Name}

		valNode := &yaml.Node{}
		if err := valNode.Encode(cat.Packages); err != nil {
			return nil, fmt.Errorf("category %s: %w", cat.Name, err)
		}

		node.Content = append(node.Content, keyNode, valNode)
	}

	return node, nil
}

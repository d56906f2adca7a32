package classify

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Result is the classification of a single file name
type Result struct {
	Extension   string
	Category    string
	Subcategory string
	// Dir is the target directory relative to the organize root
	Dir string
}

// Classifier maps extensions to categories using injected rule tables.
// It has no side effects and is safe for concurrent use.
type Classifier struct {
	rules    Rules
	resolver *ExtensionResolver

	categories    map[string]Rule
	subcategories map[string]Rule
	byName        map[string]Rule
	subByName     map[string]Rule
}

// New creates a classifier over the given rules
func New(rules Rules) (*Classifier, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid classification rules: %w", err)
	}

	c := &Classifier{
		rules:         rules,
		resolver:      NewExtensionResolver(rules.KnownExtensions()),
		categories:    indexByExtension(rules.Categories),
		subcategories: indexByExtension(rules.Subcategories),
		byName:        indexByName(rules.Categories, rules.Fallback),
		subByName:     indexByName(rules.Subcategories, rules.SubFallback),
	}
	return c, nil
}

// NewDefault creates a classifier over DefaultRules
func NewDefault() *Classifier {
	c, err := New(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}

func indexByExtension(rules []Rule) map[string]Rule {
	index := make(map[string]Rule)
	for _, rule := range rules {
		for _, ext := range rule.Extensions {
			index[strings.ToLower(ext)] = rule
		}
	}
	return index
}

func indexByName(rules []Rule, fallback Rule) map[string]Rule {
	index := map[string]Rule{fallback.Name: fallback}
	for _, rule := range rules {
		index[rule.Name] = rule
	}
	return index
}

// Extension resolves the real extension of a file name
func (c *Classifier) Extension(name string) string {
	return c.resolver.Resolve(name)
}

// Category returns the category owning ext, or the fallback category
func (c *Classifier) Category(ext string) string {
	if rule, ok := c.categories[strings.ToLower(ext)]; ok {
		return rule.Name
	}
	return c.rules.Fallback.Name
}

// Subcategory returns the documents subcategory owning ext, or the
// fallback subcategory
func (c *Classifier) Subcategory(ext string) string {
	if rule, ok := c.subcategories[strings.ToLower(ext)]; ok {
		return rule.Name
	}
	return c.rules.SubFallback.Name
}

// Classify resolves the extension of name and its target directory
func (c *Classifier) Classify(name string) Result {
	ext := c.Extension(name)
	res := Result{
		Extension: ext,
		Category:  c.Category(ext),
	}
	res.Dir = c.byName[res.Category].Folder
	if res.Category == CategoryDocuments {
		res.Subcategory = c.Subcategory(ext)
		res.Dir = filepath.Join(res.Dir, c.subByName[res.Subcategory].Folder)
	}
	return res
}

// CategoryFolder returns the folder name of a category
func (c *Classifier) CategoryFolder(category string) string {
	return c.byName[category].Folder
}

// SubcategoryFolder returns the folder name of a documents subcategory
func (c *Classifier) SubcategoryFolder(subcategory string) string {
	return c.subByName[subcategory].Folder
}

// Folders returns every category folder in table order, fallback last
func (c *Classifier) Folders() []string {
	folders := make([]string, 0, len(c.rules.Categories)+1)
	for _, rule := range c.rules.Categories {
		folders = append(folders, rule.Folder)
	}
	return append(folders, c.rules.Fallback.Folder)
}

// DocumentFolders returns every documents subcategory folder relative to
// the root, fallback last
func (c *Classifier) DocumentFolders() []string {
	parent := c.CategoryFolder(CategoryDocuments)
	if parent == "" {
		return nil
	}
	folders := make([]string, 0, len(c.rules.Subcategories)+1)
	for _, rule := range c.rules.Subcategories {
		folders = append(folders, filepath.Join(parent, rule.Folder))
	}
	return append(folders, filepath.Join(parent, c.rules.SubFallback.Folder))
}

package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"retitle/internal/process"
)

// Field is one metadata entry on the top-level structure element.
type Field struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Document is the logical metadata tree of a process, flattened to its
// top-level structure element.
type Document struct {
	DocType string  `yaml:"doctype"`
	Fields  []Field `yaml:"fields"`
}

// Value returns the first value recorded for name.
func (d *Document) Value(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// ParseDocument decodes a metadata document from YAML bytes.
func ParseDocument(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("metadata: document is empty")
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("metadata: decode document: %w", err)
	}
	doc.DocType = strings.TrimSpace(doc.DocType)
	if doc.DocType == "" {
		return nil, errors.New("metadata: document has no doctype")
	}
	for i := range doc.Fields {
		doc.Fields[i].Name = strings.TrimSpace(doc.Fields[i].Name)
		if doc.Fields[i].Name == "" {
			return nil, fmt.Errorf("metadata: field %d has no name", i)
		}
	}
	return &doc, nil
}

// Reader loads metadata documents from the process directory layout.
type Reader struct {
	Paths process.Paths
}

// Read returns the metadata document of p. A process without a document
// yields nil and no error.
func (r Reader) Read(p *process.Process) (*Document, error) {
	path, err := r.Paths.MetadataFile(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("metadata: read %s: %w", path, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

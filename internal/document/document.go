// Package document reads and writes the persisted model document: a record
// with four named arrays (controllers, services, repositories, entities)
// mirroring the Project model field for field.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	serrors "github.com/phobologic/springmap/internal/errors"
	"github.com/phobologic/springmap/internal/model"
)

// Format is a document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json", "":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", serrors.Newf(serrors.InvalidArgument, "unknown document format %q", s)
}

// FormatForPath picks YAML for .yaml/.yml paths and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// wire requires all four arrays to be present when decoding.
type wire struct {
	Controllers  *[]model.Controller `json:"controllers" yaml:"controllers"`
	Services     *[]model.Service    `json:"services" yaml:"services"`
	Repositories *[]model.Repository `json:"repositories" yaml:"repositories"`
	Entities     *[]model.Entity     `json:"entities" yaml:"entities"`
}

// Encode serializes p. Output is deterministic: the same Project always
// encodes to the same bytes. JSON is indented with two spaces and does not
// escape "<" and ">" in generic type tokens.
func Encode(p *model.Project, format Format) ([]byte, error) {
	p = Normalize(p)
	switch format {
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return buf.Bytes(), nil
	}
}

// Decode parses a document. A malformed document, or one missing any of
// the four arrays, is a PARSE_ERROR.
func Decode(data []byte, format Format) (*model.Project, error) {
	var w wire
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &w)
	default:
		err = json.Unmarshal(data, &w)
	}
	if err != nil {
		return nil, serrors.New(serrors.ParseError, "malformed model document", err)
	}

	missing := []string{}
	if w.Controllers == nil {
		missing = append(missing, "controllers")
	}
	if w.Services == nil {
		missing = append(missing, "services")
	}
	if w.Repositories == nil {
		missing = append(missing, "repositories")
	}
	if w.Entities == nil {
		missing = append(missing, "entities")
	}
	if len(missing) > 0 {
		return nil, serrors.Newf(serrors.ParseError, "model document missing %s", strings.Join(missing, ", "))
	}

	return Normalize(&model.Project{
		Controllers:  *w.Controllers,
		Services:     *w.Services,
		Repositories: *w.Repositories,
		Entities:     *w.Entities,
	}), nil
}

// Save writes p to path in the format implied by its extension. The file is
// written to a temporary sibling and renamed into place.
func Save(path string, p *model.Project) error {
	data, err := Encode(p, FormatForPath(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return serrors.New(serrors.FileSystemError, "creating output directory", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return serrors.New(serrors.FileSystemError, "writing model document", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return serrors.New(serrors.FileSystemError, "writing model document", err)
	}
	return nil
}

// Load reads a document from path. A missing or unreadable document is a
// PARSE_ERROR, as is a malformed one.
func Load(path string) (*model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, serrors.New(serrors.ParseError, "reading model document "+path, err)
	}
	return Decode(data, FormatForPath(path))
}

// Normalize returns a copy of p in which every sequence is non-nil, so that
// an empty sequence encodes as [] rather than null and decoded documents
// compare equal to freshly assembled ones.
func Normalize(p *model.Project) *model.Project {
	if p == nil {
		return model.NewProject()
	}
	out := &model.Project{
		Controllers:  make([]model.Controller, len(p.Controllers)),
		Services:     make([]model.Service, len(p.Services)),
		Repositories: make([]model.Repository, len(p.Repositories)),
		Entities:     make([]model.Entity, len(p.Entities)),
	}
	for i, c := range p.Controllers {
		c.Endpoints = nonNil(c.Endpoints)
		eps := make([]model.Endpoint, len(c.Endpoints))
		for j, ep := range c.Endpoints {
			ep.Parameters = nonNil(ep.Parameters)
			eps[j] = ep
		}
		c.Endpoints = eps
		out.Controllers[i] = c
	}
	for i, s := range p.Services {
		s.Dependencies = nonNil(s.Dependencies)
		s.Methods = normalizeMethods(s.Methods)
		out.Services[i] = s
	}
	for i, r := range p.Repositories {
		r.CustomMethods = normalizeMethods(r.CustomMethods)
		out.Repositories[i] = r
	}
	for i, e := range p.Entities {
		fields := make([]model.Field, len(e.Fields))
		for j, f := range e.Fields {
			f.Annotations = nonNil(f.Annotations)
			fields[j] = f
		}
		e.Fields = fields
		e.Relationships = nonNil(e.Relationships)
		out.Entities[i] = e
	}
	return out
}

func normalizeMethods(ms []model.Method) []model.Method {
	out := make([]model.Method, len(ms))
	for i, m := range ms {
		m.Parameters = nonNil(m.Parameters)
		out[i] = m
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

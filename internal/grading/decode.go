package grading

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a schema or summary document.
type Format string

const (
	// FormatJSON is the grader's native report format.
	FormatJSON Format = "json"
	// FormatYAML is accepted for hand-written fixtures and schemas.
	FormatYAML Format = "yaml"
)

// FormatFromPath derives the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported document extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// LoadSchema reads a schema document from disk.
func LoadSchema(path string) (Schema, error) {
	var schema Schema
	if err := loadFile(path, &schema); err != nil {
		return Schema{}, fmt.Errorf("load schema %q: %w", path, err)
	}
	return schema, nil
}

// LoadSummary reads a summary document from disk.
func LoadSummary(path string) (Summary, error) {
	var summary Summary
	if err := loadFile(path, &summary); err != nil {
		return Summary{}, fmt.Errorf("load summary %q: %w", path, err)
	}
	return summary, nil
}

// DecodeSchema decodes a schema document in the given format.
func DecodeSchema(r io.Reader, format Format) (Schema, error) {
	var schema Schema
	if err := decode(r, format, &schema); err != nil {
		return Schema{}, fmt.Errorf("decode schema: %w", err)
	}
	return schema, nil
}

// DecodeSummary decodes a summary document in the given format.
func DecodeSummary(r io.Reader, format Format) (Summary, error) {
	var summary Summary
	if err := decode(r, format, &summary); err != nil {
		return Summary{}, fmt.Errorf("decode summary: %w", err)
	}
	return summary, nil
}

func loadFile(path string, target any) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return decode(f, format, target)
}

func decode(r io.Reader, format Format, target any) error {
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(target); err != nil {
			return fmt.Errorf("parse json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(target); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

// UnmarshalJSON decodes problems from an object (in key order) or a list.
func (s *ProblemSet) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var list []Problem
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		return s.setList(list)
	case '{':
	default:
		return fmt.Errorf("problems must be an object or a list")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return err
	}
	var out ProblemSet
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		short, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected problem key %v", tok)
		}
		var p Problem
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("problem %q: %w", short, err)
		}
		p.Short = short
		out = append(out, p)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// UnmarshalYAML decodes problems from a mapping (in key order) or a sequence.
func (s *ProblemSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make(ProblemSet, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var short string
			if err := node.Content[i].Decode(&short); err != nil {
				return fmt.Errorf("problem key at line %d: %w", node.Content[i].Line, err)
			}
			var p Problem
			if err := node.Content[i+1].Decode(&p); err != nil {
				return fmt.Errorf("problem %q: %w", short, err)
			}
			p.Short = short
			out = append(out, p)
		}
		*s = out
		return nil
	case yaml.SequenceNode:
		var list []Problem
		if err := node.Decode(&list); err != nil {
			return err
		}
		return s.setList(list)
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*s = nil
			return nil
		}
	}
	return fmt.Errorf("line %d: problems must be a mapping or a sequence", node.Line)
}

func (s *ProblemSet) setList(list []Problem) error {
	for i, p := range list {
		if strings.TrimSpace(p.Short) == "" {
			return fmt.Errorf("problem #%d has no short name", i+1)
		}
	}
	*s = list
	return nil
}

// UnmarshalJSON accepts either a record object with a name field or a bare test name.
func (r *TestRecord) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return r.fromValue(raw)
}

// UnmarshalYAML accepts either a record mapping with a name field or a bare test name.
func (r *TestRecord) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return r.fromValue(raw)
}

// MarshalJSON writes the record as a flat object.
func (r TestRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields())
}

func (r *TestRecord) fromValue(raw any) error {
	switch v := raw.(type) {
	case string:
		*r = TestRecord{Name: v}
		return nil
	case map[string]any:
		rec := TestRecord{}
		for key, value := range v {
			if key == "name" {
				if value != nil {
					rec.Name = fmt.Sprint(value)
				}
				continue
			}
			if rec.Details == nil {
				rec.Details = make(map[string]any, len(v))
			}
			rec.Details[key] = value
		}
		*r = rec
		return nil
	default:
		return fmt.Errorf("test record must be an object or a string, got %T", raw)
	}
}

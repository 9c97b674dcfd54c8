// Package sheet reads category lists from files and command-line values and
// writes calculation results.
package sheet

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pavelanni/gradeace/internal/grade"
	"github.com/pavelanni/gradeace/internal/model"
)

// Entry is one category as written in a sheet. Weight and score may be
// numbers or strings; both are kept as raw text.
type Entry struct {
	Name   string  `yaml:"name" json:"name"`
	Weight RawText `yaml:"weight" json:"weight"`
	Score  RawText `yaml:"score" json:"score"`
}

// RawText accepts any YAML scalar and keeps its literal text.
type RawText string

// UnmarshalYAML stores the scalar's source text.
func (r *RawText) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number or string", node.Line)
	}
	if node.Tag == "!!null" {
		*r = ""
		return nil
	}
	*r = RawText(node.Value)
	return nil
}

// Sheet is the file format: either a mapping with a categories key or a bare list.
type Sheet struct {
	Categories []Entry `yaml:"categories"`
}

// Read decodes a sheet from r. JSON input is accepted since it is valid YAML.
func Read(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("sheet is empty")
	}

	var entries []Entry
	if data[0] == '[' || data[0] == '-' {
		err = yaml.Unmarshal(data, &entries)
	} else {
		var s Sheet
		err = yaml.Unmarshal(data, &s)
		entries = s.Categories
	}
	if err != nil {
		return nil, fmt.Errorf("parse sheet: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.New("sheet has no categories")
	}
	return entries, nil
}

// Load reads a sheet file; "-" means stdin.
func Load(path string) ([]Entry, error) {
	if path == "-" {
		return Read(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sheet: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// ParseFlag parses a "name:weight:score" command-line value. The name may
// itself contain colons; the last two fields are weight and score.
func ParseFlag(s string) (Entry, error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return Entry{}, fmt.Errorf("category %q: want name:weight:score", s)
	}
	j := strings.LastIndex(s[:i], ":")
	if j < 0 {
		return Entry{}, fmt.Errorf("category %q: want name:weight:score", s)
	}
	return Entry{
		Name:   strings.TrimSpace(s[:j]),
		Weight: RawText(strings.TrimSpace(s[j+1 : i])),
		Score:  RawText(strings.TrimSpace(s[i+1:])),
	}, nil
}

// Fill loads entries into m, replacing its contents.
func Fill(m *grade.Model, entries []Entry) {
	m.Reset()
	for i, e := range entries {
		c := m.Categories()[0]
		if i > 0 {
			c = m.AddCategory()
		}
		m.UpdateCategory(c.ID, model.FieldName, e.Name)
		m.UpdateCategory(c.ID, model.FieldWeight, string(e.Weight))
		m.UpdateCategory(c.ID, model.FieldScore, string(e.Score))
	}
}

// Result is the JSON shape of a calculation outcome.
type Result struct {
	Categories  []model.Category `json:"categories"`
	TotalWeight float64          `json:"total_weight"`
	Grade       *float64         `json:"grade"`
	Error       *ResultError     `json:"error,omitempty"`
}

// ResultError describes a failed calculation.
type ResultError struct {
	Kind     grade.Kind `json:"kind"`
	Message  string     `json:"message"`
	Total    *float64   `json:"total,omitempty"`
	Category string     `json:"category,omitempty"`
}

// NewResult captures the state of m after a calculation that returned err.
func NewResult(m *grade.Model, err error) Result {
	v := m.View()
	res := Result{Categories: v.Categories, TotalWeight: v.TotalWeight, Grade: v.Grade}
	if err == nil {
		return res
	}
	re := &ResultError{Message: err.Error()}
	var ve *grade.ValidationError
	if errors.As(err, &ve) {
		re.Kind = ve.Kind
		switch ve.Kind {
		case grade.KindWeightMismatch:
			total := ve.Total
			re.Total = &total
		case grade.KindInvalidEntry:
			re.Category = ve.Category
		}
	}
	res.Error = re
	return res
}

// WriteJSON writes res as indented JSON followed by a newline.
func WriteJSON(w io.Writer, res Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintln(w)
	return nil
}

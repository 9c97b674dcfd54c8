package sheet

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pavelanni/gradeace/internal/grade"
)

func TestReadYAML(t *testing.T) {
	in := `
categories:
  - name: Homework
    weight: 20
    score: "90"
  - name: Exam
    weight: 80.0
    score: 70
`
	entries, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0] != (Entry{Name: "Homework", Weight: "20", Score: "90"}) {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].Weight != "80.0" {
		t.Errorf("weight text = %q, want literal 80.0", entries[1].Weight)
	}
}

func TestReadJSONList(t *testing.T) {
	in := `[{"name": "Quiz", "weight": 100, "score": null}]`
	entries, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "Quiz" || entries[0].Weight != "100" || entries[0].Score != "" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestReadErrors(t *testing.T) {
	tests := map[string]string{
		"empty":         "  \n",
		"no categories": "categories: []",
		"nested value":  "categories:\n  - name: A\n    weight: [1, 2]\n",
		"malformed":     "categories: [",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    Entry
		wantErr bool
	}{
		{"Homework:20:90", Entry{"Homework", "20", "90"}, false},
		{"Lab: Part 1:30: 85.5", Entry{"Lab: Part 1", "30", "85.5"}, false},
		{"::", Entry{"", "", ""}, false},
		{"Homework:20", Entry{}, true},
		{"Homework", Entry{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFlag(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFlag(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFlag(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFillAndResult(t *testing.T) {
	m := grade.NewModel()
	Fill(m, []Entry{{"Homework", "20", "90"}, {"Exam", "80", "70"}})
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}

	_, err := m.Calculate()
	res := NewResult(m, err)
	if res.Error != nil || res.Grade == nil || *res.Grade < 73.99 || *res.Grade > 74.01 {
		t.Fatalf("unexpected result %+v", res)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, res); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["total_weight"] != 100.0 {
		t.Errorf("total_weight = %v", decoded["total_weight"])
	}
}

func TestResultWeightMismatch(t *testing.T) {
	m := grade.NewModel()
	Fill(m, []Entry{{"Homework", "50", "90"}, {"Exam", "40", "70"}})
	_, err := m.Calculate()
	res := NewResult(m, err)
	if res.Grade != nil {
		t.Error("grade should be unset")
	}
	if res.Error == nil || res.Error.Kind != grade.KindWeightMismatch || res.Error.Total == nil || *res.Error.Total != 90 {
		t.Errorf("unexpected error %+v", res.Error)
	}
}

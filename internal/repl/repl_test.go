package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/pavelanni/gradeace/internal/grade"
	appI18n "github.com/pavelanni/gradeace/internal/i18n"
)

func run(t *testing.T, lang, script string) (string, *grade.Model) {
	t.Helper()
	if err := appI18n.Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	ctx := appI18n.WithLanguage(context.Background(), language.MustParse(lang))
	m := grade.NewModel()
	var out bytes.Buffer
	r := New(ctx, m, &out)
	r.SetPrompt("")
	if err := r.Run(strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String(), m
}

func TestWeightedAverage(t *testing.T) {
	out, m := run(t, "en", `
set 1 name Homework
set 1 weight 20
set 1 score 90
add
set 2 name Final Exam
set 2 weight 80
set 2 score 70
calc
`)
	if !strings.Contains(out, "Your Calculated Final Grade: 74.00%") {
		t.Errorf("output missing grade:\n%s", out)
	}
	if c := m.Categories()[1]; c.Name != "Final Exam" {
		t.Errorf("name = %q, want 'Final Exam'", c.Name)
	}
}

func TestWeightMismatch(t *testing.T) {
	out, m := run(t, "en", "set 1 name Homework\nset 1 weight 50\nset 1 score 90\nadd\nset 2 weight 40\nset 2 score 70\ncalc\n")
	if !strings.Contains(out, "[error] Calculation Error: Total weight must be exactly 100%. Current total: 90%") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if _, ok := m.Grade(); ok {
		t.Error("grade should be unset")
	}
}

func TestRemoveLastRefused(t *testing.T) {
	out, m := run(t, "en", "rm 1\nrm whatever\n")
	if strings.Count(out, "[error] Action Forbidden: You must have at least one category.") != 2 {
		t.Errorf("unexpected output:\n%s", out)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestRemoveByIDAndUnknown(t *testing.T) {
	if err := appI18n.Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	m := grade.NewModel()
	second := m.AddCategory()
	var out bytes.Buffer
	r := New(context.Background(), m, &out)

	r.Exec("rm nope")
	if m.Len() != 2 || !strings.Contains(out.String(), `no category "nope"`) {
		t.Fatalf("unknown id should be a no-op, output:\n%s", out.String())
	}
	r.Exec("rm " + second.ID)
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestListAndTotal(t *testing.T) {
	out, _ := run(t, "en", "set 1 name Labs\nset 1 weight 30.5\nlist\ntotal\n")
	if !strings.Contains(out, "Labs") || !strings.Contains(out, "30.5") {
		t.Errorf("list output missing row:\n%s", out)
	}
	if !strings.Contains(out, "Total Weight: 30.50%") {
		t.Errorf("total missing:\n%s", out)
	}
}

func TestRussianOutput(t *testing.T) {
	out, _ := run(t, "ru", "set 1 weight 100\nset 1 score 80\ncalc\n")
	if !strings.Contains(out, "Ваша итоговая оценка: 80,00%") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestErrorsAndQuit(t *testing.T) {
	out, _ := run(t, "en", "bogus\nset\nset 9 name x\nset 1 colour red\nquit\nadd\n")
	for _, want := range []string{
		`unknown command "bogus"`,
		"usage: set",
		`no category "9"`,
		`unknown field "colour"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "added row") {
		t.Error("commands after quit were executed")
	}
}

func TestRestAfter(t *testing.T) {
	tests := []struct {
		line string
		n    int
		want string
	}{
		{"set 1 name Final  Exam", 3, "Final  Exam"},
		{"set 1 name", 3, ""},
		{"  set\t2 score 88 ", 3, "88"},
	}
	for _, tt := range tests {
		if got := restAfter(tt.line, tt.n); got != tt.want {
			t.Errorf("restAfter(%q, %d) = %q, want %q", tt.line, tt.n, got, tt.want)
		}
	}
}

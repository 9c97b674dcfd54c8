// Package repl is a line-oriented console front end for the grade model.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pavelanni/gradeace/internal/grade"
	appI18n "github.com/pavelanni/gradeace/internal/i18n"
	"github.com/pavelanni/gradeace/internal/model"
)

const helpText = `Commands:
  add                        append an empty category
  rm <row|id>                remove a category
  set <row|id> <field> <v>   set name, weight or score (v may contain spaces)
  list                       show all categories
  total                      show the total weight
  calc                       calculate the final grade
  reset                      start over with one empty category
  help                       show this help
  quit                       leave
`

// REPL reads commands from in and writes results to out.
type REPL struct {
	ctx    context.Context
	model  *grade.Model
	out    io.Writer
	prompt string
}

// New returns a REPL driving m. Notifications are printed to out.
func New(ctx context.Context, m *grade.Model, out io.Writer) *REPL {
	r := &REPL{ctx: ctx, model: m, out: out, prompt: "> "}
	m.Attach(grade.NotifierFunc(r.notify), appI18n.NewPhrases(ctx))
	return r
}

// SetPrompt changes the prompt; an empty prompt disables it.
func (r *REPL) SetPrompt(p string) {
	r.prompt = p
}

// Run processes commands until quit, end of input or ctx cancellation.
func (r *REPL) Run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		if r.prompt != "" {
			fmt.Fprint(r.out, r.prompt)
		}
		if !sc.Scan() {
			return sc.Err()
		}
		if quit := r.Exec(sc.Text()); quit {
			return nil
		}
	}
}

// Exec runs a single command line and reports whether the session should end.
func (r *REPL) Exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprint(r.out, helpText)
	case "add":
		c := r.model.AddCategory()
		fmt.Fprintf(r.out, "added row %d (%s)\n", r.model.Len(), c.ID)
	case "rm", "remove", "del":
		if len(args) != 1 {
			r.usage("rm <row|id>")
			return false
		}
		r.remove(args[0])
	case "set":
		if len(args) < 2 {
			r.usage("set <row|id> <field> <value>")
			return false
		}
		r.set(args[0], args[1], restAfter(line, 3))
	case "list", "ls":
		r.list()
	case "total":
		fmt.Fprintf(r.out, "%s: %s%%\n", appI18n.T(r.ctx, "TotalWeight"), appI18n.FormatPercent(r.ctx, r.model.TotalWeight()))
	case "calc", "calculate":
		if g, err := r.model.Calculate(); err == nil {
			fmt.Fprintf(r.out, "%s: %s%%\n", appI18n.T(r.ctx, "FinalGrade"), appI18n.FormatPercent(r.ctx, g))
		}
	case "reset":
		r.model.Reset()
		fmt.Fprintln(r.out, "reset")
	default:
		fmt.Fprintf(r.out, "unknown command %q, type help\n", cmd)
	}
	return false
}

func (r *REPL) remove(ref string) {
	id, ok := r.resolve(ref)
	if !ok {
		// An unknown id is a no-op for the model, but the last-category
		// guard still applies.
		id = ref
	}
	before := r.model.Len()
	if err := r.model.RemoveCategory(id); err != nil {
		return
	}
	if r.model.Len() < before {
		fmt.Fprintln(r.out, "removed")
	} else {
		fmt.Fprintf(r.out, "no category %q\n", ref)
	}
}

func (r *REPL) set(ref, field, value string) {
	id, ok := r.resolve(ref)
	if !ok {
		fmt.Fprintf(r.out, "no category %q\n", ref)
		return
	}
	f := model.Field(strings.ToLower(field))
	if !f.Valid() {
		fmt.Fprintf(r.out, "unknown field %q (name, weight, score)\n", field)
		return
	}
	r.model.UpdateCategory(id, f, value)
}

func (r *REPL) list() {
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "#\t%s\t%s\t%s\n",
		appI18n.T(r.ctx, "CategoryName"), appI18n.T(r.ctx, "Weight"), appI18n.T(r.ctx, "Score"))
	for i, c := range r.model.Categories() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, c.Name, c.Weight, c.Score)
	}
	_ = tw.Flush()
	if g, ok := r.model.Grade(); ok {
		fmt.Fprintf(r.out, "%s: %s%%\n", appI18n.T(r.ctx, "FinalGrade"), appI18n.FormatPercent(r.ctx, g))
	}
}

// resolve maps a 1-based row number or a category id to an id.
func (r *REPL) resolve(ref string) (string, bool) {
	cats := r.model.Categories()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(cats) {
			return "", false
		}
		return cats[n-1].ID, true
	}
	if _, ok := r.model.Category(ref); ok {
		return ref, true
	}
	return "", false
}

func (r *REPL) notify(severity grade.Severity, title, message string) {
	fmt.Fprintf(r.out, "[%s] %s: %s\n", severity, title, message)
}

func (r *REPL) usage(u string) {
	fmt.Fprintf(r.out, "usage: %s\n", u)
}

// restAfter returns line with its first n whitespace-separated words removed,
// preserving inner spacing of the remainder.
func restAfter(line string, n int) string {
	s := strings.TrimSpace(line)
	for range n {
		i := strings.IndexFunc(s, func(r rune) bool { return r == ' ' || r == '\t' })
		if i < 0 {
			return ""
		}
		s = strings.TrimLeft(s[i:], " \t")
	}
	return s
}

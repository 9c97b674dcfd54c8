// Package views renders the calculator page.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/gradeace/internal/i18n"
	"github.com/pavelanni/gradeace/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageTemplate is parsed once; CalculatorPage clones it per request and
// rebinds the funcs to the request context.
var pageTemplate = template.Must(template.New("page.html").Funcs(funcs(context.Background(), "")).
	ParseFS(templateFS, "templates/page.html"))

// PageData is everything the calculator page shows.
type PageData struct {
	Lang      string
	Languages []string
	CSRFToken string
	State     model.StateView
	Toasts    []model.Toast
}

// CalculatorPage renders the single calculator page.
func CalculatorPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, err := pageTemplate.Clone()
		if err != nil {
			return err
		}
		t.Funcs(funcs(ctx, model.BasePathFromContext(ctx)))
		return templ.FromGoHTML(t, data).Render(ctx, w)
	})
}

func funcs(ctx context.Context, basePath string) template.FuncMap {
	return template.FuncMap{
		"t":  func(id string) string { return appI18n.T(ctx, id) },
		"tp": func(id string, n int) string { return appI18n.Tp(ctx, id, n) },
		"pct": func(v float64) string {
			return appI18n.FormatPercent(ctx, v)
		},
		"path": func(p string) string { return basePath + p },
	}
}

package model

import "context"

// Field names a user-editable column of a category row.
type Field string

const (
	FieldName   Field = "name"
	FieldWeight Field = "weight"
	FieldScore  Field = "score"
)

// Fields lists the editable fields in display order.
var Fields = []Field{FieldName, FieldWeight, FieldScore}

// Valid reports whether f is one of the known fields.
func (f Field) Valid() bool {
	switch f {
	case FieldName, FieldWeight, FieldScore:
		return true
	}
	return false
}

// Category is one weighted grading component. Weight and Score hold the raw
// text the user typed; they are parsed only when a grade is calculated.
type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Weight string `json:"weight"`
	Score  string `json:"score"`
}

// Get returns the raw value of the given field.
func (c Category) Get(f Field) string {
	switch f {
	case FieldName:
		return c.Name
	case FieldWeight:
		return c.Weight
	case FieldScore:
		return c.Score
	}
	return ""
}

// Set stores value in the given field. Unknown fields are ignored.
func (c *Category) Set(f Field, value string) bool {
	switch f {
	case FieldName:
		c.Name = value
	case FieldWeight:
		c.Weight = value
	case FieldScore:
		c.Score = value
	default:
		return false
	}
	return true
}

// Toast is a notification waiting to be shown to the user.
type Toast struct {
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}

// StateView is a snapshot of one session's calculator for display.
type StateView struct {
	Categories      []Category `json:"categories"`
	TotalWeight     float64    `json:"total_weight"`
	WeightsComplete bool       `json:"weights_complete"`
	Grade           *float64   `json:"grade,omitempty"`
	Toasts          []Toast    `json:"toasts,omitempty"`
}

type basePathCtxKey struct{}

// ContextWithBasePath stores the base path prefix in context.
func ContextWithBasePath(ctx context.Context, basePath string) context.Context {
	return context.WithValue(ctx, basePathCtxKey{}, basePath)
}

// BasePathFromContext retrieves the base path from context (empty string if not set).
func BasePathFromContext(ctx context.Context) string {
	bp, _ := ctx.Value(basePathCtxKey{}).(string)
	return bp
}

type csrfCtxKey struct{}

// ContextWithCSRFToken stores the CSRF token in context.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey{}, token)
}

// CSRFTokenFromContext retrieves the CSRF token from context.
func CSRFTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(csrfCtxKey{}).(string)
	return t
}

type langCtxKey struct{}

// ContextWithLang stores the UI language tag in context.
func ContextWithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langCtxKey{}, lang)
}

// LangFromContext returns the UI language tag, defaulting to "en".
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(langCtxKey{}).(string); ok && l != "" {
		return l
	}
	return "en"
}

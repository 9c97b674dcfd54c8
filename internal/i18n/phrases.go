package i18n

import (
	"context"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/pavelanni/gradeace/internal/grade"
)

// Phrases renders grade notifications in the language of ctx.
type Phrases struct {
	ctx context.Context
}

// NewPhrases returns grade.Phrases bound to the localizer stored in ctx.
func NewPhrases(ctx context.Context) Phrases {
	return Phrases{ctx: ctx}
}

var _ grade.Phrases = Phrases{}

func (p Phrases) LastCategory() (string, string) {
	return T(p.ctx, "ActionForbiddenTitle"), T(p.ctx, "ActionForbiddenMessage")
}

func (p Phrases) WeightMismatch(total float64) (string, string) {
	return T(p.ctx, "CalculationErrorTitle"),
		Td(p.ctx, "WeightMismatchMessage", map[string]any{"Total": FormatNumber(p.ctx, total)})
}

func (p Phrases) InvalidEntry(name string) (string, string) {
	if name == grade.PlaceholderName {
		name = T(p.ctx, "PlaceholderName")
	}
	return T(p.ctx, "InvalidInputTitle"),
		Td(p.ctx, "InvalidEntryMessage", map[string]any{"Name": name})
}

func (p Phrases) Failure(message string) (string, string) {
	return T(p.ctx, "ErrorTitle"), message
}

// FormatNumber prints v with the shortest exact precision using the decimal
// separator of the context language.
func FormatNumber(ctx context.Context, v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	prec := 0
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			prec = len(s) - 1 - i
			break
		}
	}
	return printer(ctx).Sprint(number.Decimal(v, number.Scale(prec)))
}

// FormatPercent prints v with two decimals, the way totals and grades are shown.
func FormatPercent(ctx context.Context, v float64) string {
	return printer(ctx).Sprint(number.Decimal(v, number.Scale(2)))
}

func printer(ctx context.Context) *message.Printer {
	return message.NewPrinter(langFromCtx(ctx))
}

func langFromCtx(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(langKey{}).(language.Tag); ok {
		return tag
	}
	return language.English
}

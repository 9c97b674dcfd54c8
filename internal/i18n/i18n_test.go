package i18n

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"

	"github.com/pavelanni/gradeace/internal/grade"
	"github.com/pavelanni/gradeace/internal/model"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return WithLanguage(context.Background(), language.MustParse(lang))
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "AppTitle")
	if got != "Grade Ace" {
		t.Errorf("T(AppTitle) = %q, want 'Grade Ace'", got)
	}

	got = T(ctx, "Calculate")
	if got != "Calculate Final Grade" {
		t.Errorf("T(Calculate) = %q, want 'Calculate Final Grade'", got)
	}
}

func TestTranslateRussian(t *testing.T) {
	ctx := initLang(t, "ru")

	got := T(ctx, "AddCategory")
	if got != "Добавить категорию" {
		t.Errorf("T(AddCategory) = %q, want 'Добавить категорию'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	if got := Tp(ctx, "CategoriesCount", 1); got != "1 category" {
		t.Errorf("Tp(CategoriesCount, 1) = %q", got)
	}
	if got := Tp(ctx, "CategoriesCount", 5); got != "5 categories" {
		t.Errorf("Tp(CategoriesCount, 5) = %q", got)
	}

	ru := initLang(t, "ru")
	if got := Tp(ru, "CategoriesCount", 5); got != "5 категорий" {
		t.Errorf("Tp(ru, CategoriesCount, 5) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestPhrasesMatchEnglishDefaults(t *testing.T) {
	ctx := initLang(t, "en")
	p := NewPhrases(ctx)

	errs := []error{
		grade.ErrLastCategory,
		&grade.ValidationError{Kind: grade.KindWeightMismatch, Total: 90.5},
		&grade.ValidationError{Kind: grade.KindInvalidEntry, Category: "Quiz"},
		&grade.ValidationError{Kind: grade.KindInvalidEntry, Category: grade.PlaceholderName},
		errors.New("disk full"),
	}
	for _, err := range errs {
		gotTitle, gotMsg := grade.Describe(p, err)
		wantTitle, wantMsg := grade.Describe(grade.English{}, err)
		if gotTitle != wantTitle || gotMsg != wantMsg {
			t.Errorf("%v: got (%q, %q), want (%q, %q)", err, gotTitle, gotMsg, wantTitle, wantMsg)
		}
	}
}

func TestPhrasesRussian(t *testing.T) {
	ctx := initLang(t, "ru")
	title, msg := NewPhrases(ctx).WeightMismatch(90.5)
	if title != "Ошибка расчёта" {
		t.Errorf("title = %q", title)
	}
	if msg != "Суммарный вес должен быть ровно 100%. Сейчас: 90,5%" {
		t.Errorf("message = %q", msg)
	}
}

func TestPhrasesRussianGenericError(t *testing.T) {
	ctx := initLang(t, "ru")
	title, msg := grade.Describe(NewPhrases(ctx), errors.New("disk full"))
	if title != "Ошибка" || msg != "disk full" {
		t.Errorf("got (%q, %q)", title, msg)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(initLang(t, "en"), 74); got != "74.00" {
		t.Errorf("en FormatPercent = %q", got)
	}
	if got := FormatPercent(initLang(t, "ru"), 74); got != "74,00" {
		t.Errorf("ru FormatPercent = %q", got)
	}
}

func TestMiddlewareLanguageSelection(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	tests := []struct {
		name, query, accept, want string
	}{
		{"fallback", "", "", "en"},
		{"accept header", "", "ru-RU,ru;q=0.9", "ru"},
		{"query wins", "?lang=en", "ru", "en"},
		{"unsupported", "", "fr", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := Middleware("en")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = model.LangFromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.want {
				t.Errorf("lang = %q, want %q", got, tt.want)
			}
		})
	}
}

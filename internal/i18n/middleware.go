package i18n

import (
	"net/http"

	"github.com/pavelanni/gradeace/internal/model"
)

const langCookieName = "lang"

// Middleware injects a localizer into every request context. The language
// comes from the "lang" query parameter (remembered in a cookie), then
// Accept-Language, then fallback.
func Middleware(fallback string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			prefs := []string{r.URL.Query().Get("lang")}
			if prefs[0] != "" {
				http.SetCookie(w, &http.Cookie{
					Name:     langCookieName,
					Value:    Match(prefs[0]).String(),
					Path:     "/",
					SameSite: http.SameSiteLaxMode,
				})
			} else if c, err := r.Cookie(langCookieName); err == nil {
				prefs = append(prefs, c.Value)
			}
			prefs = append(prefs, r.Header.Get("Accept-Language"), fallback)

			tag := Match(prefs...)
			ctx := WithLanguage(r.Context(), tag)
			ctx = model.ContextWithLang(ctx, tag.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/gradeace/internal/grade"
	"github.com/pavelanni/gradeace/internal/handler/views"
	appI18n "github.com/pavelanni/gradeace/internal/i18n"
	"github.com/pavelanni/gradeace/internal/model"
	"github.com/pavelanni/gradeace/internal/session"
)

// Config holds HTTP settings set via CLI flags.
type Config struct {
	BasePath      string // URL prefix for sub-path deployments (e.g. "/grades")
	SecureCookies bool   // Set Secure flag on cookies (disable for local dev)
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	sessions *session.Store
	config   Config
}

// New creates a new Handler.
func New(s *session.Store, cfg Config) *Handler {
	return &Handler{sessions: s, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(h.sessionMiddleware)
		r.Use(h.csrfMiddleware)
		r.Get("/", h.handleIndex)
		r.Get("/api/state", h.handleState)
		r.Post("/categories", h.handleAddCategory)
		r.Post("/categories/{id}", h.handleUpdateCategory)
		r.Post("/categories/{id}/delete", h.handleRemoveCategory)
		r.Post("/calculate", h.handleCalculate)
		r.Post("/reset", h.handleReset)
	})
}

// BasePathMiddleware makes the configured base path available to views.
func (h *Handler) BasePathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := model.ContextWithBasePath(r.Context(), h.config.BasePath)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) path(p string) string {
	return h.config.BasePath + p
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	var state model.StateView
	sess.Do(func(m *grade.Model) { state = m.View() })

	var langs []string
	for _, tag := range appI18n.Languages() {
		langs = append(langs, tag.String())
	}

	data := views.PageData{
		Lang:      model.LangFromContext(r.Context()),
		Languages: langs,
		CSRFToken: model.CSRFTokenFromContext(r.Context()),
		State:     state,
		Toasts:    sess.Drain(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.CalculatorPage(data).Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	var state model.StateView
	sess.Do(func(m *grade.Model) { state = m.View() })
	state.Toasts = sess.Drain()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		slog.Error("encode state", "error", err)
	}
}

func (h *Handler) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(m *grade.Model) {
		c := m.AddCategory()
		slog.Debug("category added", "id", c.ID, "count", m.Len())
	})
}

func (h *Handler) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.mutate(w, r, func(m *grade.Model) {
		for _, f := range model.Fields {
			if vals, ok := r.PostForm[string(f)]; ok && len(vals) > 0 {
				setIfChanged(m, id, f, vals[0])
			}
		}
	})
}

func (h *Handler) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.mutate(w, r, func(m *grade.Model) {
		if err := m.RemoveCategory(id); err != nil {
			slog.Debug("remove refused", "id", id, "error", err)
		}
	})
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(m *grade.Model) {
		g, err := m.Calculate()
		if err != nil {
			slog.Debug("calculation failed", "error", err)
			return
		}
		slog.Debug("grade calculated", "grade", g, "categories", m.Len())
	})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(m *grade.Model) { m.Reset() })
}

// mutate applies the row fields posted with the page form, runs fn on the
// session model and redirects back to the page.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(m *grade.Model)) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := sessionFromContext(r.Context())
	sess.Do(func(m *grade.Model) {
		m.Attach(sess, appI18n.NewPhrases(r.Context()))
		defer m.Attach(nil, nil)
		applyRowFields(m, r)
		fn(m)
	})
	h.redirectToIndex(w, r)
}

// applyRowFields copies "<field>-<id>" form values into the model.
func applyRowFields(m *grade.Model, r *http.Request) {
	for key, vals := range r.PostForm {
		field, id, ok := strings.Cut(key, "-")
		if !ok || len(vals) == 0 || !model.Field(field).Valid() {
			continue
		}
		setIfChanged(m, id, model.Field(field), vals[0])
	}
}

// setIfChanged avoids invalidating a computed grade when a form resubmits
// the values it was calculated from.
func setIfChanged(m *grade.Model, id string, f model.Field, value string) {
	c, ok := m.Category(id)
	if !ok || c.Get(f) == value {
		return
	}
	m.UpdateCategory(id, f, value)
}

func (h *Handler) redirectToIndex(w http.ResponseWriter, r *http.Request) {
	target := h.path("/")
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

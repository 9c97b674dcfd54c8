package grade

import (
	"slices"

	"github.com/google/uuid"

	"github.com/pavelanni/gradeace/internal/model"
)

// Model owns the category collection of one session and the result of the
// last calculation. It is not safe for concurrent use.
type Model struct {
	categories []model.Category
	grade      *float64

	opts     Options
	notifier Notifier
	phrases  Phrases
	newID    func() string
}

// Option configures a Model.
type Option func(*Model)

// WithNotifier sets where failures are reported.
func WithNotifier(n Notifier) Option {
	return func(m *Model) { m.notifier = n }
}

// WithPhrases sets how notification text is rendered.
func WithPhrases(p Phrases) Option {
	return func(m *Model) { m.phrases = p }
}

// WithOptions sets the calculation options.
func WithOptions(o Options) Option {
	return func(m *Model) { m.opts = o }
}

// WithIDGenerator replaces the category id source.
func WithIDGenerator(fn func() string) Option {
	return func(m *Model) { m.newID = fn }
}

// NewModel returns a model holding a single empty category.
func NewModel(opts ...Option) *Model {
	m := &Model{
		opts:     DefaultOptions(),
		notifier: NopNotifier{},
		phrases:  English{},
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(m)
	}
	m.Reset()
	return m
}

// Attach swaps the notifier and phrases, typically once per request.
func (m *Model) Attach(n Notifier, p Phrases) {
	if n == nil {
		n = NopNotifier{}
	}
	if p == nil {
		p = English{}
	}
	m.notifier = n
	m.phrases = p
}

// Reset discards all categories and the computed grade, leaving one empty category.
func (m *Model) Reset() {
	m.categories = []model.Category{{ID: m.newID()}}
	m.grade = nil
}

// AddCategory appends an empty category and returns it.
func (m *Model) AddCategory() model.Category {
	c := model.Category{ID: m.newID()}
	m.categories = append(m.categories, c)
	m.grade = nil
	return c
}

// RemoveCategory deletes the category with the given id. The last remaining
// category cannot be removed: the user is notified and ErrLastCategory is
// returned. An unknown id is ignored.
func (m *Model) RemoveCategory(id string) error {
	if len(m.categories) <= 1 {
		m.notify(ErrLastCategory)
		return ErrLastCategory
	}
	i := m.index(id)
	if i < 0 {
		return nil
	}
	m.categories = slices.Delete(m.categories, i, i+1)
	m.grade = nil
	return nil
}

// UpdateCategory stores value in a field of the category with the given id.
// It reports whether anything was changed.
func (m *Model) UpdateCategory(id string, field model.Field, value string) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	if !m.categories[i].Set(field, value) {
		return false
	}
	m.grade = nil
	return true
}

// Category returns the category with the given id.
func (m *Model) Category(id string) (model.Category, bool) {
	i := m.index(id)
	if i < 0 {
		return model.Category{}, false
	}
	return m.categories[i], true
}

// Categories returns a copy of the collection in display order.
func (m *Model) Categories() []model.Category {
	return slices.Clone(m.categories)
}

// Len returns the number of categories.
func (m *Model) Len() int {
	return len(m.categories)
}

// TotalWeight sums the current weights, treating non-numbers as zero.
func (m *Model) TotalWeight() float64 {
	return TotalWeight(m.categories)
}

// WeightsComplete reports whether the current weights sum to 100 under the
// model's tolerance.
func (m *Model) WeightsComplete() bool {
	return WeightsComplete(m.TotalWeight(), m.opts.Tolerance)
}

// Grade returns the computed grade, if the last calculation succeeded and
// nothing changed since.
func (m *Model) Grade() (float64, bool) {
	if m.grade == nil {
		return 0, false
	}
	return *m.grade, true
}

// Calculate validates the collection and computes the final grade. On failure
// the user is notified, the grade is unset and the validation error returned.
func (m *Model) Calculate() (float64, error) {
	g, err := Calculate(m.categories, m.opts)
	if err != nil {
		m.grade = nil
		m.notify(err)
		return 0, err
	}
	m.grade = &g
	return g, nil
}

// View returns a snapshot for rendering.
func (m *Model) View() model.StateView {
	v := model.StateView{
		Categories:      m.Categories(),
		TotalWeight:     m.TotalWeight(),
		WeightsComplete: m.WeightsComplete(),
	}
	if g, ok := m.Grade(); ok {
		v.Grade = &g
	}
	return v
}

func (m *Model) index(id string) int {
	return slices.IndexFunc(m.categories, func(c model.Category) bool { return c.ID == id })
}

func (m *Model) notify(err error) {
	title, message := Describe(m.phrases, err)
	m.notifier.Notify(SeverityError, title, message)
}

package grade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Severity tells the presentation layer how to style a notification.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notifier shows feedback to the user. Calls are fire-and-forget.
type Notifier interface {
	Notify(severity Severity, title, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(severity Severity, title, message string)

// Notify calls f.
func (f NotifierFunc) Notify(severity Severity, title, message string) {
	f(severity, title, message)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(Severity, string, string) {}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify logs the notification at a level matching its severity.
func (n LogNotifier) Notify(severity Severity, title, message string) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	if severity == SeverityError {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, title, "message", message)
}

// Phrases renders the user-facing text of notifications.
type Phrases interface {
	LastCategory() (title, message string)
	WeightMismatch(total float64) (title, message string)
	InvalidEntry(name string) (title, message string)
	// Failure titles an error that is not a grade failure.
	Failure(message string) (title, msg string)
}

// English is the built-in Phrases implementation.
type English struct{}

func (English) LastCategory() (string, string) {
	return "Action Forbidden", "You must have at least one category."
}

func (English) WeightMismatch(total float64) (string, string) {
	return "Calculation Error",
		fmt.Sprintf("Total weight must be exactly 100%%. Current total: %s%%", FormatNumber(total))
}

func (English) InvalidEntry(name string) (string, string) {
	return "Invalid Input",
		fmt.Sprintf("Please check your values for %q. Weights and scores must be positive numbers, and scores cannot exceed 100.", name)
}

func (English) Failure(message string) (string, string) {
	return "Error", message
}

// Describe renders err with p. Errors that are not grade failures get a
// generic title and their own text.
func Describe(p Phrases, err error) (title, message string) {
	if errors.Is(err, ErrLastCategory) {
		return p.LastCategory()
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		switch ve.Kind {
		case KindWeightMismatch:
			return p.WeightMismatch(ve.Total)
		case KindInvalidEntry:
			return p.InvalidEntry(ve.Category)
		}
	}
	return p.Failure(err.Error())
}

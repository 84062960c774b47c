package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Source identifies one independently loaded piece of the dashboard.
type Source int

const (
	SourceMonthly Source = iota
	SourceCategories
	SourceRecent
	SourceYears
	SourceCategoryList
	SourceTrend
	SourceExport
)

var sourceNames = [...]string{
	SourceMonthly:      "monthly stats",
	SourceCategories:   "category analysis",
	SourceRecent:       "recent expenses",
	SourceYears:        "yearly stats",
	SourceCategoryList: "category list",
	SourceTrend:        "trend data",
	SourceExport:       "export",
}

func (s Source) String() string {
	if s < 0 || int(s) >= len(sourceNames) {
		return fmt.Sprintf("source(%d)", int(s))
	}
	return sourceNames[s]
}

// Primary reports whether a failure of this source is shown to the user.
// Secondary sources only feed selectors and the trend panel and are logged.
func (s Source) Primary() bool {
	switch s {
	case SourceMonthly, SourceCategories, SourceRecent, SourceExport:
		return true
	}
	return false
}

// SourceError is a failed load of one source.
type SourceError struct {
	Source Source
	Err    error
}

func (e *SourceError) Error() string {
	if e.Source == SourceExport {
		return "Failed to export data: " + e.Err.Error()
	}
	return fmt.Sprintf("Failed to load %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Report collects the outcome of a batch of loads.
type Report struct {
	Started  time.Time
	Finished time.Time
	Errors   []*SourceError
}

// Add records a failed source. Nil errors are ignored.
func (r *Report) Add(err error) {
	if err == nil {
		return
	}
	var se *SourceError
	if !errors.As(err, &se) {
		se = &SourceError{Source: -1, Err: err}
	}
	r.Errors = append(r.Errors, se)
}

// Failed reports whether any primary source failed.
func (r *Report) Failed() bool {
	for _, e := range r.Errors {
		if e.Source.Primary() {
			return true
		}
	}
	return false
}

// Notify returns the user-facing messages for primary-source failures.
func (r *Report) Notify() []string {
	var out []string
	for _, e := range r.Errors {
		if e.Source.Primary() {
			out = append(out, e.Error())
		}
	}
	return out
}

// Err joins every recorded error, primary or not.
func (r *Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Duration is how long the batch took.
func (r *Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

func (r *Report) String() string {
	if len(r.Errors) == 0 {
		return "ok"
	}
	return strings.Join(r.Notify(), "; ")
}

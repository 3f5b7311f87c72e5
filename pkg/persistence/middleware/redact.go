package middleware

import (
	"context"
	"regexp"

	"github.com/rsmiech/flowrunner/pkg/domain"
	"github.com/rsmiech/flowrunner/pkg/ports"
)

const mask = "***"

type redactMiddleware struct {
	next     ports.ReportStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks pattern matches in
// error messages before a report is archived. Routine errors can echo
// request payloads, and those may carry credentials; the in-memory report
// handed to the caller stays untouched.
func NewRedactMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.ReportStore) ports.ReportStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactMiddleware) Save(ctx context.Context, runID string, report *domain.ResultReport) error {
	cloned := *report
	cloned.Steps = make([]domain.StepResult, len(report.Steps))
	for i, step := range report.Steps {
		step.TransitionError = m.redact(step.TransitionError)
		step.Validations = append([]domain.ValidationResult(nil), step.Validations...)
		for j, v := range step.Validations {
			v.Error = m.redact(v.Error)
			step.Validations[j] = v
		}
		cloned.Steps[i] = step
	}
	return m.next.Save(ctx, runID, &cloned)
}

func (m *redactMiddleware) Load(ctx context.Context, runID string) (*domain.ResultReport, error) {
	return m.next.Load(ctx, runID)
}

func (m *redactMiddleware) Delete(ctx context.Context, runID string) error {
	return m.next.Delete(ctx, runID)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactMiddleware) redact(s string) string {
	if s == "" {
		return s
	}
	for _, p := range m.patterns {
		s = p.ReplaceAllString(s, mask)
	}
	return s
}

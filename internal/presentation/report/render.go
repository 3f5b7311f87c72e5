// Package report formats run results and model documentation for terminals.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/rsmiech/flowrunner/pkg/domain"
)

// Renderer writes colored run summaries. Output to pipes and dumb terminals
// stays plain.
type Renderer struct {
	out     io.Writer
	color   bool
	profile termenv.Profile
}

// NewRenderer creates a Renderer for w. When w is not a TTY, output is
// plain text.
func NewRenderer(w io.Writer) *Renderer {
	r := &Renderer{out: w}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.profile = termenv.ColorProfile()
		r.color = r.profile != termenv.Ascii
	}
	return r
}

// Render writes the full run summary: header, per-step lines with their
// validation outcomes, and the final verdict.
func (r *Renderer) Render(report *domain.ResultReport) {
	fmt.Fprintf(r.out, "\nModel: %s\n", report.Model)
	if report.Suite != "" {
		fmt.Fprintf(r.out, "Path:  %s:%s\n", report.Suite, report.Case)
	}
	if report.Description != "" {
		fmt.Fprintf(r.out, "       %s\n", report.Description)
	}
	fmt.Fprintln(r.out)

	for _, step := range report.Steps {
		r.renderStep(step)
	}

	fmt.Fprintf(r.out, "\nTrail: %s\n", strings.Join(report.Trail, " -> "))
	fmt.Fprintf(r.out, "Final state: %s\n", report.FinalState)
	fmt.Fprintf(r.out, "Result: %s\n", r.verdict(report.Passed))
}

func (r *Renderer) renderStep(step domain.StepResult) {
	marker := r.passMark(step.Passed)
	fmt.Fprintf(r.out, "%s [%s] %s: %s -> %s\n",
		marker, step.StepID, step.Trigger, step.From, step.Destination)

	if step.BadTrigger {
		fmt.Fprintf(r.out, "      %s\n", r.errorText(
			fmt.Sprintf("trigger %q does not resolve from state %q", step.Trigger, step.From)))
		return
	}
	if step.TransitionError != "" {
		fmt.Fprintf(r.out, "      %s\n", r.errorText("transition error: "+step.TransitionError))
	}

	for _, v := range step.Validations {
		fmt.Fprintf(r.out, "   %s %s: expected %v, got %v\n",
			r.passMark(v.Passed), v.Name, v.Expected, v.Actual)
		if v.Error != "" {
			fmt.Fprintf(r.out, "      %s\n", r.errorText("validation error: "+v.Error))
		}
	}
}

func (r *Renderer) verdict(passed bool) string {
	if passed {
		return r.green("PASS", true)
	}
	return r.red("FAIL", true)
}

func (r *Renderer) passMark(passed bool) string {
	if passed {
		return r.green("ok", false)
	}
	return r.red("FAIL", false)
}

func (r *Renderer) errorText(msg string) string {
	return r.red(msg, false)
}

func (r *Renderer) green(s string, bold bool) string {
	return r.styled(s, "2", bold)
}

func (r *Renderer) red(s string, bold bool) string {
	return r.styled(s, "1", bold)
}

func (r *Renderer) styled(s, color string, bold bool) string {
	if !r.color {
		return s
	}
	style := termenv.String(s).Foreground(r.profile.Color(color))
	if bold {
		style = style.Bold()
	}
	return style.String()
}

// ModelMarkdown documents a model as markdown, for rendering with glamour.
func ModelMarkdown(model *domain.Model) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", model.Name)
	if model.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", model.Description)
	}
	fmt.Fprintf(&sb, "Initial state: `%s`\n\n", model.InitialState)

	fmt.Fprintf(&sb, "## States\n\n")
	for _, name := range model.StateOrder {
		state := model.States[name]
		fmt.Fprintf(&sb, "### %s\n\n", name)
		if state.Description != "" {
			fmt.Fprintf(&sb, "%s\n\n", state.Description)
		}
		if len(state.Validations) > 0 {
			fmt.Fprintf(&sb, "| Validation | Routine |\n|---|---|\n")
			for _, v := range state.Validations {
				fmt.Fprintf(&sb, "| %s | `%s` |\n", v.Name, v.Routine)
			}
			sb.WriteString("\n")
		}
		if len(state.Transitions) > 0 {
			fmt.Fprintf(&sb, "| Trigger | Destination | Routine |\n|---|---|---|\n")
			for _, t := range state.Transitions {
				fmt.Fprintf(&sb, "| %s | %s | `%s` |\n", t.Trigger, t.Destination, routineOrDash(t.Routine))
			}
			sb.WriteString("\n")
		}
	}

	if len(model.MultiTriggers) > 0 {
		fmt.Fprintf(&sb, "## Multi-triggers\n\n")
		fmt.Fprintf(&sb, "| Trigger | Sources | Destination | Routine |\n|---|---|---|---|\n")
		for _, mt := range model.MultiTriggers {
			fmt.Fprintf(&sb, "| %s | %s | %s | `%s` |\n",
				mt.Trigger, mt.Sources.String(), mt.Destination, routineOrDash(mt.Routine))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// NewMarkdownRenderer returns a function that renders markdown using glamour,
// auto-detecting light or dark backgrounds.
func NewMarkdownRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	return func(markdown string) (string, error) {
		if err != nil {
			return "", err
		}
		return r.Render(markdown)
	}
}

func routineOrDash(routine string) string {
	if routine == "" {
		return "-"
	}
	return routine
}

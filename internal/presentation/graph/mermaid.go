// Package graph renders a machine model as Mermaid diagram syntax.
package graph

import (
	"fmt"
	"strings"

	"github.com/rsmiech/flowrunner/pkg/domain"
)

// Overlay contains run data to visualize on top of the static graph.
type Overlay struct {
	VisitedStates []string
	FinalState    string
}

// GenerateMermaid produces a Mermaid flowchart from the model.
// It applies semantic styling:
// - Initial state: ((Circle))
// - Terminal state (no outgoing transitions): [[Subroutine]]
// - Default: [Rectangle]
// State-level transitions are solid arrows; multi-trigger transitions are
// dotted, since they apply from many sources at once.
func GenerateMermaid(model *domain.Model, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, name := range model.StateOrder {
		state := model.States[name]
		safeID := sanitizeMermaidID(name)

		opener, closer := "[", "]"
		switch {
		case name == model.InitialState:
			opener, closer = "((", "))"
		case state.Terminal() && !hasMultiTriggerExit(model, name):
			opener, closer = "[[", "]]"
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, name, closer))

		for _, t := range state.Transitions {
			safeTo := sanitizeMermaidID(t.Destination)
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", safeID, escapeLabel(t.Trigger), safeTo))
		}
	}

	for _, mt := range model.MultiTriggers {
		safeTo := sanitizeMermaidID(mt.Destination)
		for _, source := range multiTriggerSources(model, mt) {
			safeFrom := sanitizeMermaidID(source)
			sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", safeFrom, escapeLabel(mt.Trigger), safeTo))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef final fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, name := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(name)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.FinalState != "" {
			sb.WriteString(fmt.Sprintf("    class %s final;\n", sanitizeMermaidID(overlay.FinalState)))
		}
	}

	return sb.String()
}

// ReportOverlay builds the overlay for a finished run.
func ReportOverlay(report *domain.ResultReport) *Overlay {
	return &Overlay{
		VisitedStates: report.Trail,
		FinalState:    report.FinalState,
	}
}

// multiTriggerSources expands a multi-trigger's sources to concrete state
// names, in declaration order for explicit lists and model order for
// wildcards.
func multiTriggerSources(model *domain.Model, mt domain.MultiTrigger) []string {
	if mt.Sources.All {
		return model.StateOrder
	}
	return mt.Sources.Names
}

func hasMultiTriggerExit(model *domain.Model, name string) bool {
	for _, mt := range model.MultiTriggers {
		if mt.Sources.Contains(name) {
			return true
		}
	}
	return false
}

func escapeLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return replacer.Replace(id)
}

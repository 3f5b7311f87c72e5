package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsmiech/flowrunner/internal/presentation/graph"
	"github.com/rsmiech/flowrunner/pkg/domain"
)

func orderModel() *domain.Model {
	return &domain.Model{
		Name:         "ORDER",
		InitialState: "CREATED",
		StateOrder:   []string{"CREATED", "PAID", "SHIPPED"},
		States: map[string]*domain.State{
			"CREATED": {
				Name: "CREATED",
				Transitions: []domain.Transition{
					{Trigger: "PAY", Destination: "PAID"},
				},
			},
			"PAID": {
				Name: "PAID",
				Transitions: []domain.Transition{
					{Trigger: "SHIP", Destination: "SHIPPED"},
				},
			},
			"SHIPPED": {Name: "SHIPPED"},
		},
		MultiTriggers: []domain.MultiTrigger{
			{
				Trigger:     "CANCEL",
				Destination: "CREATED",
				Sources:     domain.SourceStates{Names: []string{"CREATED", "PAID"}},
			},
		},
	}
}

func TestGenerateMermaid_Shapes(t *testing.T) {
	out := graph.GenerateMermaid(orderModel(), nil)

	assert.Contains(t, out, "graph TD")
	// Initial is a circle, terminal a subroutine box.
	assert.Contains(t, out, `CREATED(("CREATED"))`)
	assert.Contains(t, out, `SHIPPED[["SHIPPED"]]`)
	assert.Contains(t, out, `PAID["PAID"]`)
}

func TestGenerateMermaid_Transitions(t *testing.T) {
	out := graph.GenerateMermaid(orderModel(), nil)

	assert.Contains(t, out, `CREATED -- "PAY" --> PAID`)
	assert.Contains(t, out, `PAID -- "SHIP" --> SHIPPED`)
	// Multi-trigger edges are dotted, one per source state.
	assert.Contains(t, out, `CREATED -. "CANCEL" .-> CREATED`)
	assert.Contains(t, out, `PAID -. "CANCEL" .-> CREATED`)
	assert.NotContains(t, out, `SHIPPED -. "CANCEL"`)
}

func TestGenerateMermaid_WildcardSources(t *testing.T) {
	model := orderModel()
	model.MultiTriggers = []domain.MultiTrigger{
		{Trigger: "RESET", Destination: "CREATED", Sources: domain.SourceStates{All: true}},
	}

	out := graph.GenerateMermaid(model, nil)
	assert.Contains(t, out, `SHIPPED -. "RESET" .-> CREATED`)
	// A wildcard exit means SHIPPED is not drawn as terminal.
	assert.Contains(t, out, `SHIPPED["SHIPPED"]`)
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	report := &domain.ResultReport{
		Trail:      []string{"CREATED", "PAID", "PAID"},
		FinalState: "PAID",
	}
	out := graph.GenerateMermaid(orderModel(), graph.ReportOverlay(report))

	require.Contains(t, out, "classDef visited")
	assert.Contains(t, out, "class CREATED visited;")
	assert.Contains(t, out, "class PAID final;")
	// Duplicate trail entries are styled once.
	assert.Equal(t, 1, strings.Count(out, "class PAID visited;"))
}

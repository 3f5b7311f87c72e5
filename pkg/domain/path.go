package domain

// Step is one trigger firing within a path. The ID is opaque and unique
// within its path; Data is handed verbatim to the transition routine;
// Expectations maps validation names to the expected boolean outcome.
type Step struct {
	ID           string          `json:"id" yaml:"id"`
	Trigger      string          `json:"trigger" yaml:"trigger"`
	Data         map[string]any  `json:"data,omitempty" yaml:"data,omitempty"`
	Expectations map[string]bool `json:"expectations,omitempty" yaml:"expectations,omitempty"`
}

// Expectation returns the expected outcome for a validation name.
// Validations absent from the map are expected to pass.
func (s Step) Expectation(validation string) bool {
	if exp, ok := s.Expectations[validation]; ok {
		return exp
	}
	return true
}

// Clone returns a deep copy of the step. Steps flow through the inheritance
// resolver, which must never alias a parent path's maps.
func (s Step) Clone() Step {
	out := Step{ID: s.ID, Trigger: s.Trigger}
	if s.Data != nil {
		out.Data = make(map[string]any, len(s.Data))
		for k, v := range s.Data {
			out.Data[k] = v
		}
	}
	if s.Expectations != nil {
		out.Expectations = make(map[string]bool, len(s.Expectations))
		for k, v := range s.Expectations {
			out.Expectations[k] = v
		}
	}
	return out
}

// PathDefinition is an ordered traversal of the machine, used as a test case.
type PathDefinition struct {
	Suite       string `json:"suite,omitempty" yaml:"suite,omitempty"`
	Case        string `json:"case,omitempty" yaml:"case,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Steps       []Step `json:"steps" yaml:"steps"`
}

// Triggers returns the ordered trigger names of the path.
func (p *PathDefinition) Triggers() []string {
	out := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.Trigger
	}
	return out
}

// StepPatch is an update entry of an inherited path: it replaces the data and
// expectations of the step with the matching ID. ID and trigger are immutable.
type StepPatch struct {
	ID           string          `json:"id" yaml:"id"`
	Data         map[string]any  `json:"data,omitempty" yaml:"data,omitempty"`
	Expectations map[string]bool `json:"expectations,omitempty" yaml:"expectations,omitempty"`
}

// StepInsert is an add entry of an inherited path. Exactly one landmark is
// honored: BeforeID takes precedence when both are set.
type StepInsert struct {
	Step     Step   `json:"step" yaml:"step"`
	BeforeID string `json:"before_id,omitempty" yaml:"before_id,omitempty"`
	AfterID  string `json:"after_id,omitempty" yaml:"after_id,omitempty"`
}

// InheritedPathSpec describes a path as mutations over a referenced parent.
// It is resolved once into a concrete PathDefinition and then discarded.
type InheritedPathSpec struct {
	Suite       string       `json:"suite,omitempty" yaml:"suite,omitempty"`
	Case        string       `json:"case,omitempty" yaml:"case,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Reference   PathRef      `json:"reference" yaml:"reference"`
	Deletes     []string     `json:"steps_to_delete,omitempty" yaml:"steps_to_delete,omitempty"`
	Updates     []StepPatch  `json:"steps_to_update,omitempty" yaml:"steps_to_update,omitempty"`
	Adds        []StepInsert `json:"steps_to_add,omitempty" yaml:"steps_to_add,omitempty"`
}

// PathRef locates a parent path by file, suite and case coordinates.
type PathRef struct {
	File  string `json:"file" yaml:"file"`
	Suite string `json:"suite" yaml:"suite"`
	Case  string `json:"case" yaml:"case"`
}

func (r PathRef) String() string {
	return r.File + ":" + r.Suite + ":" + r.Case
}

package domain

// ValidationResult records one validation outcome against its expectation.
type ValidationResult struct {
	Name     string `json:"name"`
	Routine  string `json:"routine"`
	Expected bool   `json:"expected"`
	Actual   bool   `json:"actual"`
	Passed   bool   `json:"passed"`
	// Error carries the message of a validation callback failure, if any.
	Error string `json:"error,omitempty"`
}

// StepResult is the outcome of replaying one path step against the model.
type StepResult struct {
	StepID  string `json:"step_id"`
	Trigger string `json:"trigger"`
	// From is the state the trigger was fired from.
	From string `json:"from"`
	// Destination is the resolved destination state. When the trigger did
	// not resolve it equals From (the engine stays put).
	Destination string             `json:"destination"`
	Validations []ValidationResult `json:"validations,omitempty"`
	Passed      bool               `json:"passed"`
	// BadTrigger is set when the trigger did not resolve from the current
	// state. This is a flow error, distinct from a validation failure.
	BadTrigger bool `json:"bad_trigger,omitempty"`
	// TransitionError carries the message of a failed transition callback.
	TransitionError string `json:"transition_error,omitempty"`
}

// ResultReport aggregates the step results of one path run.
type ResultReport struct {
	Model       string       `json:"model"`
	Suite       string       `json:"suite,omitempty"`
	Case        string       `json:"case,omitempty"`
	Description string       `json:"description,omitempty"`
	Steps       []StepResult `json:"steps"`
	// Passed is the logical AND of every step result.
	Passed bool `json:"passed"`
	// FinalState is the state the engine ended in.
	FinalState string `json:"final_state"`
	// Trail is the ordered list of states traversed, starting at the
	// initial state.
	Trail []string `json:"trail"`
}

// FailedSteps returns the results of every step that did not pass.
func (r *ResultReport) FailedSteps() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if !s.Passed {
			out = append(out, s)
		}
	}
	return out
}

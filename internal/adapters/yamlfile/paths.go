package yamlfile

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rsmiech/flowrunner/internal/dto"
	"github.com/rsmiech/flowrunner/internal/paths"
	"github.com/rsmiech/flowrunner/pkg/domain"
)

// refDelimiter separates the coordinates of a "file:suite:case" reference.
const refDelimiter = ":"

// PathFile is a loaded path file: suite name → case name → raw case body.
// Cases are resolved lazily so a broken inherited case does not poison its
// siblings.
type PathFile struct {
	file   string
	dir    string
	logger *slog.Logger
	suites map[string]map[string]dto.RawCase
}

// Option configures a PathFile loader.
type Option func(*PathFile)

// WithLogger sets the structured logger used during resolution.
func WithLogger(logger *slog.Logger) Option {
	return func(f *PathFile) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// LoadPaths reads and indexes a path file without resolving any case.
func LoadPaths(file string, opts ...Option) (*PathFile, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read path file: %w", err)
	}

	var doc map[string]map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed path YAML in %s: %w", file, err)
	}

	pf := &PathFile{
		file:   file,
		dir:    filepath.Dir(file),
		suites: make(map[string]map[string]dto.RawCase, len(doc)),
	}
	for _, opt := range opts {
		opt(pf)
	}
	if pf.logger == nil {
		pf.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	for suite, cases := range doc {
		pf.suites[suite] = make(map[string]dto.RawCase, len(cases))
		for name, body := range cases {
			var rc dto.RawCase
			if err := decode(body, &rc); err != nil {
				return nil, fmt.Errorf("suite %q case %q in %s: %w", suite, name, file, err)
			}
			pf.suites[suite][name] = rc
		}
	}

	return pf, nil
}

// File returns the path the file was loaded from.
func (f *PathFile) File() string {
	return f.file
}

// Suites lists the suite names, sorted.
func (f *PathFile) Suites() []string {
	out := make([]string, 0, len(f.suites))
	for name := range f.suites {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Cases lists the case names of a suite, sorted.
func (f *PathFile) Cases(suite string) []string {
	cases, ok := f.suites[suite]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(cases))
	for name := range cases {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve produces the concrete PathDefinition for a suite/case, following
// and flattening references to other files. Reference chains of any length
// are supported; a cycle or a dangling coordinate is a resolution error.
func (f *PathFile) Resolve(suite, name string) (*domain.PathDefinition, error) {
	return f.resolve(suite, name, make(map[string]bool))
}

func (f *PathFile) resolve(suite, name string, visited map[string]bool) (*domain.PathDefinition, error) {
	coord := f.file + refDelimiter + suite + refDelimiter + name

	if visited[coord] {
		return nil, &domain.ResolutionError{
			Ref:    domain.PathRef{File: f.file, Suite: suite, Case: name},
			Detail: "reference cycle detected",
		}
	}
	visited[coord] = true

	cases, ok := f.suites[suite]
	if !ok {
		return nil, &domain.ResolutionError{
			Ref:    domain.PathRef{File: f.file, Suite: suite, Case: name},
			Detail: fmt.Sprintf("suite %q not found (known: %s)", suite, strings.Join(f.Suites(), ", ")),
		}
	}
	rc, ok := cases[name]
	if !ok {
		return nil, &domain.ResolutionError{
			Ref:    domain.PathRef{File: f.file, Suite: suite, Case: name},
			Detail: fmt.Sprintf("case %q not found in suite %q", name, suite),
		}
	}

	if rc.Reference == "" {
		return f.buildConcrete(suite, name, rc)
	}

	ref, err := parseReference(f.file, suite, name, rc.Reference)
	if err != nil {
		return nil, err
	}

	parentFile := f
	if ref.File != filepath.Base(f.file) {
		parentFile, err = LoadPaths(filepath.Join(f.dir, ref.File), WithLogger(f.logger))
		if err != nil {
			return nil, &domain.ResolutionError{
				Ref:    ref,
				Detail: fmt.Sprintf("referenced file could not be loaded: %v", err),
			}
		}
	}

	parent, err := parentFile.resolve(ref.Suite, ref.Case, visited)
	if err != nil {
		return nil, err
	}

	spec, err := f.buildSpec(suite, name, ref, rc)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("resolving inherited path",
		"suite", suite, "case", name, "reference", ref.String(),
		"deletes", len(spec.Deletes), "updates", len(spec.Updates), "adds", len(spec.Adds))

	return paths.Resolve(parent, spec)
}

func (f *PathFile) buildConcrete(suite, name string, rc dto.RawCase) (*domain.PathDefinition, error) {
	def := &domain.PathDefinition{
		Suite:       suite,
		Case:        name,
		Description: rc.Description,
	}
	for i, entry := range rc.Steps {
		step, _, err := parseStepEntry(entry)
		if err != nil {
			return nil, &domain.ResolutionError{
				Ref:    domain.PathRef{File: f.file, Suite: suite, Case: name},
				Detail: fmt.Sprintf("step %d: %v", i+1, err),
			}
		}
		def.Steps = append(def.Steps, step)
	}
	return def, nil
}

func (f *PathFile) buildSpec(suite, name string, ref domain.PathRef, rc dto.RawCase) (*domain.InheritedPathSpec, error) {
	spec := &domain.InheritedPathSpec{
		Suite:       suite,
		Case:        name,
		Description: rc.Description,
		Reference:   ref,
	}

	for _, id := range rc.StepsToDel {
		spec.Deletes = append(spec.Deletes, stringify(id))
	}

	for i, entry := range rc.StepsToMod {
		step, _, err := parseStepEntry(entry)
		if err != nil {
			return nil, &domain.ResolutionError{Ref: ref, Detail: fmt.Sprintf("steps_to_update entry %d: %v", i+1, err)}
		}
		spec.Updates = append(spec.Updates, domain.StepPatch{
			ID:           step.ID,
			Data:         step.Data,
			Expectations: step.Expectations,
		})
	}

	for i, entry := range rc.StepsToAdd {
		step, raw, err := parseStepEntry(entry)
		if err != nil {
			return nil, &domain.ResolutionError{Ref: ref, Detail: fmt.Sprintf("steps_to_add entry %d: %v", i+1, err)}
		}
		insert := domain.StepInsert{Step: step}
		if raw.BeforeID != nil {
			insert.BeforeID = stringify(raw.BeforeID)
		}
		if raw.AfterID != nil {
			insert.AfterID = stringify(raw.AfterID)
		}
		if insert.BeforeID == "" && insert.AfterID == "" {
			return nil, &domain.ResolutionError{
				Ref:    ref,
				Detail: fmt.Sprintf("added step %q is missing a before_id/after_id landmark", step.ID),
			}
		}
		spec.Adds = append(spec.Adds, insert)
	}

	return spec, nil
}

// parseStepEntry unpacks one single-key step mapping: the key is the trigger
// name, the value the step body.
func parseStepEntry(entry map[string]any) (domain.Step, dto.RawStep, error) {
	if len(entry) != 1 {
		return domain.Step{}, dto.RawStep{}, fmt.Errorf("step entries must be single-key mappings, got %d keys", len(entry))
	}
	for trigger, body := range entry {
		var raw dto.RawStep
		if body != nil {
			if err := decode(body, &raw); err != nil {
				return domain.Step{}, dto.RawStep{}, fmt.Errorf("step %q: %w", trigger, err)
			}
		}
		step := domain.Step{
			ID:           stringify(raw.ID),
			Trigger:      trigger,
			Data:         raw.Data,
			Expectations: raw.Expectations,
		}
		return step, raw, nil
	}
	return domain.Step{}, dto.RawStep{}, fmt.Errorf("empty step entry")
}

// parseReference splits "file:suite:case". Every part must be non-empty.
func parseReference(file, suite, name, ref string) (domain.PathRef, error) {
	parts := strings.Split(ref, refDelimiter)
	if len(parts) != 3 {
		return domain.PathRef{}, &domain.ResolutionError{
			Ref:    domain.PathRef{File: file, Suite: suite, Case: name},
			Detail: fmt.Sprintf("unable to split reference %q using delimiter %q", ref, refDelimiter),
		}
	}
	out := domain.PathRef{
		File:  strings.TrimSpace(parts[0]),
		Suite: strings.TrimSpace(parts[1]),
		Case:  strings.TrimSpace(parts[2]),
	}
	if out.File == "" || out.Suite == "" || out.Case == "" {
		return domain.PathRef{}, &domain.ResolutionError{
			Ref:    domain.PathRef{File: file, Suite: suite, Case: name},
			Detail: fmt.Sprintf("reference %q has an empty coordinate", ref),
		}
	}
	return out, nil
}

// stringify normalizes ids, which YAML may parse as numbers.
func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

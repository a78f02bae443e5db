// Package knowledge holds the read-only governance content the assistant
// answers from: the controlled vocabulary, dialogue rule tables, phase
// reference and process guidance. Content is embedded at build time and
// loaded once.
package knowledge

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// ErrInvalidContent is returned when embedded content fails validation.
var ErrInvalidContent = errors.New("invalid knowledge content")

// Store is the loaded knowledge base. It is never mutated after Load.
type Store struct {
	Vocabulary Vocabulary
	Rules      Rules
	Phases     []Phase
	Guidance   Guidance
}

var (
	defaultOnce  sync.Once
	defaultStore *Store
	defaultErr   error
)

// Load returns the embedded knowledge base, parsing it on first use.
func Load() (*Store, error) {
	defaultOnce.Do(func() {
		defaultStore, defaultErr = LoadFS(dataFS, "data")
	})
	return defaultStore, defaultErr
}

// LoadFS parses the knowledge files found in dir of fsys.
func LoadFS(fsys fs.FS, dir string) (*Store, error) {
	s := &Store{}
	var phases struct {
		Phases []Phase `yaml:"phases"`
	}
	files := []struct {
		name string
		into any
	}{
		{"vocabulary.yaml", &s.Vocabulary},
		{"rules.yaml", &s.Rules},
		{"phases.yaml", &phases},
		{"guidance.yaml", &s.Guidance},
	}
	for _, f := range files {
		raw, err := fs.ReadFile(fsys, dir+"/"+f.name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
		if err := yaml.Unmarshal(raw, f.into); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.name, err)
		}
	}
	s.Phases = phases.Phases

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) validate() error {
	for _, c := range Categories {
		if len(s.Vocabulary.Terms(c)) == 0 {
			return fmt.Errorf("%w: vocabulary category %q is empty", ErrInvalidContent, c)
		}
	}
	tables := map[string][]Rule{
		"direct":         s.Rules.Direct,
		"disambiguation": s.Rules.Disambiguation,
		"lookup":         s.Rules.Lookup,
		"exhausted":      s.Rules.Exhausted,
	}
	for name, rules := range tables {
		if len(rules) == 0 {
			return fmt.Errorf("%w: rule table %q is empty", ErrInvalidContent, name)
		}
		if err := validateRules(name, rules); err != nil {
			return err
		}
	}
	if s.Rules.Menu == "" {
		return fmt.Errorf("%w: fallback menu is empty", ErrInvalidContent)
	}
	if len(s.Phases) == 0 {
		return fmt.Errorf("%w: no phases", ErrInvalidContent)
	}
	if len(s.Guidance.Processes) == 0 {
		return fmt.Errorf("%w: no processes", ErrInvalidContent)
	}
	for _, p := range s.Guidance.Processes {
		for i, step := range p.Steps {
			if step.Number != i+1 {
				return fmt.Errorf("%w: process %q step %d is numbered %d", ErrInvalidContent, p.ID, i+1, step.Number)
			}
		}
	}
	return nil
}

func validateRules(table string, rules []Rule) error {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.ID == "" {
			return fmt.Errorf("%w: %s rule without id", ErrInvalidContent, table)
		}
		if seen[r.ID] {
			return fmt.Errorf("%w: duplicate %s rule %q", ErrInvalidContent, table, r.ID)
		}
		seen[r.ID] = true
		if r.Text == "" && r.Template == "" && len(r.Children) == 0 {
			return fmt.Errorf("%w: %s rule %q has no answer", ErrInvalidContent, table, r.ID)
		}
		if err := validateRules(table+"/"+r.ID, r.Children); err != nil {
			return err
		}
	}
	return nil
}

// Phase returns the phase with the given id.
func (s *Store) Phase(id string) (Phase, bool) {
	for _, p := range s.Phases {
		if p.ID == id {
			return p, true
		}
	}
	return Phase{}, false
}

// Process returns the governance process with the given id.
func (s *Store) Process(id string) (Process, bool) {
	for _, p := range s.Guidance.Processes {
		if p.ID == id {
			return p, true
		}
	}
	return Process{}, false
}

// DefaultProcess is the process new sessions track.
func (s *Store) DefaultProcess() Process {
	return s.Guidance.Processes[0]
}

// StepGuidance describes what happens at a step of a process, or the
// generic guidance when the step is unknown.
func (s *Store) StepGuidance(processID string, number int) StepGuidance {
	if p, ok := s.Process(processID); ok {
		if step, ok := p.Step(number); ok {
			return step.StepGuidance
		}
	}
	return s.Guidance.StepFallback
}

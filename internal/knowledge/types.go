package knowledge

// Category is one of the seven vocabulary categories.
type Category string

const (
	CategoryPhase    Category = "phase"
	CategoryMeeting  Category = "meeting"
	CategoryRole     Category = "role"
	CategoryStatus   Category = "status"
	CategorySystem   Category = "system"
	CategoryDocument Category = "document"
	CategoryProcess  Category = "process"
)

// Categories lists every category in extraction order.
var Categories = []Category{
	CategoryPhase,
	CategoryMeeting,
	CategoryRole,
	CategoryStatus,
	CategorySystem,
	CategoryDocument,
	CategoryProcess,
}

// Vocabulary is the controlled term list plus the rewrite tables applied
// before matching.
type Vocabulary struct {
	Categories    map[Category][]string `yaml:"categories"`
	Normalization []Variant             `yaml:"normalization"`
	Acronyms      []Acronym             `yaml:"acronyms"`
}

// Terms returns the ordered terms of a category.
func (v Vocabulary) Terms(c Category) []string {
	return v.Categories[c]
}

// Variant maps alternate spellings onto one canonical term.
type Variant struct {
	Canonical string   `yaml:"canonical"`
	Variants  []string `yaml:"variants"`
}

type Acronym struct {
	Term      string `yaml:"term"`
	Expansion string `yaml:"expansion"`
}

// Clause is one alternative of a rule trigger.
type Clause struct {
	All  []string `yaml:"all"`
	Any  []string `yaml:"any"`
	None []string `yaml:"none"`
}

// Rule is a trigger with a literal or templated answer.
type Rule struct {
	ID       string   `yaml:"id"`
	When     []Clause `yaml:"when"`
	Text     string   `yaml:"text"`
	Template string   `yaml:"template"`
	Args     []string `yaml:"args"`
	Children []Rule   `yaml:"children"`
}

type Ambiguity struct {
	Triggers  []string `yaml:"triggers"`
	Qualified []Rule   `yaml:"qualified"`
}

type InferenceRule struct {
	ID         string   `yaml:"id"`
	When       []Clause `yaml:"when"`
	Phase      string   `yaml:"phase"`
	Confidence string   `yaml:"confidence"`
	Reasoning  string   `yaml:"reasoning"`
}

// ContextualRule renders the answer for an inferred phase. Phase and When
// narrow which inferences it applies to.
type ContextualRule struct {
	ID         string   `yaml:"id"`
	Confidence string   `yaml:"confidence"`
	Phase      string   `yaml:"phase"`
	When       []Clause `yaml:"when"`
	Inference  string   `yaml:"inference"`
	Body       string   `yaml:"body"`
	Clarify    string   `yaml:"clarify"`
	Caveat     *Caveat  `yaml:"caveat"`
}

type Caveat struct {
	General  string `yaml:"general"`
	Variable string `yaml:"variable"`
	Question string `yaml:"question"`
}

type Rules struct {
	Ambiguity      Ambiguity        `yaml:"ambiguity"`
	Direct         []Rule           `yaml:"direct"`
	Disambiguation []Rule           `yaml:"disambiguation"`
	Inference      []InferenceRule  `yaml:"inference"`
	Contextual     []ContextualRule `yaml:"contextual"`
	Lookup         []Rule           `yaml:"lookup"`
	Exhausted      []Rule           `yaml:"exhausted"`
	Menu           string           `yaml:"menu"`
}

// Phase is one stage of the governance lifecycle.
type Phase struct {
	ID               string            `yaml:"id" json:"id"`
	Name             string            `yaml:"name" json:"name"`
	Order            int               `yaml:"order" json:"order"`
	Description      string            `yaml:"description" json:"description"`
	Meetings         []string          `yaml:"meetings" json:"meetings"`
	Notifications    Notifications     `yaml:"notifications" json:"notifications"`
	Responsibilities []Responsibility  `yaml:"responsibilities" json:"responsibilities"`
	Outcomes         []Outcome         `yaml:"outcomes" json:"outcomes"`
	Troubleshooting  []Troubleshooting `yaml:"troubleshooting" json:"troubleshooting"`
}

type Notifications struct {
	Email        string `yaml:"email" json:"email,omitempty"`
	StatusChange string `yaml:"status_change" json:"status_change,omitempty"`
	NextPhase    string `yaml:"next_phase" json:"next_phase,omitempty"`
	ManualCheck  string `yaml:"manual_check" json:"manual_check,omitempty"`
}

type Responsibility struct {
	Role    string   `yaml:"role" json:"role"`
	Actions []string `yaml:"actions" json:"actions"`
}

type Outcome struct {
	Status      string `yaml:"status" json:"status"`
	Meaning     string `yaml:"meaning" json:"meaning"`
	WhatHappens string `yaml:"what_happens" json:"what_happens"`
}

type Troubleshooting struct {
	Problem     string `yaml:"problem" json:"problem"`
	Solution    string `yaml:"solution" json:"solution"`
	ContactRole string `yaml:"contact_role" json:"contact_role,omitempty"`
}

type Guidance struct {
	StepFallback    StepGuidance    `yaml:"step_fallback"`
	Processes       []Process       `yaml:"processes"`
	Pathways        Pathways        `yaml:"pathways"`
	Proactive       []ProactiveRule `yaml:"proactive"`
	Topics          []Topic         `yaml:"topics"`
	FollowUps       FollowUps       `yaml:"follow_ups"`
	AssistantPrompt string          `yaml:"assistant_prompt"`
}

type StepGuidance struct {
	WhatHappens string `yaml:"what_happens" json:"what_happens"`
	WhoDoes     string `yaml:"who_does" json:"who_does"`
	Outcome     string `yaml:"outcome" json:"outcome"`
}

type ProcessStep struct {
	Number       int    `yaml:"number" json:"number"`
	Title        string `yaml:"title" json:"title"`
	Description  string `yaml:"description" json:"description"`
	StepGuidance `yaml:",inline"`
}

type Process struct {
	ID          string        `yaml:"id" json:"id"`
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description" json:"description"`
	Steps       []ProcessStep `yaml:"steps" json:"steps"`
}

// Step returns the step with the given 1-based number.
func (p Process) Step(number int) (ProcessStep, bool) {
	if number < 1 || number > len(p.Steps) {
		return ProcessStep{}, false
	}
	return p.Steps[number-1], true
}

type Pathways struct {
	Keywords  PathwayKeywords            `yaml:"keywords"`
	Reasoning PathwayReasoning           `yaml:"reasoning"`
	Guidance  map[string]PathwayGuidance `yaml:"guidance"`
}

type PathwayKeywords struct {
	Templated []string `yaml:"templated"`
	Full      []string `yaml:"full"`
}

// PathwayReasoning holds printf templates taking the matched keyword list.
type PathwayReasoning struct {
	TemplatedHigh   string `yaml:"templated_high"`
	TemplatedMedium string `yaml:"templated_medium"`
	FullHigh        string `yaml:"full_high"`
	FullMedium      string `yaml:"full_medium"`
	Unclear         string `yaml:"unclear"`
}

type PathwayGuidance struct {
	Title       string   `yaml:"title" json:"title"`
	Timeline    string   `yaml:"timeline" json:"timeline"`
	Phases      []string `yaml:"phases" json:"phases"`
	BestFor     []string `yaml:"best_for" json:"best_for"`
	KeyMeetings []string `yaml:"key_meetings" json:"key_meetings,omitempty"`
	KeyBenefits []string `yaml:"key_benefits" json:"key_benefits,omitempty"`
}

type ProactiveRule struct {
	ID       string   `yaml:"id"`
	When     []Clause `yaml:"when"`
	Question string   `yaml:"question"`
	Reason   string   `yaml:"reason"`
	Options  []string `yaml:"options"`
}

type Topic struct {
	Topic    string   `yaml:"topic"`
	Keywords []string `yaml:"keywords"`
}

type FollowUps struct {
	None    []string            `yaml:"none"`
	Default []string            `yaml:"default"`
	ByTopic map[string][]string `yaml:"by_topic"`
}

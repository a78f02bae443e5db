package dialogue

import (
	"fmt"
	"sort"
)

// Conversational templates a rule can render its args through.
const (
	TemplateOneClarification  = "one_clarification"
	TemplateTwoClarifications = "two_clarifications"
	TemplateInference         = "inference"
	TemplateCaveat            = "caveat"
	TemplateFrustration       = "frustration"
	TemplateDiscovery         = "discovery"
	TemplateContradiction     = "contradiction"
	TemplateCrossReference    = "cross_reference"
	TemplateOfferAlternative  = "offer_alternative"
)

type template struct {
	format string
	arity  int
}

var templates = map[string]template{
	TemplateOneClarification:  {"I can help with that. Quick question: %s", 1},
	TemplateTwoClarifications: {"I can help with that. Two quick questions: %s and %s", 2},
	TemplateInference:         {"It sounds like %s. Is that right?", 1},
	TemplateCaveat:            {"Here's the general process: %s. However, the exact steps depend on %s. Can you tell me %s?", 3},
	TemplateFrustration:       {"I understand you want to move quickly. %s. To give you the precise instructions, I just need to know: %s", 2},
	TemplateDiscovery:         {"No problem! Let's figure it out together. %s", 1},
	TemplateContradiction:     {"I'm seeing some information that doesn't quite match up. Let me ask this differently: %s", 1},
	TemplateCrossReference:    {"This touches on multiple areas. Let me break it down: %s. Additionally, %s. Does that help, or do you need more detail on a specific part?", 2},
	TemplateOfferAlternative:  {"If you're not sure about %s, another way to approach this is: %s", 2},
}

// Render fills the named template with args.
func Render(name string, args ...string) (string, error) {
	t, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	if len(args) != t.arity {
		return "", fmt.Errorf("template %s: want %d args, got %d", name, t.arity, len(args))
	}
	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = a
	}
	return fmt.Sprintf(t.format, vals...), nil
}

// TemplateNames lists the registered templates in sorted order.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for n := range templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func mustRender(name string, args ...string) string {
	s, err := Render(name, args...)
	if err != nil {
		panic(err)
	}
	return s
}

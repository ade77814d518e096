package enhance

import (
	"fmt"
	"sort"
	"strings"

	"scribe/internal/services"
)

// Template selects a fixed transcription enhancement instruction.
type Template string

const (
	// TemplateDetailed asks for tone, emotion, and background detail.
	TemplateDetailed Template = "detailed"
	// TemplateStorytelling recasts the transcript as a narrative.
	TemplateStorytelling Template = "storytelling"
	// TemplateProfessional cleans fillers and formats for business use.
	TemplateProfessional Template = "professional"
	// TemplateAnalytical adds speech-pattern and structure analysis.
	TemplateAnalytical Template = "analytical"
)

var prompts = map[Template]string{
	TemplateDetailed: "Please transcribe this audio and include details about tone of voice, emotional undertones, " +
		"and any background elements you notice. Make it rich and descriptive.",
	TemplateStorytelling: "Transform this audio into an engaging narrative. " +
		"Maintain the core message but present it as a story.",
	TemplateProfessional: "Transcribe this audio and format it in a professional, business-appropriate manner. " +
		"Clean up any verbal fillers and structure it clearly.",
	TemplateAnalytical: "Transcribe this audio and analyze the speech patterns, key discussion points, " +
		"and overall structure. Include observations about delivery and organization.",
}

// Templates lists the known template names in stable order.
func Templates() []Template {
	names := make([]Template, 0, len(prompts))
	for name := range prompts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Parse resolves a template name. Unknown names are a validation error, never
// a silent fallback.
func Parse(name string) (Template, error) {
	template := Template(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := prompts[template]; !ok {
		return "", services.Wrap(services.ErrValidation, "", "enhance",
			fmt.Sprintf("unknown enhancement template %q (valid: %s)", name, joinTemplates()), nil)
	}
	return template, nil
}

// Prompt returns the instruction text for a known template.
func (t Template) Prompt() string {
	return prompts[t]
}

func (t Template) String() string {
	return string(t)
}

// BuildPrompt resolves the instruction sent alongside the audio. A non-empty
// override wins outright; otherwise the named template's text is used.
func BuildPrompt(name, override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		return override, nil
	}
	template, err := Parse(name)
	if err != nil {
		return "", err
	}
	return template.Prompt(), nil
}

func joinTemplates() string {
	names := Templates()
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = string(name)
	}
	return strings.Join(parts, ", ")
}

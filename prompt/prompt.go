package prompt

import (
	"fmt"
	"strings"
	"text/template"
)

// UIGenerationName is the registered name of the UI generation template.
const UIGenerationName = "ui_generation"

// uiGenerationContent asks for one self-contained HTML document plus
// accessibility advice, and spells out the JSON shape the schema enforces.
const uiGenerationContent = `Generate a complete, single HTML file with CSS and JavaScript embedded, but without using any external frameworks like Tailwind or Bootstrap. The HTML should be for the following UI: "{{.Prompt}}". Also, provide 2-3 specific and actionable accessibility suggestions for the generated HTML.

The output should be a JSON object with two keys: "code" (string containing the complete HTML file) and "accessibility_suggestions" (an array of strings).`

// UIGeneration is the parsed UI generation template.
var UIGeneration = MustTemplate(UIGenerationName, uiGenerationContent)

// Template represents a prompt template with variables
type Template struct {
	Name     string
	Content  string
	template *template.Template
}

// NewTemplate creates a new prompt template
func NewTemplate(name, content string) (*Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Template{
		Name:     name,
		Content:  content,
		template: tmpl,
	}, nil
}

// MustTemplate is like NewTemplate but panics on a parse error.
func MustTemplate(name, content string) *Template {
	tmpl, err := NewTemplate(name, content)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// Render renders the template with given variables
func (t *Template) Render(vars map[string]any) (string, error) {
	var buf strings.Builder
	if err := t.template.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

// RenderUIGeneration interpolates the user's UI description into the
// generation template.
func RenderUIGeneration(description string) (string, error) {
	return UIGeneration.Render(map[string]any{"Prompt": description})
}

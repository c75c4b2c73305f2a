// Package generation turns a UI description into a structured Gemini request
// and decodes the structured answer.
package generation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/sweetpotato0/ai-uigen/contrib/provider/gemini"
	errorskg "github.com/sweetpotato0/ai-uigen/errors"
	"github.com/sweetpotato0/ai-uigen/prompt"
)

// Field names of the structured output, in declared order.
const (
	FieldCode                     = "code"
	FieldAccessibilitySuggestions = "accessibility_suggestions"
)

// Request is one validated generation request.
type Request struct {
	PromptText string
}

// Result is the decoded structured output.
type Result struct {
	Code                     string   `json:"code"`
	AccessibilitySuggestions []string `json:"accessibility_suggestions"`
}

// NewRequest trims the prompt and rejects it when nothing is left.
func NewRequest(promptText string) (*Request, error) {
	trimmed := strings.TrimSpace(promptText)
	if trimmed == "" {
		return nil, errorskg.ErrEmptyPrompt
	}
	return &Request{PromptText: trimmed}, nil
}

// ResponseSchema declares the object the model must return.
func ResponseSchema() *gemini.Schema {
	return &gemini.Schema{
		Type: gemini.TypeObject,
		Properties: map[string]*gemini.Schema{
			FieldCode: {Type: gemini.TypeString},
			FieldAccessibilitySuggestions: {
				Type:  gemini.TypeArray,
				Items: &gemini.Schema{Type: gemini.TypeString},
			},
		},
		PropertyOrdering: []string{FieldCode, FieldAccessibilitySuggestions},
	}
}

// BuildPayload renders the prompt into a single user turn and attaches the
// structured-output contract.
func BuildPayload(req *Request) (*gemini.Payload, error) {
	if req == nil || req.PromptText == "" {
		return nil, errorskg.ErrEmptyPrompt
	}
	text, err := prompt.RenderUIGeneration(req.PromptText)
	if err != nil {
		return nil, fmt.Errorf("build payload: %w", err)
	}
	return &gemini.Payload{
		Contents: []gemini.Content{{
			Role:  gemini.RoleUser,
			Parts: []gemini.Part{{Text: text}},
		}},
		GenerationConfig: &gemini.GenerationConfig{
			ResponseMimeType: gemini.MIMETypeJSON,
			ResponseSchema:   ResponseSchema(),
		},
	}, nil
}

// Build is NewRequest followed by BuildPayload.
func Build(promptText string) (*gemini.Payload, error) {
	req, err := NewRequest(promptText)
	if err != nil {
		return nil, err
	}
	return BuildPayload(req)
}

var payloadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(JSONSchema(ResponseSchema())))
})

// JSONSchema converts a response schema to the equivalent JSON Schema
// document. Every declared property is required.
func JSONSchema(s *gemini.Schema) map[string]any {
	if s == nil {
		return map[string]any{}
	}
	out := map[string]any{"type": strings.ToLower(s.Type)}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = JSONSchema(prop)
		}
		out["properties"] = props

		required := s.PropertyOrdering
		if len(required) == 0 {
			required = make([]string, 0, len(s.Properties))
			for name := range s.Properties {
				required = append(required, name)
			}
			sort.Strings(required)
		}
		out["required"] = required
	}
	if s.Items != nil {
		out["items"] = JSONSchema(s.Items)
	}
	return out
}

// DecodeResult validates the structured output text against the response
// schema and decodes it. Both fields must be present; the suggestions must
// be an array of strings.
func DecodeResult(text string) (*Result, error) {
	schema, err := payloadSchema()
	if err != nil {
		return nil, fmt.Errorf("compile payload schema: %w", err)
	}
	report, err := schema.Validate(gojsonschema.NewStringLoader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorskg.ErrMalformedPayload, err)
	}
	if !report.Valid() {
		problems := make([]string, len(report.Errors()))
		for i, desc := range report.Errors() {
			problems[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", errorskg.ErrMalformedPayload, strings.Join(problems, "; "))
	}

	var res Result
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return nil, fmt.Errorf("%w: %v", errorskg.ErrMalformedPayload, err)
	}
	return &res, nil
}

// ParseEnvelope extracts and decodes the structured output of a response.
func ParseEnvelope(env *gemini.Envelope) (*Result, error) {
	text, err := env.FirstText()
	if err != nil {
		return nil, err
	}
	return DecodeResult(text)
}

package generation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sweetpotato0/ai-uigen/contrib/provider/gemini"
	errorskg "github.com/sweetpotato0/ai-uigen/errors"
)

func TestNewRequestTrims(t *testing.T) {
	req, err := NewRequest("  \n a todo list app\t ")
	if err != nil {
		t.Fatalf("NewRequest error: %v", err)
	}
	if req.PromptText != "a todo list app" {
		t.Errorf("PromptText = %q", req.PromptText)
	}
}

func TestNewRequestRejectsEmpty(t *testing.T) {
	for _, in := range []string{"", " ", "\n\t  \r\n"} {
		if _, err := NewRequest(in); !errors.Is(err, errorskg.ErrEmptyPrompt) {
			t.Errorf("NewRequest(%q) error = %v, want ErrEmptyPrompt", in, err)
		}
		if _, err := Build(in); !errors.Is(err, errorskg.ErrEmptyPrompt) {
			t.Errorf("Build(%q) error = %v, want ErrEmptyPrompt", in, err)
		}
	}
}

func TestBuildPayloadEmbedsTrimmedPrompt(t *testing.T) {
	prompts := []string{
		"a login form",
		"  dark mode settings page  ",
		`a card that says "hello" & <waves>`,
	}

	for _, p := range prompts {
		payload, err := Build(p)
		if err != nil {
			t.Fatalf("Build(%q) error: %v", p, err)
		}
		if len(payload.Contents) != 1 {
			t.Fatalf("expected one content turn, got %d", len(payload.Contents))
		}
		turn := payload.Contents[0]
		if turn.Role != gemini.RoleUser || len(turn.Parts) != 1 {
			t.Fatalf("unexpected turn: %#v", turn)
		}
		if !strings.Contains(turn.Parts[0].Text, strings.TrimSpace(p)) {
			t.Errorf("prompt text does not contain %q", strings.TrimSpace(p))
		}
	}
}

func TestBuildPayloadWireShape(t *testing.T) {
	payload, err := Build("a calculator")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var wire struct {
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
		GenerationConfig struct {
			ResponseMimeType string `json:"responseMimeType"`
			ResponseSchema   struct {
				Type       string `json:"type"`
				Properties map[string]struct {
					Type  string `json:"type"`
					Items *struct {
						Type string `json:"type"`
					} `json:"items"`
				} `json:"properties"`
				PropertyOrdering []string `json:"propertyOrdering"`
			} `json:"responseSchema"`
		} `json:"generationConfig"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if wire.Contents[0].Role != "user" {
		t.Errorf("role = %q", wire.Contents[0].Role)
	}
	cfg := wire.GenerationConfig
	if cfg.ResponseMimeType != "application/json" {
		t.Errorf("responseMimeType = %q", cfg.ResponseMimeType)
	}
	if cfg.ResponseSchema.Type != "OBJECT" {
		t.Errorf("schema type = %q", cfg.ResponseSchema.Type)
	}
	if got := cfg.ResponseSchema.Properties["code"].Type; got != "STRING" {
		t.Errorf("code type = %q", got)
	}
	sugg := cfg.ResponseSchema.Properties["accessibility_suggestions"]
	if sugg.Type != "ARRAY" || sugg.Items == nil || sugg.Items.Type != "STRING" {
		t.Errorf("accessibility_suggestions schema = %#v", sugg)
	}
	order := cfg.ResponseSchema.PropertyOrdering
	if len(order) != 2 || order[0] != "code" || order[1] != "accessibility_suggestions" {
		t.Errorf("propertyOrdering = %v", order)
	}
}

func TestBuildPayloadDeterministic(t *testing.T) {
	first, err := Build("a weather widget")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	second, err := Build("a weather widget")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Fatalf("payloads differ:\n%s\n%s", a, b)
	}
}

func TestDecodeResult(t *testing.T) {
	res, err := DecodeResult(`{"code":"<html></html>","accessibility_suggestions":["add alt text","add aria-label"]}`)
	if err != nil {
		t.Fatalf("DecodeResult error: %v", err)
	}
	if res.Code != "<html></html>" {
		t.Errorf("Code = %q", res.Code)
	}
	if len(res.AccessibilitySuggestions) != 2 ||
		res.AccessibilitySuggestions[0] != "add alt text" ||
		res.AccessibilitySuggestions[1] != "add aria-label" {
		t.Errorf("AccessibilitySuggestions = %v", res.AccessibilitySuggestions)
	}
}

func TestDecodeResultMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "not json", text: "here is your html"},
		{name: "missing code", text: `{"accessibility_suggestions":[]}`},
		{name: "missing suggestions", text: `{"code":"<p></p>"}`},
		{name: "null suggestions", text: `{"code":"<p></p>","accessibility_suggestions":null}`},
		{name: "suggestions not array", text: `{"code":"<p></p>","accessibility_suggestions":"add alt"}`},
		{name: "code not string", text: `{"code":42,"accessibility_suggestions":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeResult(tt.text); !errors.Is(err, errorskg.ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestJSONSchema(t *testing.T) {
	schema := JSONSchema(ResponseSchema())

	if schema["type"] != "object" {
		t.Fatalf("type = %v", schema["type"])
	}
	required, ok := schema["required"].([]string)
	if !ok || len(required) != 2 || required[0] != FieldCode || required[1] != FieldAccessibilitySuggestions {
		t.Fatalf("required = %v", schema["required"])
	}
	props := schema["properties"].(map[string]any)
	suggestions := props[FieldAccessibilitySuggestions].(map[string]any)
	if suggestions["type"] != "array" {
		t.Errorf("suggestions type = %v", suggestions["type"])
	}
	if items := suggestions["items"].(map[string]any); items["type"] != "string" {
		t.Errorf("items type = %v", items["type"])
	}
	if code := props[FieldCode].(map[string]any); code["type"] != "string" {
		t.Errorf("code type = %v", code["type"])
	}
}

func TestDecodeResultReportsSchemaViolation(t *testing.T) {
	_, err := DecodeResult(`{"code":"<p></p>"}`)
	if err == nil || !strings.Contains(err.Error(), FieldAccessibilitySuggestions) {
		t.Fatalf("expected error naming %q, got %v", FieldAccessibilitySuggestions, err)
	}
}

func TestParseEnvelope(t *testing.T) {
	text := `{"code":"<main></main>","accessibility_suggestions":[]}`
	env := &gemini.Envelope{Candidates: []gemini.Candidate{{
		Content: &gemini.ResponseContent{Parts: []gemini.ResponsePart{{Text: &text}}},
	}}}
	res, err := ParseEnvelope(env)
	if err != nil {
		t.Fatalf("ParseEnvelope error: %v", err)
	}
	if res.Code != "<main></main>" || len(res.AccessibilitySuggestions) != 0 {
		t.Errorf("unexpected result %#v", res)
	}

	if _, err := ParseEnvelope(&gemini.Envelope{}); !errors.Is(err, errorskg.ErrUnexpectedResponseShape) {
		t.Errorf("expected ErrUnexpectedResponseShape, got %v", err)
	}
}

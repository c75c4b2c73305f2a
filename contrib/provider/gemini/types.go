package gemini

import (
	"fmt"

	errorskg "github.com/sweetpotato0/ai-uigen/errors"
)

// Schema types understood by the structured-output feature.
const (
	TypeObject = "OBJECT"
	TypeArray  = "ARRAY"
	TypeString = "STRING"
)

// RoleUser is the role of the single conversational turn we send.
const RoleUser = "user"

// MIMETypeJSON asks the model to answer with JSON only.
const MIMETypeJSON = "application/json"

// Part is one text fragment of a content turn.
type Part struct {
	Text string `json:"text"`
}

// Content is one conversational turn.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Schema declares the shape of a structured response.
// Properties is a map; encoding/json sorts its keys, so the encoded form is
// stable and PropertyOrdering carries the field order.
type Schema struct {
	Type             string             `json:"type"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	Items            *Schema            `json:"items,omitempty"`
	PropertyOrdering []string           `json:"propertyOrdering,omitempty"`
}

// GenerationConfig carries the structured-output contract.
type GenerationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

// Payload is the generateContent request body.
type Payload struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Envelope is the generateContent response body. Pointer fields let us tell
// an absent field from an empty one.
type Envelope struct {
	Candidates []Candidate `json:"candidates"`
	Error      *APIError   `json:"error,omitempty"`
}

// Candidate is one model output.
type Candidate struct {
	Content *ResponseContent `json:"content"`
}

// ResponseContent holds the parts of a candidate.
type ResponseContent struct {
	Parts []ResponsePart `json:"parts"`
}

// ResponsePart is one text fragment of a candidate.
type ResponsePart struct {
	Text *string `json:"text"`
}

// APIError represents an error in a Gemini API response
type APIError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Status  string `json:"status,omitempty"`
}

// FirstText returns the text of the first part of the first candidate.
func (e *Envelope) FirstText() (string, error) {
	if e == nil {
		return "", fmt.Errorf("%w: empty response", errorskg.ErrUnexpectedResponseShape)
	}
	if e.Error != nil {
		return "", fmt.Errorf("%w: error %d: %s", errorskg.ErrUnexpectedResponseShape, e.Error.Code, e.Error.Message)
	}
	if len(e.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates in response", errorskg.ErrUnexpectedResponseShape)
	}
	content := e.Candidates[0].Content
	if content == nil {
		return "", fmt.Errorf("%w: candidate has no content", errorskg.ErrUnexpectedResponseShape)
	}
	if len(content.Parts) == 0 {
		return "", fmt.Errorf("%w: no content parts in candidate", errorskg.ErrUnexpectedResponseShape)
	}
	if content.Parts[0].Text == nil {
		return "", fmt.Errorf("%w: first part has no text", errorskg.ErrUnexpectedResponseShape)
	}
	return *content.Parts[0].Text, nil
}

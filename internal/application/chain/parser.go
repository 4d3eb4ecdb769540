package chain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/doeshing/chat-cli/internal/domain"
)

const codeFence = "```"

// VerdictParser validates classifier output against a JSON Schema inferred
// from domain.SafetyVerdict.
type VerdictParser struct {
	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
}

// NewVerdictParser infers and resolves the verdict schema.
func NewVerdictParser() (*VerdictParser, error) {
	schema, err := jsonschema.For[domain.SafetyVerdict](nil)
	if err != nil {
		return nil, fmt.Errorf("infer verdict schema: %w", err)
	}
	// Models often add keys of their own; only the three fields are contractual.
	schema.AdditionalProperties = nil

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve verdict schema: %w", err)
	}
	return &VerdictParser{schema: schema, resolved: resolved}, nil
}

// FormatInstructions tells the model how to shape its answer.
func (p *VerdictParser) FormatInstructions() (string, error) {
	raw, err := json.MarshalIndent(p.schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal verdict schema: %w", err)
	}
	return render(formatInstructionsPrompt, struct{ Schema string }{Schema: string(raw)})
}

// Parse extracts the verdict from a model response.
// Any mismatch is reported as *domain.ParseError.
func (p *VerdictParser) Parse(text string) (domain.SafetyVerdict, error) {
	body := extractJSONBody(text)
	if body == "" {
		return domain.SafetyVerdict{}, &domain.ParseError{Text: text, Err: fmt.Errorf("empty response")}
	}

	var instance any
	if err := json.Unmarshal([]byte(body), &instance); err != nil {
		return domain.SafetyVerdict{}, &domain.ParseError{Text: text, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := p.resolved.Validate(instance); err != nil {
		return domain.SafetyVerdict{}, &domain.ParseError{Text: text, Err: err}
	}

	var verdict domain.SafetyVerdict
	if err := json.Unmarshal([]byte(body), &verdict); err != nil {
		return domain.SafetyVerdict{}, &domain.ParseError{Text: text, Err: err}
	}
	return verdict, nil
}

// extractJSONBody returns the first fenced block when the text has a fence,
// otherwise the trimmed text. A leading "json" language tag is dropped.
func extractJSONBody(text string) string {
	start := strings.Index(text, codeFence)
	if start == -1 {
		return strings.TrimSpace(text)
	}

	block := text[start+len(codeFence):]
	if end := strings.Index(block, codeFence); end != -1 {
		block = block[:end]
	}
	block = strings.TrimPrefix(block, "json")
	return strings.TrimSpace(block)
}

package applies

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// inlineApplySchema guards POST /resume/apply. Only the fields the applier
// reads are constrained.
const inlineApplySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["originalText", "analysis"],
  "properties": {
    "originalText": {"type": "string"},
    "analysis": {
      "type": "object",
      "required": ["parsed_sections"],
      "properties": {
        "parsed_sections": {"type": "object"}
      }
    },
    "selectedSuggestions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type"],
        "properties": {
          "type": {"type": "string"},
          "impact": {"type": "string"},
          "text": {"type": "string"},
          "example": {"type": "string"},
          "skill": {"type": "string"}
        }
      }
    }
  }
}`

var inlineSchema = mustSchema(inlineApplySchema)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile apply schema: %v", err))
	}
	return schema
}

// FieldError is a single schema violation.
type FieldError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationError lists schema violations for a request body.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Issue)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// validateInline checks raw JSON against the inline apply schema. A body that
// is not JSON at all is reported as ErrInvalidInput.
func validateInline(raw []byte) error {
	result, err := inlineSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if result.Valid() {
		return nil
	}
	verr := &ValidationError{}
	for _, re := range result.Errors() {
		field := re.Field()
		if re.Type() == "required" {
			if prop, ok := re.Details()["property"].(string); ok {
				if field == "(root)" {
					field = prop
				} else {
					field = field + "." + prop
				}
			}
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Issue: re.Description()})
	}
	return verr
}

package classify

import "github.com/xeipuuv/gojsonschema"

// responseSchema is the contract for the model's classification response: a
// JSON object whose known fields, when present, are strings or null. A
// response that breaks it is discarded as a whole and classification falls
// back to raw metadata.
const responseSchema = `{
	"type": "object",
	"properties": {
		"title":       {"type": ["string", "null"]},
		"description": {"type": ["string", "null"]},
		"site_name":   {"type": ["string", "null"]},
		"category":    {"type": ["string", "null"]},
		"context":     {"type": ["string", "null"]}
	}
}`

var compiledSchema = gojsonschema.NewStringLoader(responseSchema)

// validateModelJSON reports whether document conforms to the response schema.
// Validation errors of any kind count as non-conformance.
func validateModelJSON(document string) bool {
	result, err := gojsonschema.Validate(compiledSchema, gojsonschema.NewStringLoader(document))
	if err != nil {
		return false
	}
	return result.Valid()
}

package fields

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"invoiceinsight/internal/domain"
)

// rawRecordSchema describes what a well-behaved model answer looks like. It is loose
// on purpose: amounts may arrive as strings and normalization coerces them later.
const rawRecordSchema = `{
  "type": "object",
  "properties": {
    "vendor": {"type": ["string", "null"]},
    "date": {"type": ["string", "null"]},
    "invoice_number": {"type": ["string", "number", "null"]},
    "line_items": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "description": {"type": ["string", "null"]},
          "qty": {"type": ["number", "string", "null"]},
          "price": {"type": ["number", "string", "null"]}
        }
      }
    },
    "subtotal": {"type": ["number", "string", "null"]},
    "tax": {"type": ["number", "string", "null"]},
    "total": {"type": ["number", "string", "null"]}
  }
}`

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("raw_record.json", strings.NewReader(rawRecordSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("raw_record.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// checkShape reports whether rec deviates from the expected answer shape.
func checkShape(schema *jsonschema.Schema, rec domain.RawRecord) error {
	// the validator switches on plain JSON types, not named ones
	if err := schema.Validate(map[string]interface{}(rec)); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}

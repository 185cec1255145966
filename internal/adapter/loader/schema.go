package loader

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"supportbot/internal/domain"
)

const productSchema = `{
  "type": "object",
  "required": ["name", "category", "style"],
  "properties": {
    "name":     {"type": "string", "minLength": 1},
    "category": {"type": "string"},
    "style":    {"type": "string"},
    "gender":   {"type": ["string", "null"]},
    "price":    {"type": ["number", "string", "null"]},
    "stock":    {"type": ["integer", "string", "null"]}
  }
}`

const faqSchema = `{
  "type": "object",
  "required": ["question", "answer"],
  "properties": {
    "question": {"type": "string", "minLength": 1},
    "answer":   {"type": "string"}
  }
}`

var (
	productRecordSchema = mustSchema(productSchema)
	faqRecordSchema     = mustSchema(faqSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("loader: invalid record schema: %v", err))
	}
	return schema
}

// validateRecord checks one decoded JSONL line against schema.
func validateRecord(schema *gojsonschema.Schema, record map[string]interface{}) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(record))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", domain.ErrMalformedRecord, strings.Join(errs, "; "))
	}

	return nil
}

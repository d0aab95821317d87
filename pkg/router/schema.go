package router

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// intentSchemaJSON is the structured schema supplied in the intent
// extraction prompt and used to validate the provider's response before it
// is unmarshalled into Intent. Schema validation failure is treated the
// same as a parse failure: fall back to PASSTHROUGH_CHAT.
const intentSchemaJSON = `{
  "type": "object",
  "required": ["action_type", "confidence"],
  "properties": {
    "action_type": {
      "type": "string",
      "enum": ["create", "modify", "delete", "read", "analyze", "plan", "chat"]
    },
    "files": {
      "type": "array",
      "items": {"type": "string"}
    },
    "parameters": {"type": "object"},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1},
    "reasoning": {"type": "string"}
  }
}`

var compiledIntentSchema *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(intentSchemaJSON)))
	if err != nil {
		panic(err)
	}
	if err := compiler.AddResource("intent.json", doc); err != nil {
		panic(err)
	}
	compiledIntentSchema, err = compiler.Compile("intent.json")
	if err != nil {
		panic(err)
	}
}

// parseIntent validates raw against the intent schema and, on success,
// unmarshals it into an Intent. Any failure - invalid JSON or a schema
// violation - returns a single error so callers don't need to distinguish
// the two; both mean "the provider didn't return usable structured intent."
func parseIntent(raw string) (*Intent, error) {
	var generic any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil, err
	}
	if err := compiledIntentSchema.Validate(generic); err != nil {
		return nil, err
	}

	var intent Intent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

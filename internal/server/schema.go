package server

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const schemaSend = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["to", "text"],
  "properties": {
    "to": { "type": "string", "minLength": 1 },
    "text": { "type": "string", "minLength": 1 }
  }
}`

const schemaSendOrder = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["orderId", "recipients", "message"],
  "properties": {
    "orderId": { "type": "string", "minLength": 1 },
    "recipients": {
      "type": "array",
      "minItems": 1,
      "items": { "type": "string", "minLength": 1 }
    },
    "message": { "type": "string", "minLength": 1 },
    "callbackUrl": { "type": ["string", "null"] },
    "identity": { "type": ["string", "null"] },
    "flight_ticket": { "type": ["string", "null"] },
    "hotel_ticket": { "type": ["string", "null"] }
  }
}`

const schemaInbound = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["from"],
  "properties": {
    "id": { "type": "string" },
    "from": { "type": "string", "minLength": 1 },
    "text": { "type": "string" },
    "fromMe": { "type": "boolean" },
    "timestamp": { "type": "string" }
  }
}`

var (
	sendLoader      = gojsonschema.NewStringLoader(schemaSend)
	sendOrderLoader = gojsonschema.NewStringLoader(schemaSendOrder)
	inboundLoader   = gojsonschema.NewStringLoader(schemaInbound)
)

// validateJSONSchema checks body against schemaLoader
func validateJSONSchema(schemaLoader gojsonschema.JSONLoader, body []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			messages = append(messages, e.String())
		}
		return fmt.Errorf("request does not conform to schema: %s", strings.Join(messages, "; "))
	}
	return nil
}

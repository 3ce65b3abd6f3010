package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaJSON constrains config values beyond what koanf checks at parse
// time: severity thresholds must be positive and the "high" bound of each
// pair at least covers the base bound being meaningful on its own.
const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "analysis": {
      "type": "object",
      "properties": {
        "smells": {"type": "boolean"},
        "manifest": {"type": "boolean"},
        "workers": {"type": "integer", "minimum": 0}
      }
    },
    "thresholds": {
      "type": "object",
      "properties": {
        "file_lines": {"type": "integer", "minimum": 1},
        "file_lines_high": {"type": "integer", "minimum": 1},
        "complexity": {"type": "integer", "minimum": 1},
        "complexity_high": {"type": "integer", "minimum": 1},
        "method_lines": {"type": "integer", "minimum": 1},
        "method_lines_high": {"type": "integer", "minimum": 1},
        "parameters": {"type": "integer", "minimum": 1},
        "parameters_high": {"type": "integer", "minimum": 1},
        "nesting": {"type": "integer", "minimum": 1},
        "nesting_high": {"type": "integer", "minimum": 1},
        "magic_allowlist": {
          "type": "array",
          "items": {"type": "integer", "minimum": 0}
        }
      }
    },
    "exclude": {
      "type": "object",
      "properties": {
        "patterns": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "extensions": {
          "type": "array",
          "items": {"type": "string", "pattern": "^\\."}
        },
        "gitignore": {"type": "boolean"}
      }
    },
    "cache": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "dir": {"type": "string"},
        "ttl": {"type": "integer", "minimum": 0}
      }
    },
    "output": {
      "type": "object",
      "properties": {
        "format": {"enum": ["text", "json", "markdown", "toon"]},
        "color": {"type": "boolean"},
        "limit": {"type": "integer", "minimum": 1},
        "verbose": {"type": "boolean"}
      }
    }
  }
}`

const schemaURL = "patina://config.schema.json"

// Validate checks a config against the embedded JSON schema.
func Validate(cfg *Config) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return fmt.Errorf("failed to parse config schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return fmt.Errorf("failed to register config schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}

	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

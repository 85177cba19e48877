// Package schemas holds the embedded JSON Schemas shipped with the binary.
package schemas

// ResultSchemaJSON describes one per-experiment result document. It is
// deliberately permissive about extra keys: metric names vary across
// experiment generations and fold-shaped files keep numeric top-level keys.
const ResultSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "AMR evaluation result",
  "type": "object",
  "required": ["antibiotic"],
  "properties": {
    "antibiotic": {
      "type": "string",
      "minLength": 1
    },
    "species": {
      "type": "string"
    },
    "model": {
      "type": "string"
    },
    "site": {
      "type": "string"
    },
    "seed": {
      "type": "integer"
    },
    "train_site": {
      "type": "string"
    },
    "test_site": {
      "type": "string"
    },
    "train_years": {
      "type": "array",
      "items": {
        "type": ["string", "number"]
      }
    },
    "test_years": {
      "type": "array",
      "items": {
        "type": ["string", "number"]
      }
    },
    "metadata_versions": {
      "type": "object"
    }
  },
  "additionalProperties": true
}`

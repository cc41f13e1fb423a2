package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/errs"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/questionnaire"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/scoring"
)

// DefinitionFile is the shape of checklist.definition. Every section is
// optional; missing sections keep the built-in values.
type DefinitionFile struct {
	Items []questionnaire.Item
	Bands []scoring.Band
	Tiers map[scoring.Tier]scoring.TierCopy
}

type rawDefinition struct {
	Items []questionnaire.Item        `mapstructure:"items"`
	Bands []scoring.Band              `mapstructure:"bands"`
	Tiers map[string]scoring.TierCopy `mapstructure:"tiers"`
}

// definitionSchema is the structural contract of a definition file. Semantic
// rules (unique ids, ascending bands) are enforced by questionnaire.New and
// scoring.NewTable afterwards.
const definitionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "minProperties": 1,
  "additionalProperties": false,
  "properties": {
    "items": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "prompt"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "integer", "minimum": 1},
          "prompt": {"type": "string", "minLength": 1},
          "note": {"type": "string"},
          "reference_url": {"type": "string"}
        }
      }
    },
    "bands": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["lower_bound", "tier"],
        "additionalProperties": false,
        "properties": {
          "lower_bound": {"type": "number", "minimum": 0, "maximum": 100},
          "tier": {"enum": ["unfit", "conditional", "fit"]}
        }
      }
    },
    "tiers": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "unfit": {"$ref": "#/definitions/copy"},
        "conditional": {"$ref": "#/definitions/copy"},
        "fit": {"$ref": "#/definitions/copy"}
      }
    }
  },
  "definitions": {
    "copy": {
      "type": "object",
      "required": ["label"],
      "additionalProperties": false,
      "properties": {
        "label": {"type": "string", "minLength": 1},
        "heading": {"type": "string"},
        "detail": {"type": "string"}
      }
    }
  }
}`

var definitionSchemaLoader = gojsonschema.NewStringLoader(definitionSchema)

// LoadDefinitionFile reads a YAML or JSON definition file, validates its
// structure against the definition schema and decodes it.
func LoadDefinitionFile(path string) (*DefinitionFile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errs.WrapConfiguration(err, "reading checklist definition")
	}
	return decodeDefinition(v.AllSettings())
}

func decodeDefinition(settings map[string]any) (*DefinitionFile, error) {
	if err := ValidateDefinition(settings); err != nil {
		return nil, err
	}

	v := viper.New()
	if err := v.MergeConfigMap(settings); err != nil {
		return nil, errs.WrapConfiguration(err, "loading checklist definition")
	}
	var raw rawDefinition
	if err := v.Unmarshal(&raw); err != nil {
		return nil, errs.WrapConfiguration(err, "decoding checklist definition")
	}

	f := &DefinitionFile{
		Items: raw.Items,
		Bands: raw.Bands,
		Tiers: make(map[scoring.Tier]scoring.TierCopy, len(raw.Tiers)),
	}
	for name, cp := range raw.Tiers {
		f.Tiers[scoring.Tier(name)] = cp
	}
	return f, nil
}

// ValidateDefinition checks doc against the definition schema. Every schema
// violation is listed in the returned ConfigurationError.
func ValidateDefinition(doc map[string]any) error {
	result, err := gojsonschema.Validate(definitionSchemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return errs.WrapConfiguration(err, "validating checklist definition")
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return errs.Configuration("invalid checklist definition: %s", strings.Join(msgs, "; "))
}

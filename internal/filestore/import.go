package filestore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpggio/l10n-tracker/internal/domain/catalog"
	"github.com/rpggio/l10n-tracker/internal/domain/project"
	"github.com/xeipuuv/gojsonschema"
)

// importSchema describes an importable document: an object of project
// objects whose known fields carry the stored types.
var importSchema = map[string]any{
	"type": "object",
	"additionalProperties": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"created_at": map[string]any{"type": "string"},
			"types": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "enum": typeNames()},
			},
			"url":   map[string]any{"type": "string"},
			"notes": map[string]any{"type": "string"},
			"steps": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "boolean"},
			},
			"attachments": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
	},
}

func typeNames() []string {
	names := make([]string, 0, len(catalog.KnownTypes))
	for _, t := range catalog.KnownTypes {
		names = append(names, string(t))
	}
	return names
}

// DecodeImport parses an uploaded document. Bytes that are not JSON fail with
// ErrParse; JSON of the wrong shape fails with ErrInvalidStructure.
func DecodeImport(raw []byte) (*project.Collection, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: upload is not valid JSON", ErrParse)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(importSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidStructure, strings.Join(msgs, "; "))
	}

	coll := project.NewCollection()
	if err := json.Unmarshal(raw, coll); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStructure, err)
	}
	return coll, nil
}

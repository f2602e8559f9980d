package prompts

import "github.com/sashabaranov/go-openai/jsonschema"

// fileNodeProperties describes one tree entry. Children are nested a single
// level deep, the same depth the model is asked to produce.
func fileNodeProperties(withChildren bool) map[string]jsonschema.Definition {
	props := map[string]jsonschema.Definition{
		"name":        {Type: jsonschema.String},
		"type":        {Type: jsonschema.String, Enum: []string{"file", "folder"}},
		"content":     {Type: jsonschema.String},
		"description": {Type: jsonschema.String},
		"isReused":    {Type: jsonschema.Boolean},
	}
	if withChildren {
		props["children"] = jsonschema.Definition{
			Type: jsonschema.Array,
			Items: &jsonschema.Definition{
				Type:       jsonschema.Object,
				Properties: fileNodeProperties(false),
			},
		}
	}
	return props
}

// ResultSchema is the JSON shape declared to the model for a GeneratedResult.
func ResultSchema() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"analysis": {Type: jsonschema.String},
			"reusedSnippets": {
				Type:  jsonschema.Array,
				Items: &jsonschema.Definition{Type: jsonschema.String},
			},
			"documentation": {Type: jsonschema.String},
			"diagramData": {
				Type: jsonschema.Array,
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"name":  {Type: jsonschema.String},
						"value": {Type: jsonschema.Number},
					},
				},
			},
			"fileTree": {
				Type: jsonschema.Array,
				Items: &jsonschema.Definition{
					Type:       jsonschema.Object,
					Properties: fileNodeProperties(true),
				},
			},
		},
	}
}

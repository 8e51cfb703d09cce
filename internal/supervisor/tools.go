package supervisor

import (
	"github.com/anthropics/anthropic-sdk-go"
)

// ToolDefinitions returns one tool schema per registered delegate. Every
// delegate tool takes a single "message" string to forward.
func (r *Registry) ToolDefinitions() []anthropic.ToolUnionParam {
	delegates := r.List()
	defs := make([]anthropic.ToolUnionParam, 0, len(delegates))

	for _, d := range delegates {
		defs = append(defs, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        d.Name,
				Description: anthropic.String("Calls the " + d.DisplayName + " with the provided message and returns the response."),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: map[string]interface{}{
						"message": map[string]interface{}{
							"type":        "string",
							"description": "The user message to forward to the agent",
						},
					},
					Required: []string{"message"},
				},
			},
		})
	}

	return defs
}

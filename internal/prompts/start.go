// Package prompts implements MCP prompt handlers for the REPSE checklist.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the repse-start MCP prompt.
// It guides the AI through a supplier evaluation from the first item.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("repse-start",
		mcp.WithPromptDescription(
			"Evaluate a supplier against the REPSE quick checklist. "+
				"Walks through each item, records the answers and shows the risk diagnosis.",
		),
		mcp.WithArgument("supplier",
			mcp.ArgumentDescription("Supplier name, used to label the evaluation and the export file"),
		),
		mcp.WithArgument("fresh",
			mcp.ArgumentDescription("'true' to clear previous answers before starting. Default: false"),
		),
	)
}

// Handle processes the repse-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	supplier := "mi proveedor"
	fresh := false
	if args := req.Params.Arguments; args != nil {
		if name, ok := args["supplier"]; ok && name != "" {
			supplier = name
		}
		fresh = args["fresh"] == "true"
	}

	resetStep := ""
	if fresh {
		resetStep = "0. Run `repse_reset` so the evaluation starts empty\n"
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("REPSE evaluation: %s", supplier),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to validate the REPSE compliance of my supplier '%s'.\n\n"+
						"Please:\n"+
						"%s"+
						"1. Run `repse_items` and walk me through the items one at a time, in order\n"+
						"2. For each item, ask me whether the supplier complies and record my answer with `repse_answer`\n"+
						"3. Share the guidance note and reference link of an item when I am unsure\n"+
						"4. When the last item is answered, present the diagnosis the tool returns\n"+
						"5. Offer to export the answers with `repse_export`\n\n"+
						"Unanswered items count as non-compliant, so do not skip any.",
					supplier, resetStep,
				)),
			},
		},
	}, nil
}

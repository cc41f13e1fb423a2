package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ResultPrompt handles the repse-result MCP prompt.
// It instructs the AI to present the current diagnosis and next steps.
type ResultPrompt struct{}

// NewResultPrompt creates a ResultPrompt.
func NewResultPrompt() *ResultPrompt {
	return &ResultPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ResultPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("repse-result",
		mcp.WithPromptDescription(
			"Show the current REPSE diagnosis: score, risk tier, guidance "+
				"and which items still need attention.",
		),
	)
}

// Handle processes the repse-result prompt request.
func (p *ResultPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "REPSE diagnosis",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `repse_result` to show my supplier's REPSE diagnosis.\n\n" +
						"Then:\n" +
						"1. Present the tier, the score and the guidance exactly as returned\n" +
						"2. Run `repse_items` and list the items marked as not compliant or still unanswered\n" +
						"3. Tell me what evidence to request from the supplier for each of them\n" +
						"4. Offer `repse_export` or `repse_print` to keep a copy",
				),
			},
		},
	}, nil
}

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/checklist"
)

// ResultTool handles the repse_result MCP tool.
// By default it also reveals the result, matching the "Ver resultado" button.
type ResultTool struct {
	session *Session
}

// NewResultTool creates a ResultTool bound to session.
func NewResultTool(session *Session) *ResultTool {
	return &ResultTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *ResultTool) Definition() mcp.Tool {
	return mcp.NewTool("repse_result",
		mcp.WithDescription(
			"Show the diagnosis: compliant count, percentage over ALL items (unanswered "+
				"items count as non-compliant), risk tier and guidance. "+
				"It can be called before every item is answered.",
		),
		mcp.WithBoolean("reveal",
			mcp.Description("Mark the result as revealed (default: true). Use false to peek without changing state."),
		),
	)
}

// Handle processes the repse_result tool call.
func (t *ResultTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reveal := boolArg(req, "reveal", true)

	var result checklist.Result
	t.session.View(func(e *checklist.Engine) {
		if reveal {
			e.Show()
		}
		result = e.Result()
	})

	return mcp.NewToolResultText(renderResult(result)), nil
}

// DismissTool handles the repse_dismiss MCP tool.
type DismissTool struct {
	session *Session
}

// NewDismissTool creates a DismissTool bound to session.
func NewDismissTool(session *Session) *DismissTool {
	return &DismissTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *DismissTool) Definition() mcp.Tool {
	return mcp.NewTool("repse_dismiss",
		mcp.WithDescription(
			"Close the result view. Responses are kept; the result is not revealed "+
				"again automatically until the checklist is reset and completed anew.",
		),
	)
}

// Handle processes the repse_dismiss tool call.
func (t *DismissTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result checklist.Result
	t.session.View(func(e *checklist.Engine) {
		e.Dismiss()
		result = e.Result()
	})
	return mcp.NewToolResultText("Resultado cerrado.\n\n" + progressLine(result.Answered, result.Total)), nil
}

// ResetTool handles the repse_reset MCP tool.
type ResetTool struct {
	session *Session
}

// NewResetTool creates a ResetTool bound to session.
func NewResetTool(session *Session) *ResetTool {
	return &ResetTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *ResetTool) Definition() mcp.Tool {
	return mcp.NewTool("repse_reset",
		mcp.WithDescription(
			"Clear every response and hide the result to start a new evaluation. "+
				"This cannot be undone; export first if the answers matter.",
		),
	)
}

// Handle processes the repse_reset tool call.
func (t *ResetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var total int
	t.session.View(func(e *checklist.Engine) {
		e.Reset()
		total = e.Total()
	})
	return mcp.NewToolResultText("Respuestas borradas.\n\n" + progressLine(0, total)), nil
}

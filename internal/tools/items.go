package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/checklist"
)

// ItemsTool handles the repse_items MCP tool.
// It lists every checklist item with its current response.
type ItemsTool struct {
	session *Session
}

// NewItemsTool creates an ItemsTool bound to session.
func NewItemsTool(session *Session) *ItemsTool {
	return &ItemsTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *ItemsTool) Definition() mcp.Tool {
	return mcp.NewTool("repse_items",
		mcp.WithDescription(
			"List the REPSE supplier checklist: every item with its id, the question, "+
				"optional guidance and reference link, and the response recorded so far. "+
				"Call this first, then record answers with `repse_answer`.",
		),
	)
}

// Handle processes the repse_items tool call.
func (t *ItemsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		items    []checklist.ItemState
		answered int
		mode     checklist.Mode
	)
	t.session.View(func(e *checklist.Engine) {
		items = e.Items()
		answered = e.AnsweredCount()
		mode = e.Mode()
	})

	var b strings.Builder
	b.WriteString("# Guía rápida para validar el REPSE de tu proveedor\n\n")
	fmt.Fprintf(&b, "%s · modo `%s`\n\n", progressLine(answered, len(items)), mode)
	for _, it := range items {
		fmt.Fprintf(&b, "- **%d.** %s | %s\n", it.ID, it.Prompt, responseLabel(it.Response))
		if it.Note != "" {
			fmt.Fprintf(&b, "  _%s_\n", it.Note)
		}
		if it.ReferenceURL != "" {
			fmt.Fprintf(&b, "  Referencia: %s\n", it.ReferenceURL)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

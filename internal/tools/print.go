package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/checklist"
)

// PrintFunc hands the current result to whatever renders printed output.
type PrintFunc func(ctx context.Context, result checklist.Result, rows []checklist.Row) error

// LogPrinter returns a PrintFunc that only records the request. A stdio
// process has no printer of its own; the host decides how to print.
func LogPrinter(log *zap.Logger) PrintFunc {
	return func(ctx context.Context, r checklist.Result, rows []checklist.Row) error {
		log.Info("print requested",
			zap.String("session_id", r.SessionID),
			zap.String("tier", string(r.Tier)),
			zap.Int("compliant", r.Compliant),
			zap.Int("total", r.Total),
			zap.Int("rows", len(rows)),
		)
		return nil
	}
}

// PrintTool handles the repse_print MCP tool.
type PrintTool struct {
	session *Session
	print   PrintFunc
}

// NewPrintTool creates a PrintTool. A nil print func falls back to a no-op logger.
func NewPrintTool(session *Session, fn PrintFunc) *PrintTool {
	if fn == nil {
		fn = LogPrinter(zap.NewNop())
	}
	return &PrintTool{session: session, print: fn}
}

// Definition returns the MCP tool definition for registration.
func (t *PrintTool) Definition() mcp.Tool {
	return mcp.NewTool("repse_print",
		mcp.WithDescription(
			"Request a printable copy of the current diagnosis. Returns the printable "+
				"text; the host is responsible for sending it to a printer.",
		),
	)
}

// Handle processes the repse_print tool call.
func (t *PrintTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		result checklist.Result
		items  []checklist.ItemState
		rows   []checklist.Row
	)
	t.session.View(func(e *checklist.Engine) {
		result = e.Result()
		items = e.Items()
		rows = e.ExportRows()
	})

	if err := t.print(ctx, result, rows); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("print failed: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString(renderResult(result))
	b.WriteString("\n\n## Respuestas\n\n")
	for _, it := range items {
		fmt.Fprintf(&b, "%d. %s | %s\n", it.ID, it.Prompt, responseLabel(it.Response))
	}
	return mcp.NewToolResultText(b.String()), nil
}

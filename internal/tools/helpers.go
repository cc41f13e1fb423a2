// Package tools implements the MCP tool handlers for the REPSE checklist.
//
// Each tool is a struct with its dependencies injected via constructor,
// a Definition() returning the mcp.Tool schema and a Handle() processing
// the request. Every engine access goes through a Session.
package tools

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/checklist"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/errs"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/scoring"
)

// intArg extracts an integer argument from a tool request. ok is false when
// the key is missing, not a number, or has a fractional part (JSON numbers
// arrive as float64).
func intArg(req mcp.CallToolRequest, key string) (n int, ok bool) {
	v, isNum := req.GetArguments()[key].(float64)
	if !isNum || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// engineError turns caller mistakes into tool errors. Anything else is an
// internal fault and is returned as a Go error.
func engineError(err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, errs.ErrUnknownItem):
		return mcp.NewToolResultError(fmt.Sprintf("%v. Use `repse_items` to list valid item ids.", err)), nil
	case errors.Is(err, errs.ErrInvalidResponse):
		return mcp.NewToolResultError(fmt.Sprintf("%v. Accepted values: yes/si/1 or no/0.", err)), nil
	default:
		return nil, err
	}
}

func responseLabel(v scoring.ResponseValue) string {
	switch v {
	case scoring.Compliant:
		return "✅ Cumple"
	case scoring.NonCompliant:
		return "❌ No cumple"
	default:
		return "⬜ Sin responder"
	}
}

func progressLine(answered, total int) string {
	return fmt.Sprintf("Contestadas: %d / %d", answered, total)
}

func formatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// renderResult renders the result view: tier badge, score, heading and detail.
func renderResult(r checklist.Result) string {
	var b strings.Builder
	b.WriteString("# Resultado del diagnóstico\n\n")
	fmt.Fprintf(&b, "**%s** | Total: %d / %d (%s)\n\n", r.Copy.Label, r.Compliant, r.Total, formatPercent(r.Percentage))
	if r.Copy.Heading != "" {
		fmt.Fprintf(&b, "**%s**\n\n", r.Copy.Heading)
	}
	if r.Copy.Detail != "" {
		b.WriteString(r.Copy.Detail + "\n\n")
	}
	if !r.Complete {
		missing := r.Total - r.Answered
		fmt.Fprintf(&b, "_Faltan %d puntos por contestar; cuentan como no cumplidos._\n\n", missing)
	}
	b.WriteString(progressLine(r.Answered, r.Total))
	return b.String()
}

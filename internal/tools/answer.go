package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/checklist"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/scoring"
)

// AnswerTool handles the repse_answer MCP tool.
// It records one response and reports progress; when the answer completes
// the checklist the result is revealed and included in the output.
type AnswerTool struct {
	session *Session
}

// NewAnswerTool creates an AnswerTool bound to session.
func NewAnswerTool(session *Session) *AnswerTool {
	return &AnswerTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *AnswerTool) Definition() mcp.Tool {
	return mcp.NewTool("repse_answer",
		mcp.WithDescription(
			"Record whether the supplier complies with one checklist item. "+
				"Answering overwrites any previous response for the item. "+
				"Answering the last pending item reveals the result automatically.",
		),
		mcp.WithNumber("item_id",
			mcp.Required(),
			mcp.Description("Checklist item id, as listed by `repse_items`"),
		),
		mcp.WithString("response",
			mcp.Required(),
			mcp.Description("yes/si/1/compliant when the supplier complies, no/0/non_compliant when it does not"),
		),
	)
}

// Handle processes the repse_answer tool call.
func (t *AnswerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := intArg(req, "item_id")
	if !ok {
		return mcp.NewToolResultError("'item_id' is required and must be an integer"), nil
	}
	raw := req.GetString("response", "")
	value, err := scoring.ParseResponse(raw)
	if err != nil {
		// The engine reports unknown ids before bad values.
		value = scoring.ResponseValue(raw)
	}

	var (
		result   checklist.Result
		revealed bool
	)
	err = t.session.Do(func(e *checklist.Engine) error {
		was := e.Revealed()
		if err := e.SetResponse(id, value); err != nil {
			return err
		}
		revealed = !was && e.Revealed()
		result = e.Result()
		return nil
	})
	if err != nil {
		return engineError(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Punto %d registrado: %s\n\n%s", id, responseLabel(value), progressLine(result.Answered, result.Total))
	if revealed {
		b.WriteString("\n\n---\n\n")
		b.WriteString(renderResult(result))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// AnswerManyTool handles the repse_answer_many MCP tool.
// The batch is applied atomically: one bad pair rejects the whole call.
type AnswerManyTool struct {
	session *Session
}

// NewAnswerManyTool creates an AnswerManyTool bound to session.
func NewAnswerManyTool(session *Session) *AnswerManyTool {
	return &AnswerManyTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *AnswerManyTool) Definition() mcp.Tool {
	return mcp.NewTool("repse_answer_many",
		mcp.WithDescription(
			"Record several responses at once. Pairs are applied in order, so a later "+
				"pair for the same item wins. If any pair is invalid nothing is recorded.",
		),
		mcp.WithString("answers",
			mcp.Required(),
			mcp.Description("Comma-separated <item_id>=<response> pairs, e.g. `1=yes,2=no,3=si`"),
		),
	)
}

// Handle processes the repse_answer_many tool call.
func (t *AnswerManyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := req.GetString("answers", "")
	answers, err := checklist.ParseAnswers(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var (
		result   checklist.Result
		revealed bool
	)
	err = t.session.Do(func(e *checklist.Engine) error {
		was := e.Revealed()
		if err := e.SetResponses(answers); err != nil {
			return err
		}
		revealed = !was && e.Revealed()
		result = e.Result()
		return nil
	})
	if err != nil {
		return engineError(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d respuestas registradas.\n\n%s", len(answers), progressLine(result.Answered, result.Total))
	if revealed {
		b.WriteString("\n\n---\n\n")
		b.WriteString(renderResult(result))
	}
	return mcp.NewToolResultText(b.String()), nil
}

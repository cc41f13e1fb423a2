// Package resources implements MCP resource handlers for the REPSE checklist.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (repse://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/checklist"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/tools"
)

const (
	// StatusURI addresses the live checklist status.
	StatusURI = "repse://checklist/status"
	// ItemsURI addresses the questionnaire with current responses.
	ItemsURI = "repse://checklist/items"
)

// Status is the JSON document served at StatusURI.
type Status struct {
	checklist.Result
	Bands string `json:"bands"`
}

// Handler serves checklist resources from a session.
type Handler struct {
	session *tools.Session
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(session *tools.Session) *Handler {
	return &Handler{session: session}
}

// StatusResource returns the MCP resource definition for the checklist status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		StatusURI,
		"REPSE Checklist Status",
		mcp.WithResourceDescription("Answered and compliant counts, percentage, risk tier and whether the result is revealed"),
		mcp.WithMIMEType("application/json"),
	)
}

// ItemsResource returns the MCP resource definition for the item list.
func (h *Handler) ItemsResource() mcp.Resource {
	return mcp.NewResource(
		ItemsURI,
		"REPSE Checklist Items",
		mcp.WithResourceDescription("Every checklist item with guidance, reference link and current response"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStatus returns the current status as JSON.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var st Status
	h.session.View(func(e *checklist.Engine) {
		st = Status{Result: e.Result(), Bands: e.Table().Describe()}
	})
	return jsonContents(req.Params.URI, st)
}

// HandleItems returns the items with their responses as JSON.
func (h *Handler) HandleItems(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var items []checklist.ItemState
	h.session.View(func(e *checklist.Engine) {
		items = e.Items()
	})
	return jsonContents(req.Params.URI, items)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

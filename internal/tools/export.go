package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/checklist"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/export"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// ExportSettings controls where repse_export writes its artifacts.
type ExportSettings struct {
	Dir         string
	Filename    string
	NotesColumn bool
	// SQLitePath enables the SQLite snapshot when non-empty.
	SQLitePath string
}

// ExportTool handles the repse_export MCP tool.
type ExportTool struct {
	session  *Session
	settings ExportSettings
	log      *zap.Logger
}

// NewExportTool creates an ExportTool bound to session.
func NewExportTool(session *Session, settings ExportSettings, log *zap.Logger) *ExportTool {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportTool{session: session, settings: settings, log: log}
}

// Definition returns the MCP tool definition for registration.
func (t *ExportTool) Definition() mcp.Tool {
	return mcp.NewTool("repse_export",
		mcp.WithDescription(
			"Export the current responses as a spreadsheet-friendly CSV (UTF-8 with BOM, "+
				"`;`-separated, header `Punto;Cumple (1/0)`). Optionally also append a snapshot "+
				"to the configured SQLite file. Export works at any time, complete or not.",
		),
		mcp.WithString("format",
			mcp.DefaultString("csv"),
			mcp.Enum("csv", "sqlite", "all"),
			mcp.Description("Artifacts to write: csv, sqlite (requires export.sqlite) or all"),
		),
		mcp.WithString("filename",
			mcp.Description("CSV file name inside the export directory (default: guia_validacion_REPSE.csv)"),
		),
		mcp.WithBoolean("include_content",
			mcp.Description("Also return the CSV text in the response (default: false)"),
		),
	)
}

// Handle processes the repse_export tool call.
func (t *ExportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := strings.ToLower(req.GetString("format", "csv"))
	wantCSV := format == "csv" || format == "all"
	wantSQLite := format == "sqlite" || format == "all"
	if !wantCSV && !wantSQLite {
		return mcp.NewToolResultError(fmt.Sprintf("invalid format %q: must be csv, sqlite or all", format)), nil
	}
	if wantSQLite && t.settings.SQLitePath == "" {
		return mcp.NewToolResultError("SQLite export is disabled: set export.sqlite (REPSE_EXPORT_SQLITE) to enable it"), nil
	}

	filename := req.GetString("filename", t.settings.Filename)
	if filename != "" && (filename != filepath.Base(filename) || filename == "." || filename == "..") {
		return mcp.NewToolResultError(fmt.Sprintf("filename %q must be a plain file name without directories", filename)), nil
	}

	var snap export.Snapshot
	t.session.View(func(e *checklist.Engine) {
		snap = export.NewSnapshot(e, timeNow())
	})
	opts := export.CSVOptions{NotesColumn: t.settings.NotesColumn}

	var b strings.Builder
	b.WriteString("# Exportación\n\n")
	fmt.Fprintf(&b, "%s\n\n", progressLine(snap.Result.Answered, snap.Result.Total))

	if wantCSV {
		path, err := export.WriteCSVFile(t.settings.Dir, filename, snap.Rows, opts)
		if err != nil {
			return nil, fmt.Errorf("exporting csv: %w", err)
		}
		t.log.Info("csv exported",
			zap.String("session_id", snap.Result.SessionID),
			zap.String("path", path),
			zap.Int("rows", len(snap.Rows)),
		)
		fmt.Fprintf(&b, "- CSV: `%s` (%s)\n", path, export.ContentType)
	}

	if wantSQLite {
		id, err := export.WriteSQLite(ctx, t.settings.SQLitePath, snap)
		if err != nil {
			return nil, fmt.Errorf("exporting sqlite: %w", err)
		}
		t.log.Info("sqlite snapshot exported",
			zap.String("session_id", snap.Result.SessionID),
			zap.String("path", t.settings.SQLitePath),
			zap.Int64("evaluation_id", id),
		)
		fmt.Fprintf(&b, "- SQLite: `%s` (evaluación #%d)\n", t.settings.SQLitePath, id)
	}

	if boolArg(req, "include_content", false) {
		data, err := export.CSV(snap.Rows, opts)
		if err != nil {
			return nil, fmt.Errorf("rendering csv: %w", err)
		}
		fmt.Fprintf(&b, "\n```csv\n%s\n```\n", strings.TrimPrefix(string(data), export.BOM))
	}

	return mcp.NewToolResultText(b.String()), nil
}

// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it builds the checklist engine from
// configuration and injects the session into the tools, prompts and
// resources that depend on it. No business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/checklist"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/config"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/prompts"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/resources"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Name is the MCP server name announced to clients.
const Name = "repse-check"

const resourceUpdatedMethod = "notifications/resources/updated"

// Options are the dependencies of New.
type Options struct {
	Config *config.Config
	Logger *zap.Logger
	// Print receives repse_print requests. Nil logs them.
	Print tools.PrintFunc
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function detaches the event subscription and flushes
// the logger. It is always non-nil.
func New(opts Options) (*server.MCPServer, *tools.Session, func(), error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Config == nil {
		return nil, nil, noop, fmt.Errorf("server requires a configuration")
	}
	cfg := opts.Config

	// --- Create shared dependencies ---

	engine, err := cfg.NewEngine()
	if err != nil {
		return nil, nil, noop, fmt.Errorf("creating checklist engine: %w", err)
	}
	session := tools.NewSession(engine)

	log.Info("checklist ready",
		zap.String("session_id", engine.SessionID()),
		zap.String("variant", string(cfg.Variant())),
		zap.String("mode", string(engine.Mode())),
		zap.Int("items", engine.Total()),
		zap.String("bands", engine.Table().Describe()),
	)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register checklist tools ---

	itemsTool := tools.NewItemsTool(session)
	s.AddTool(itemsTool.Definition(), itemsTool.Handle)

	answerTool := tools.NewAnswerTool(session)
	s.AddTool(answerTool.Definition(), answerTool.Handle)

	answerManyTool := tools.NewAnswerManyTool(session)
	s.AddTool(answerManyTool.Definition(), answerManyTool.Handle)

	resetTool := tools.NewResetTool(session)
	s.AddTool(resetTool.Definition(), resetTool.Handle)

	resultTool := tools.NewResultTool(session)
	s.AddTool(resultTool.Definition(), resultTool.Handle)

	dismissTool := tools.NewDismissTool(session)
	s.AddTool(dismissTool.Definition(), dismissTool.Handle)

	exportTool := tools.NewExportTool(session, tools.ExportSettings{
		Dir:         cfg.Export.Dir,
		Filename:    cfg.Export.Filename,
		NotesColumn: cfg.Export.NotesColumn,
		SQLitePath:  cfg.Export.SQLite,
	}, log.Named("export"))
	s.AddTool(exportTool.Definition(), exportTool.Handle)

	printFn := opts.Print
	if printFn == nil {
		printFn = tools.LogPrinter(log.Named("print"))
	}
	printTool := tools.NewPrintTool(session, printFn)
	s.AddTool(printTool.Definition(), printTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	resultPrompt := prompts.NewResultPrompt()
	s.AddPrompt(resultPrompt.Definition(), resultPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(session)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)
	s.AddResource(resourceHandler.ItemsResource(), resourceHandler.HandleItems)

	// --- Engine events ---
	//
	// Every state change is logged and announced to subscribed clients so
	// hosts can refresh the status view without polling.

	unsubscribe := session.Subscribe(eventHandler(s, log.Named("checklist")))

	cleanup := func() {
		unsubscribe()
		_ = log.Sync()
	}
	return s, session, cleanup, nil
}

// eventHandler logs ev and notifies clients that the status resources changed.
func eventHandler(s *server.MCPServer, log *zap.Logger) func(checklist.Event) {
	return func(ev checklist.Event) {
		fields := []zap.Field{
			zap.String("session_id", ev.SessionID),
			zap.Int("answered", ev.Answered),
			zap.Int("compliant", ev.Compliant),
			zap.Int("total", ev.Total),
			zap.String("reveal", string(ev.Reveal)),
		}
		switch ev.Kind {
		case checklist.EventResponseSet:
			fields = append(fields, zap.Int("item_id", ev.ItemID), zap.String("value", string(ev.Value)))
			log.Debug("response set", fields...)
		case checklist.EventRevealed:
			fields = append(fields, zap.Bool("auto", ev.Auto))
			log.Info("result revealed", fields...)
		default:
			log.Info(string(ev.Kind), fields...)
		}

		for _, uri := range []string{resources.StatusURI, resources.ItemsURI} {
			s.SendNotificationToAllClients(resourceUpdatedMethod, map[string]any{"uri": uri})
		}
	}
}

// noop is the cleanup returned when construction fails.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to run the checklist.
func serverInstructions() string {
	return `You have access to the REPSE supplier checklist, a quick guide to validate
whether a Mexican outsourcing supplier is properly registered in the REPSE
(Registro de Prestadoras de Servicios Especializados u Obras Especializadas).

## How the checklist works
- The checklist has a fixed list of items. Each item is either unanswered,
  compliant or non-compliant.
- The score is compliant items over ALL items: unanswered items count as
  non-compliant. Never present a partial score as final.
- The score maps to a risk tier (No apto / Condicionado / Apto) with guidance.
- Answering the last pending item reveals the result automatically, once.

## Tools
- repse_items: list items, guidance and the answers recorded so far
- repse_answer / repse_answer_many: record answers (overwrite allowed)
- repse_result: show the diagnosis at any time
- repse_dismiss: close the result view
- repse_reset: clear everything for a new supplier
- repse_export: write the CSV (and optional SQLite snapshot)
- repse_print: hand the diagnosis to the host for printing

## Rules
- Ask the user; never guess an answer on their behalf.
- Use the item ids returned by repse_items.
- This guide is informative and does not constitute legal or tax advice.`
}

// Package mcp exposes programs, history and the live session to MCP clients.
package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("GymLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("GymLog workout tracker. Read training programs, the next day in each rotation, completed sessions, per-exercise progress and the session in progress. Weights are in the unit the user logs; reps and weight are null for sets that were not recorded."),
	)

	h := newHandlers(ds, log)

	s.AddTools(
		server.ServerTool{Tool: toolListPrograms, Handler: h.listPrograms},
		server.ServerTool{Tool: toolGetNextDay, Handler: h.getNextDay},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolGetLatestPerformance, Handler: h.getLatestPerformance},
		server.ServerTool{Tool: toolGetWeightProgress, Handler: h.getWeightProgress},
		server.ServerTool{Tool: toolGetActiveSession, Handler: h.getActiveSession},
	)

	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
		server.ServerResource{Resource: resRecentHistory, Handler: h.recentHistory},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
	now func() time.Time
}

func newHandlers(ds DataSource, log *slog.Logger) *handlers {
	return &handlers{ds: ds, log: log, now: time.Now}
}

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"gymlog://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Every exercise in the library with the programs and days that use it"),
	mcp.WithMIMEType("application/json"),
)

var resRecentHistory = mcp.NewResource(
	"gymlog://recent_history",
	"Recent History",
	mcp.WithResourceDescription("Completed sessions from the last 14 days, newest first"),
	mcp.WithMIMEType("application/json"),
)

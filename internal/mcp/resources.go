package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/gymlog/internal/models"
)

type catalogEntry struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	UsedIn []string `json:"usedIn"`
}

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exercises, err := h.ds.ListExercises(ctx)
	if err != nil {
		return nil, err
	}
	programs, err := h.ds.ListPrograms(ctx)
	if err != nil {
		h.log.Warn("exercise_catalog: program query failed", "error", err)
	}

	usedIn := map[string][]string{}
	for _, p := range programs {
		for _, d := range p.Days {
			for _, it := range d.Items {
				usedIn[it.ExerciseID] = append(usedIn[it.ExerciseID], p.Name+" / "+d.Name)
			}
		}
	}

	catalog := make([]catalogEntry, 0, len(exercises))
	for _, e := range exercises {
		uses := usedIn[e.ID]
		if uses == nil {
			uses = []string{}
		}
		catalog = append(catalog, catalogEntry{ID: e.ID, Name: e.Name, UsedIn: uses})
	}
	return jsonContents(req.Params.URI, catalog)
}

func (h *handlers) recentHistory(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	start := h.now().UTC().AddDate(0, 0, -14).Format(models.TimestampLayout)
	entries, err := h.ds.QueryHistory(ctx, start, "", "")
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, entries)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

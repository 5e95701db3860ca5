package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/gymlog/internal/history"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/session"
	"github.com/claude/gymlog/internal/tracker"
)

// HTTPClient implements DataSource by calling the GymLog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// StatusError is a non-200 response from the API.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpclient: %s returned %d: %s", e.Path, e.Code, e.Body)
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, v any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) ListPrograms(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	if err := c.get(ctx, "/api/v1/programs", nil, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

func (c *HTTPClient) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	var exercises []models.Exercise
	if err := c.get(ctx, "/api/v1/exercises", nil, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (c *HTTPClient) NextDay(ctx context.Context, programID string) (tracker.DayChoice, error) {
	var next tracker.DayChoice
	err := c.get(ctx, "/api/v1/programs/"+url.PathEscape(programID)+"/next-day", nil, &next)
	return next, err
}

func (c *HTTPClient) QueryHistory(ctx context.Context, start, end, exercise string) ([]models.HistoryEntry, error) {
	params := url.Values{}
	if start != "" {
		params.Set("start", start)
	}
	if end != "" {
		params.Set("end", end)
	}
	if exercise != "" {
		params.Set("exercise", exercise)
	}

	var entries []models.HistoryEntry
	if err := c.get(ctx, "/api/v1/history", params, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *HTTPClient) LatestPerformance(ctx context.Context, exercise string) (*history.Performance, error) {
	var resp struct {
		Performance *history.Performance `json:"performance"`
	}
	if err := c.get(ctx, "/api/v1/history/latest", url.Values{"exercise": {exercise}}, &resp); err != nil {
		return nil, err
	}
	return resp.Performance, nil
}

func (c *HTTPClient) WeightProgress(ctx context.Context, exercise string) (tracker.Progress, error) {
	var progress tracker.Progress
	err := c.get(ctx, "/api/v1/history/progress", url.Values{"exercise": {exercise}}, &progress)
	return progress, err
}

func (c *HTTPClient) ActiveSession(ctx context.Context) (*session.View, error) {
	var v session.View
	err := c.get(ctx, "/api/v1/session", nil, &v)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

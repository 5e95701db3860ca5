// Package ingest holds what the history importers share.
package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	SessionsReceived int    `json:"sessions_received"`
	SessionsInserted int    `json:"sessions_inserted"`
	SessionsReplaced int    `json:"sessions_replaced"`
	SetsReceived     int    `json:"sets_received"`
	Message          string `json:"message,omitempty"`
}

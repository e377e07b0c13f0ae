package client

import "jasper/internal/types"

// ResponseTypeResults marks a query reply that carries result items.
const ResponseTypeResults = "results"

// PingQuery is the sentinel query text used as a liveness probe. The
// backend answers it like any other query; only the HTTP status matters.
const PingQuery = "PING"

type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse is the backend's answer to a query. Type is "results" when
// Data carries items; any other type ("chat", "error", ...) is rendered as
// plain content. Trace accompanies backend-side failures and is ignored by
// the console.
type QueryResponse struct {
	Type    string             `json:"type"`
	Content string             `json:"content"`
	Data    []types.ResultItem `json:"data,omitempty"`
	Trace   string             `json:"trace,omitempty"`
}

type OpenRequest struct {
	ID       string         `json:"id"`
	Provider types.Provider `json:"provider"`
}

// StatusResponse is the generic ok/error/ignored envelope the backend uses
// for open and restart replies.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

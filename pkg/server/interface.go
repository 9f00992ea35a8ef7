/*
Package server implements msgpack IPC for place name suggestions.

The server provides a minimal request/response interface over stdin/stdout
using binary msgpack encoding. It is the host-service layer around the
suggest pipeline: it validates parameters, maps empty results to a not-found
status, and never reaches into the matching or scoring logic itself.

# IPC

Clients write one msgpack-encoded request to stdin and read one response from
stdout. Each message carries an ID so clients can run requests back to back.

A suggestion request:

	{"id": "req_001", "q": "Londo", "l": 2}

with optional coordinates to rank by proximity instead of population:

	{"id": "req_002", "q": "Londo", "lat": 43.0, "lon": -81.0}

The server responds with scored suggestions in ranked order:

	{"id": "req_001", "s": [{"n": "London", "lat": 51.5, "lon": -0.1, "sc": 0.83}], "c": 1, "st": 200, "t": 120}

Status follows HTTP conventions: 200 when suggestions were found, 404 when
the query matched nothing. Missing or invalid parameters produce an error
message instead:

	{"id": "req_003", "e": "Missing 'q' parameter", "c": 400}

Setting "f": true enables typo correction: when the query matches nothing,
the closest indexed name within edit distance 2 is retried and the response
carries the corrected query.
*/
package server

// SuggestRequest is an incoming request from the client.
// An empty Cmd means "suggest"; "health" answers a liveness probe.
type SuggestRequest struct {
	ID        string   `msgpack:"id"`
	Cmd       string   `msgpack:"cmd,omitempty"`
	Query     string   `msgpack:"q"`
	Latitude  *float64 `msgpack:"lat,omitempty"`
	Longitude *float64 `msgpack:"lon,omitempty"`
	Limit     int      `msgpack:"l,omitempty"`
	Fuzzy     bool     `msgpack:"f,omitempty"`
}

// ResponseSuggestion is one scored place in the response.
type ResponseSuggestion struct {
	Name      string  `msgpack:"n"`
	Latitude  float64 `msgpack:"lat"`
	Longitude float64 `msgpack:"lon"`
	Score     float64 `msgpack:"sc"`
}

// SuggestResponse is the overall response format.
type SuggestResponse struct {
	ID             string               `msgpack:"id"`
	Suggestions    []ResponseSuggestion `msgpack:"s"`
	Count          int                  `msgpack:"c"`
	Status         int                  `msgpack:"st"`
	TimeTaken      int64                `msgpack:"t"`
	WasCorrected   bool                 `msgpack:"corrected,omitempty"`
	CorrectedQuery string               `msgpack:"corrected_q,omitempty"`
}

// ErrorResponse represents an IPC error
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

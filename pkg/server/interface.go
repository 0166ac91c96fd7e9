/*
Package server implements msgpack IPC for candidate ranking services.

The server provides a minimal interface for popup suggestion ranking using
msgpack serialization over stdin/stdout.

The protocol uses binary msgpack encoding and supports rank requests, usage
recording, scope switching and config updates. Messages are processed
synchronously with timing info included in responses.

# IPC

The server operates on a request response model where clients send
structured messages via stdin and receive responses through stdout. Each
message contains an ID field and other fields based on the operation type.

Rank requests use mainly this structure:

	{"id": "req_001", "q": "conf", "l": 20}

The server responds with suggestions ranked by score:

	{"id": "req_001", "s": [{"n": "config.ts", "p": "src/config.ts", "k": 0, "r": 526}], "c": 1, "t": 145}

Usage recording feeds the frequency/recency bonuses of later rank requests:

	{"id": "use_001", "action": "record", "i": "src/config.ts"}

Scope switching clears the incremental-search state; results cached for one
base directory are never reused for another:

	{"id": "scope_001", "action": "scope", "dir": "/home/user/project"}

Config messages allow adjustment of server parameters without restart, and
status messages report candidate and usage-entry counts.

Every scoring request runs against the in-memory candidate set; the server
performs no filesystem access per keystroke, so responses stay in the
sub-millisecond range for thousands of candidates.
*/
package server

// Request is the single incoming message shape. Action selects the
// operation; an empty action means rank.
type Request struct {
	ID       string `msgpack:"id"`
	Action   string `msgpack:"action,omitempty"`
	Query    string `msgpack:"q,omitempty"`
	Limit    int    `msgpack:"l,omitempty"`
	Identity string `msgpack:"i,omitempty"`
	BaseDir  string `msgpack:"dir,omitempty"`

	// Config update fields; nil leaves the setting untouched.
	MaxResults *int `msgpack:"max_results,omitempty"`
	MinQuery   *int `msgpack:"min_query,omitempty"`
	MaxQuery   *int `msgpack:"max_query,omitempty"`
}

// Suggestion is one ranked entry in a rank response.
type Suggestion struct {
	Name  string  `msgpack:"n"`
	Path  string  `msgpack:"p,omitempty"`
	Kind  uint8   `msgpack:"k"`
	Score float64 `msgpack:"r"`
}

// RankResponse answers a rank request.
type RankResponse struct {
	ID          string       `msgpack:"id"`
	Suggestions []Suggestion `msgpack:"s"`
	Count       int          `msgpack:"c"`
	// TimeTaken is the scoring time in microseconds.
	TimeTaken int64 `msgpack:"t"`
}

// StatusResponse answers record, scope, config and status requests.
type StatusResponse struct {
	ID         string `msgpack:"id"`
	Status     string `msgpack:"status"`
	Candidates int    `msgpack:"candidates,omitempty"`
	Tracked    int    `msgpack:"tracked,omitempty"`
}

// ErrorResponse reports a failed request.
type ErrorResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Error  string `msgpack:"error"`
	Status int    `msgpack:"status"`
}

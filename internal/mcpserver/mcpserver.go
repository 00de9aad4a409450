// Package mcpserver implements the shared stdio JSON-RPC-style framed
// protocol server used by the symbol-search and code-review peripherals.
// Grounded on the teacher's StdioTransport
// (internal/mcp/transport_stdio.go: line-delimited JSON over stdin/
// stdout, request-id correlation), inverted here from the client role
// the teacher plays (spawning an MCP server subprocess) to the server
// role (guardhook's own peripherals are the subprocess).
package mcpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"guardhook/internal/logging"
)

// Request is one line-delimited JSON-RPC-style call.
type Request struct {
	ID     int             `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// Response is the framed reply to a Request.
type Response struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Handler answers one method call, returning a JSON-serializable result
// or an error.
type Handler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Server dispatches line-delimited JSON-RPC-style requests read from an
// io.Reader to registered Handlers, writing framed Responses to an
// io.Writer. Safe for one Serve call per Server; Handlers execute
// sequentially in request order (the spec names no concurrency
// requirement for the peripherals and the teacher's own transport
// serializes responses by request id, not by running them in parallel).
type Server struct {
	handlers map[string]Handler
	mu       sync.Mutex
}

// NewServer constructs an empty Server.
func NewServer() *Server {
	return &Server{handlers: make(map[string]Handler)}
}

// Register binds method to handler.
func (s *Server) Register(method string, handler Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = handler
}

// Serve reads one JSON request per line from r until EOF or ctx is
// canceled, dispatching each to its registered handler and writing the
// framed response to w.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var writeMu sync.Mutex

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			writeMu.Lock()
			writeResponse(w, Response{Error: fmt.Sprintf("malformed request: %v", err)})
			writeMu.Unlock()
			continue
		}

		resp := s.dispatch(ctx, req)
		writeMu.Lock()
		writeResponse(w, resp)
		writeMu.Unlock()
	}
	return scanner.Err()
}

func (s *Server) dispatch(ctx context.Context, req Request) Response {
	s.mu.Lock()
	handler, ok := s.handlers[req.Method]
	s.mu.Unlock()

	if !ok {
		return Response{ID: req.ID, Error: fmt.Sprintf("unknown method: %s", req.Method)}
	}

	result, err := handler(ctx, req.Params)
	if err != nil {
		logging.Get(logging.CategoryMCP).Warnw("handler error", "method", req.Method, "err", err)
		return Response{ID: req.ID, Error: err.Error()}
	}

	data, err := json.Marshal(result)
	if err != nil {
		return Response{ID: req.ID, Error: fmt.Sprintf("failed to marshal result: %v", err)}
	}
	return Response{ID: req.ID, Result: data}
}

func writeResponse(w io.Writer, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	w.Write(data)
	w.Write([]byte("\n"))
}

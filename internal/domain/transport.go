package domain

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// incomingBuffer is the capacity of the request channel. Stdio readers and
// HTTP message posts both park on it when the server falls behind.
const incomingBuffer = 10

// Transport carries JSON-RPC traffic between an MCP client and the server.
// Two implementations exist: newline-delimited JSON over stdio, and HTTP
// with an SSE response stream.
type Transport interface {
	// Start begins listening for incoming MCP messages.
	Start(ctx context.Context) error

	// Send transmits a JSON-RPC response to the client.
	Send(response *Response) error

	// Receive returns the channel of incoming requests. It is closed when
	// the transport shuts down.
	Receive() <-chan *Request

	// Close shuts the transport down. Safe to call more than once.
	Close() error
}

// decodeRequest parses one JSON-RPC message and checks the protocol
// version. On failure it returns a ready-to-send error object; id is the
// request ID when one could be recovered from the payload.
func decodeRequest(data []byte) (req *Request, id interface{}, rpcErr *Error) {
	var parsed Request
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, nil, &Error{Code: ParseError, Message: "Parse error", Data: err.Error()}
	}
	if parsed.JSONRPC != "2.0" {
		return nil, parsed.ID, &Error{Code: InvalidRequest, Message: "Invalid Request", Data: "invalid jsonrpc version"}
	}
	return &parsed, parsed.ID, nil
}

// errorResponse builds a JSON-RPC error envelope.
func errorResponse(id interface{}, rpcErr *Error) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: rpcErr}
}

// StdioTransport speaks newline-delimited JSON-RPC over a reader/writer
// pair, normally the process's stdin and stdout.
type StdioTransport struct {
	in       *bufio.Reader
	out      *bufio.Writer
	incoming chan *Request

	mu     sync.Mutex // guards out and closed
	closed bool
}

// NewStdioTransport creates a transport bound to os.Stdin and os.Stdout.
func NewStdioTransport() *StdioTransport {
	return NewStdioTransportWithIO(os.Stdin, os.Stdout)
}

// NewStdioTransportWithIO creates a transport over arbitrary streams. Tests
// use this with pipes and buffers.
func NewStdioTransportWithIO(reader io.Reader, writer io.Writer) *StdioTransport {
	return &StdioTransport{
		in:       bufio.NewReader(reader),
		out:      bufio.NewWriter(writer),
		incoming: make(chan *Request, incomingBuffer),
	}
}

// Start launches the stdin read loop.
func (t *StdioTransport) Start(ctx context.Context) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return fmt.Errorf("transport is closed")
	}

	go t.readLoop(ctx)
	return nil
}

// readLoop consumes lines from stdin until EOF or cancellation. Malformed
// lines get an error response on stdout; the loop keeps going.
func (t *StdioTransport) readLoop(ctx context.Context) {
	defer close(t.incoming)

	for {
		if ctx.Err() != nil {
			return
		}

		line, err := t.in.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return
			}
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		req, id, rpcErr := decodeRequest([]byte(line))
		if rpcErr != nil {
			_ = t.Send(errorResponse(id, rpcErr))
			continue
		}

		select {
		case t.incoming <- req:
		case <-ctx.Done():
			return
		}
	}
}

// Send writes a response as a single JSON line and flushes it. Responses
// containing a literal newline are rejected rather than corrupting the
// framing.
func (t *StdioTransport) Send(response *Response) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transport is closed")
	}

	if response.JSONRPC == "" {
		response.JSONRPC = "2.0"
	}

	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	if strings.Contains(string(data), "\n") {
		return fmt.Errorf("response contains embedded newlines")
	}

	if _, err := t.out.WriteString(string(data) + "\n"); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return t.out.Flush()
}

// Receive returns the channel of incoming requests.
func (t *StdioTransport) Receive() <-chan *Request {
	return t.incoming
}

// Close marks the transport closed. The request channel is owned by the
// read loop and closes when the loop exits.
func (t *StdioTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// HTTPTransport serves MCP over HTTP. Clients open a long-lived SSE stream
// on GET /mcp to receive responses and post requests to the per-session
// endpoint announced on that stream.
type HTTPTransport struct {
	host     string
	port     int
	server   *http.Server
	incoming chan *Request

	mu     sync.Mutex
	closed bool

	streamsMu sync.RWMutex
	streams   map[string]*sseStream
}

// sseStream is one connected SSE client.
type sseStream struct {
	id       string
	outbound chan *Response
	done     chan struct{}
}

// NewHTTPTransport creates a transport that will listen on host:port.
func NewHTTPTransport(host string, port int) *HTTPTransport {
	return &HTTPTransport{
		host:     host,
		port:     port,
		incoming: make(chan *Request, incomingBuffer),
		streams:  make(map[string]*sseStream),
	}
}

// Start brings up the HTTP listener and ties its lifetime to ctx.
func (t *HTTPTransport) Start(ctx context.Context) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return fmt.Errorf("transport is closed")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", t.handleSSE)
	mux.HandleFunc("/mcp/message", t.handleMessage)

	t.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", t.host, t.port),
		Handler: mux,
	}

	go func() {
		err := t.server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Printf("[HTTP] listener stopped: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		_ = t.Close()
	}()

	return nil
}

// handleSSE upgrades a GET request into an SSE stream and pumps responses
// to it until the client goes away or the transport closes.
func (t *HTTPTransport) handleSSE(w http.ResponseWriter, r *http.Request) {
	log.Printf("[HTTP] %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	stream := &sseStream{
		id:       uuid.NewString(),
		outbound: make(chan *Response, incomingBuffer),
		done:     make(chan struct{}),
	}
	t.streamsMu.Lock()
	t.streams[stream.id] = stream
	t.streamsMu.Unlock()

	// First event tells the client where to post its requests.
	fmt.Fprintf(w, "event: endpoint\ndata: /mcp/message?sessionId=%s\n\n", stream.id)
	flusher.Flush()
	log.Printf("[SSE] Session %s established", stream.id)

	keepAlive := time.NewTicker(30 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			// Client disconnected. Close owns stream.done, so only
			// deregister here.
			log.Printf("[SSE] Session %s disconnected", stream.id)
			t.streamsMu.Lock()
			delete(t.streams, stream.id)
			t.streamsMu.Unlock()
			return
		case <-stream.done:
			return
		case response := <-stream.outbound:
			data, err := json.Marshal(response)
			if err != nil {
				log.Printf("[SSE] Failed to marshal response: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", string(data))
			flusher.Flush()
		case <-keepAlive.C:
			fmt.Fprintf(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}

// handleMessage accepts a posted JSON-RPC request for an existing session.
// Processing is asynchronous: the HTTP response only acknowledges receipt,
// and the real answer arrives on the session's SSE stream.
func (t *HTTPTransport) handleMessage(w http.ResponseWriter, r *http.Request) {
	log.Printf("[HTTP] %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "Missing sessionId parameter", http.StatusBadRequest)
		return
	}

	t.streamsMu.RLock()
	stream, ok := t.streams[sessionID]
	t.streamsMu.RUnlock()
	if !ok {
		http.Error(w, "Invalid session", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req, id, rpcErr := decodeRequest(body)
	if rpcErr != nil {
		t.pushToStream(stream, errorResponse(id, rpcErr))
		w.WriteHeader(http.StatusAccepted)
		return
	}

	queued, err := t.enqueue(req)
	switch {
	case err != nil:
		http.Error(w, "Transport closed", http.StatusServiceUnavailable)
	case queued:
		w.WriteHeader(http.StatusAccepted)
	default:
		t.pushToStream(stream, errorResponse(req.ID,
			&Error{Code: InternalError, Message: "Internal error", Data: "request queue full"}))
		w.WriteHeader(http.StatusServiceUnavailable)
	}
}

// enqueue attempts a non-blocking handoff of req to the request channel.
// It holds the same lock Close takes before closing the channel, so a
// post racing a shutdown gets an error instead of a send on a closed
// channel. The second return is false when the queue is full.
func (t *HTTPTransport) enqueue(req *Request) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return false, fmt.Errorf("transport is closed")
	}

	select {
	case t.incoming <- req:
		return true, nil
	default:
		return false, nil
	}
}

// pushToStream queues a response on one stream, dropping it if the client
// is not draining its channel.
func (t *HTTPTransport) pushToStream(stream *sseStream, response *Response) {
	select {
	case stream.outbound <- response:
	default:
		log.Printf("[SSE] Failed to send to session %s: channel full", stream.id)
	}
}

// Send fans a response out to every connected SSE session. Fails when no
// client is connected.
func (t *HTTPTransport) Send(response *Response) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return fmt.Errorf("transport is closed")
	}

	if response.JSONRPC == "" {
		response.JSONRPC = "2.0"
	}

	t.streamsMu.RLock()
	defer t.streamsMu.RUnlock()

	if len(t.streams) == 0 {
		return fmt.Errorf("no active sessions")
	}
	for _, stream := range t.streams {
		t.pushToStream(stream, response)
	}
	return nil
}

// Receive returns the channel of incoming requests.
func (t *HTTPTransport) Receive() <-chan *Request {
	return t.incoming
}

// Close shuts down the listener, ends every SSE stream and closes the
// request channel.
func (t *HTTPTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	// Closing under mu serializes with enqueue, so no handler can be
	// mid-send on the channel here.
	close(t.incoming)
	t.mu.Unlock()

	t.streamsMu.Lock()
	for _, stream := range t.streams {
		close(stream.done)
	}
	t.streams = make(map[string]*sseStream)
	t.streamsMu.Unlock()

	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return t.server.Shutdown(ctx)
	}
	return nil
}

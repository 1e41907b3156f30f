package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"trello-mcp-server/internal/domain"
)

// maxConcurrentRequests bounds how many requests the server works on at
// once. Receiving blocks once the limit is reached.
const maxConcurrentRequests = 8

// Server owns the MCP request loop: it pulls JSON-RPC requests off the
// transport, answers the protocol methods itself and hands tools/call
// payloads to the router.
type Server struct {
	transport domain.Transport
	router    *RequestRouter
	mapper    domain.ResponseMapper
	config    *domain.Config
	logger    *StructuredLogger
}

// NewServer assembles a server from its collaborators. The mapper decides
// how taxonomy errors surface as JSON-RPC errors.
func NewServer(
	transport domain.Transport,
	router *RequestRouter,
	mapper domain.ResponseMapper,
	config *domain.Config,
) *Server {
	return &Server{
		transport: transport,
		router:    router,
		mapper:    mapper,
		config:    config,
		logger:    NewStructuredLogger(),
	}
}

// Start brings up the transport and launches the request loop.
func (s *Server) Start(ctx context.Context) error {
	if err := s.transport.Start(ctx); err != nil {
		s.logger.LogError("failed to start transport", err, map[string]interface{}{
			"transport_type": s.config.Transport.Type,
		})
		return fmt.Errorf("failed to start transport: %w", err)
	}

	s.logger.LogInfo("server started", map[string]interface{}{
		"transport_type": s.config.Transport.Type,
	})

	go s.processRequests(ctx)

	return nil
}

// processRequests drains the transport until it closes or the context is
// canceled. Requests run on a bounded worker group so one slow tool call
// does not stall the rest.
func (s *Server) processRequests(ctx context.Context) {
	reqChan := s.transport.Receive()

	var g errgroup.Group
	g.SetLimit(maxConcurrentRequests)
	defer g.Wait()

	for {
		select {
		case <-ctx.Done():
			s.logger.LogInfo("server shutting down", nil)
			return
		case req, ok := <-reqChan:
			if !ok {
				// transport shut down
				return
			}

			g.Go(func() error {
				s.handleRequest(ctx, req)
				return nil
			})
		}
	}
}

// handleRequest answers one JSON-RPC request end to end.
func (s *Server) handleRequest(ctx context.Context, req *domain.Request) {
	// Correlation ID ties together every log line for this request.
	correlationID := uuid.NewString()

	s.logger.LogInfo("received request", map[string]interface{}{
		"method":         req.Method,
		"request_id":     req.ID,
		"correlation_id": correlationID,
	})

	if err := s.validateRequest(req); err != nil {
		s.sendErrorResponse(req.ID, domain.InvalidRequest, "Invalid Request", err.Error())
		return
	}

	var response *domain.Response
	var err error

	switch req.Method {
	case "initialize":
		response, err = s.handleInitialize(req)
	case "tools/list":
		response, err = s.handleToolsList(req)
	case "tools/call":
		response, err = s.handleToolsCall(ctx, req, correlationID)
	default:
		s.sendErrorResponse(req.ID, domain.MethodNotFound, "Method not found", fmt.Sprintf("unknown method: %s", req.Method))
		return
	}

	if err != nil {
		s.logger.LogError("request processing failed", err, map[string]interface{}{
			"method":         req.Method,
			"request_id":     req.ID,
			"correlation_id": correlationID,
		})
		// the handler already sent an error response
		return
	}

	if err := s.transport.Send(response); err != nil {
		s.logger.LogError("failed to send response", err, map[string]interface{}{
			"request_id":     req.ID,
			"correlation_id": correlationID,
		})
	}
}

// validateRequest checks the protocol envelope before any dispatch.
func (s *Server) validateRequest(req *domain.Request) error {
	if req.JSONRPC != "2.0" {
		return fmt.Errorf("invalid jsonrpc version: %s", req.JSONRPC)
	}

	if req.Method == "" {
		return fmt.Errorf("method is required")
	}

	return nil
}

// handleInitialize answers the MCP handshake. Client params are accepted
// as-is; the reply advertises the tools capability and server identity.
func (s *Server) handleInitialize(req *domain.Request) (*domain.Response, error) {
	result := map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    "trello-mcp-server",
			"version": "1.0.0",
		},
	}

	return &domain.Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
	}, nil
}

// handleToolsList publishes every tool the router knows about.
func (s *Server) handleToolsList(req *domain.Request) (*domain.Response, error) {
	result := map[string]interface{}{
		"tools": s.router.ListAllTools(),
	}

	return &domain.Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
	}, nil
}

// handleToolsCall routes a tool invocation and reports its outcome, timing
// included, under the request's correlation ID.
func (s *Server) handleToolsCall(ctx context.Context, req *domain.Request, correlationID string) (*domain.Response, error) {
	toolReq, err := s.parseToolRequest(req.Params)
	if err != nil {
		s.sendErrorResponse(req.ID, domain.InvalidParams, "Invalid params", err.Error())
		return nil, err
	}

	// Credentials are resolved at the handler level.
	start := time.Now()
	toolResp, err := s.router.Route(ctx, toolReq)
	if err != nil {
		s.logger.LogError("tool execution failed", err, map[string]interface{}{
			"tool":           toolReq.Name,
			"request_id":     req.ID,
			"correlation_id": correlationID,
		})

		s.sendMappedError(req.ID, err)
		return nil, err
	}

	s.logger.LogInfo("tool execution completed", map[string]interface{}{
		"tool":           toolReq.Name,
		"request_id":     req.ID,
		"correlation_id": correlationID,
		"duration_ms":    time.Since(start).Milliseconds(),
	})

	return &domain.Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  toolResp,
	}, nil
}

// parseToolRequest decodes the params field into a ToolRequest. The value
// is round-tripped through JSON so raw maps and typed structs both work.
func (s *Server) parseToolRequest(params interface{}) (*domain.ToolRequest, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required for tools/call")
	}

	jsonData, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	var toolReq domain.ToolRequest
	if err := json.Unmarshal(jsonData, &toolReq); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tool request: %w", err)
	}

	if toolReq.Name == "" {
		return nil, fmt.Errorf("tool name is required")
	}

	if toolReq.Arguments == nil {
		toolReq.Arguments = make(map[string]interface{})
	}

	return &toolReq, nil
}

// sendErrorResponse writes an error envelope straight to the transport.
func (s *Server) sendErrorResponse(id interface{}, code int, message string, data interface{}) {
	response := &domain.Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &domain.Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}

	if err := s.transport.Send(response); err != nil {
		s.logger.LogError("failed to send error response", err, map[string]interface{}{
			"request_id":    id,
			"error_code":    code,
			"error_message": message,
		})
	}
}

// sendMappedError pushes a taxonomy error through the response mapper
// before sending it, so clients get stable codes instead of Go error text.
func (s *Server) sendMappedError(id interface{}, err error) {
	rpcErr := s.mapper.MapError(err)
	s.sendErrorResponse(id, rpcErr.Code, rpcErr.Message, rpcErr.Data)
}

// Close shuts the transport down, which unblocks the request loop.
func (s *Server) Close() error {
	s.logger.LogInfo("closing server", nil)
	return s.transport.Close()
}

// StructuredLogger emits one JSON object per log line on the standard
// logger, keeping stdout free for protocol traffic.
type StructuredLogger struct {
	logger *log.Logger
}

// NewStructuredLogger creates a logger writing to log.Default.
func NewStructuredLogger() *StructuredLogger {
	return &StructuredLogger{
		logger: log.Default(),
	}
}

// LogInfo records an informational event with structured context.
func (l *StructuredLogger) LogInfo(message string, context map[string]interface{}) {
	entry := l.buildLogEntry("INFO", message, nil, context)
	l.logger.Println(entry)
}

// LogError records a failure with structured context.
func (l *StructuredLogger) LogError(message string, err error, context map[string]interface{}) {
	entry := l.buildLogEntry("ERROR", message, err, context)
	l.logger.Println(entry)
}

// buildLogEntry renders one log line as compact JSON.
func (l *StructuredLogger) buildLogEntry(level, message string, err error, context map[string]interface{}) string {
	entry := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"level":     level,
		"message":   message,
	}

	if err != nil {
		entry["error"] = err.Error()
	}

	for k, v := range context {
		entry[k] = v
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"level":"ERROR","message":"failed to marshal log entry","error":"%s"}`, err.Error())
	}

	return string(jsonData)
}

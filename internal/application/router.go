package application

import (
	"context"
	"fmt"
	"strings"

	"trello-mcp-server/internal/domain"
)

// RequestRouter dispatches tool calls to the handler owning the tool's
// resource. Tool names are "<handler>_<operation>", so "card_add_label"
// lands on the handler registered as "card".
type RequestRouter struct {
	handlers map[string]domain.ToolHandler
}

// NewRequestRouter registers each handler under its ToolName identifier.
func NewRequestRouter(handlers ...domain.ToolHandler) *RequestRouter {
	router := &RequestRouter{handlers: make(map[string]domain.ToolHandler, len(handlers))}
	for _, handler := range handlers {
		router.handlers[handler.ToolName()] = handler
	}
	return router
}

// Route finds the handler for a tool request and delegates to it. Unroutable
// names come back as JSON-RPC errors so the server can pass them through
// unchanged.
func (r *RequestRouter) Route(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	prefix := r.extractHandlerName(req.Name)
	if prefix == "" {
		return nil, &domain.Error{
			Code:    domain.InvalidParams,
			Message: fmt.Sprintf("invalid tool name format: %s (expected format: <handler>_<operation>)", req.Name),
		}
	}

	handler, ok := r.handlers[prefix]
	if !ok {
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown tool: %s (no handler registered for '%s')", req.Name, prefix),
		}
	}

	return handler.Handle(ctx, req)
}

// ListAllTools collects the tool definitions of every registered handler,
// for tools/list discovery.
func (r *RequestRouter) ListAllTools() []domain.ToolDefinition {
	var all []domain.ToolDefinition
	for _, handler := range r.handlers {
		all = append(all, handler.ListTools()...)
	}
	return all
}

// extractHandlerName returns the handler prefix of a tool name, or "" when
// the name has no underscore separator.
func (r *RequestRouter) extractHandlerName(toolName string) string {
	prefix, _, found := strings.Cut(toolName, "_")
	if !found {
		return ""
	}
	return prefix
}

// GetHandler looks up a handler by its registered name.
func (r *RequestRouter) GetHandler(handlerName string) (domain.ToolHandler, bool) {
	handler, ok := r.handlers[handlerName]
	return handler, ok
}

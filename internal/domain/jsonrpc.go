package domain

// Request is an incoming JSON-RPC 2.0 message. ID stays untyped because
// clients legally send strings, numbers or null.
type Request struct {
	JSONRPC string      `json:"jsonrpc"` // always "2.0"
	ID      interface{} `json:"id,omitempty"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// Response is an outgoing JSON-RPC 2.0 message. Exactly one of Result and
// Error is populated.
type Response struct {
	JSONRPC string      `json:"jsonrpc"` // always "2.0"
	ID      interface{} `json:"id,omitempty"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Error codes. The -327xx values come from the JSON-RPC 2.0 spec; the
// -320xx range is reserved for this server.
const (
	ParseError     = -32700 // Invalid JSON received
	InvalidRequest = -32600 // Invalid JSON-RPC request structure
	MethodNotFound = -32601 // Unknown MCP method
	InvalidParams  = -32602 // Invalid method parameters
	InternalError  = -32603 // Server internal error

	ConfigurationError  = -32001 // Configuration validation failed
	AuthenticationError = -32002 // Trello credentials missing or rejected
	TrelloAPIError      = -32003 // Trello API returned an error
	NetworkError        = -32004 // Network connectivity issue
	RateLimitExceeded   = -32005 // Trello API rate limit exceeded
)

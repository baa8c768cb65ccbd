package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/desertthunder/amp/internal/shared"
	"github.com/desertthunder/amp/internal/tools"
)

// latestProtocolVersion is the version advertised in initialize responses.
const latestProtocolVersion = "2025-03-26"

// MaxMessageSize is the maximum allowed size for a single message (1MB).
const MaxMessageSize = 1 << 20

// JSON-RPC 2.0 types

// JSONRPCRequest represents a JSON-RPC 2.0 request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC 2.0 error object.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Standard JSON-RPC error codes
const (
	JSONRPCParseError     = -32700
	JSONRPCInvalidRequest = -32600
	JSONRPCMethodNotFound = -32601
	JSONRPCInvalidParams  = -32602
	JSONRPCInternalError  = -32603
)

// MCP-specific types

// MCPToolInfo represents an MCP tool definition.
type MCPToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// MCPListToolsResult is the result for tools/list.
type MCPListToolsResult struct {
	Tools []MCPToolInfo `json:"tools"`
}

// MCPCallToolParams are the params for tools/call.
type MCPCallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// MCPCallToolResult is the result for tools/call.
type MCPCallToolResult struct {
	Content []MCPContent `json:"content"`
	IsError bool         `json:"isError,omitempty"`
}

// MCPContent represents content in a tool result.
type MCPContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Config holds configuration for the MCP server.
type Config struct {
	Registry *tools.Registry
	Logger   *log.Logger
	In       io.Reader
	Out      io.Writer
	Name     string
	Version  string
}

// Server speaks MCP over a newline-delimited JSON-RPC stdio transport.
// The transport carries a single peer, so there is no session bookkeeping.
type Server struct {
	registry *tools.Registry
	logger   *log.Logger
	in       io.Reader
	out      io.Writer
	name     string
	version  string
	mu       sync.Mutex // serializes writes to out
}

// NewServer creates a new MCP server with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}
	if cfg.In == nil || cfg.Out == nil {
		return nil, errors.New("in and out streams are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	name := cfg.Name
	if name == "" {
		name = "amp"
	}
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}

	return &Server{
		registry: cfg.Registry,
		logger:   logger,
		in:       cfg.In,
		out:      cfg.Out,
		name:     name,
		version:  version,
	}, nil
}

// Run reads messages until the input stream closes or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxMessageSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		s.handleMessage(ctx, line)
	}

	if err := scanner.Err(); err != nil {
		s.logger.Error("transport read failed", "error", err)
		return err
	}
	return nil
}

// handleMessage parses and dispatches a single message, writing at most one
// response to the output stream.
func (s *Server) handleMessage(ctx context.Context, line []byte) {
	var req JSONRPCRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn("unparseable message", "error", err)
		s.sendError(nil, JSONRPCParseError, "parse error", nil)
		return
	}

	if req.JSONRPC != "2.0" {
		s.sendError(req.ID, JSONRPCInvalidRequest, "jsonrpc must be \"2.0\"", nil)
		return
	}

	// Notifications get no response, success or not.
	if isNotification(req.ID) {
		if strings.HasPrefix(req.Method, "notifications/") {
			s.logger.Debug("accepted notification", "method", req.Method)
		} else {
			s.logger.Warn("notification for non-notification method", "method", req.Method)
		}
		return
	}

	s.logger.Debug("request", "method", req.Method)

	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "ping":
		s.sendResult(req.ID, map[string]any{})
	case "tools/list":
		s.handleToolsList(req)
	case "tools/call":
		s.handleToolsCall(ctx, req)
	default:
		s.sendError(req.ID, JSONRPCMethodNotFound, "method not found", nil)
	}
}

// handleInitialize handles the MCP initialize handshake.
func (s *Server) handleInitialize(req JSONRPCRequest) {
	s.logger.Info("client initialized", "protocol_version", latestProtocolVersion)

	result := map[string]any{
		"protocolVersion": latestProtocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    s.name,
			"version": s.version,
		},
	}
	s.sendResult(req.ID, result)
}

// handleToolsList handles tools/list requests.
func (s *Server) handleToolsList(req JSONRPCRequest) {
	defs := s.registry.List()

	result := MCPListToolsResult{
		Tools: make([]MCPToolInfo, len(defs)),
	}
	for i, t := range defs {
		result.Tools[i] = MCPToolInfo{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}
	}

	s.logger.Debug("tools/list", "count", len(defs))
	s.sendResult(req.ID, result)
}

// handleToolsCall handles tools/call requests. Tool execution failures are
// reported as isError results so the caller can show them to the model;
// protocol-level problems (bad params, unknown tool) stay JSON-RPC errors.
func (s *Server) handleToolsCall(ctx context.Context, req JSONRPCRequest) {
	var params MCPCallToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendError(req.ID, JSONRPCInvalidParams, "invalid params", nil)
			return
		}
	}

	if params.Name == "" {
		s.sendError(req.ID, JSONRPCInvalidParams, "tool name is required", nil)
		return
	}

	if _, ok := s.registry.Get(params.Name); !ok {
		s.sendError(req.ID, JSONRPCInvalidParams, "tool not found", nil)
		return
	}

	requestID := uuid.New().String()
	s.logger.Debug("tools/call", "tool_name", params.Name, "request_id", requestID)

	text, err := s.registry.Call(ctx, params.Name, params.Arguments)

	var result MCPCallToolResult
	if err != nil {
		result = MCPCallToolResult{
			Content: []MCPContent{{Type: "text", Text: err.Error()}},
			IsError: true,
		}
	} else {
		result = MCPCallToolResult{
			Content: []MCPContent{{Type: "text", Text: text}},
		}
	}

	s.logger.Debug("tools/call complete",
		"tool_name", params.Name,
		"request_id", requestID,
		"is_error", result.IsError,
	)
	s.sendResult(req.ID, result)
}

// isNotification reports whether the request carries no usable id. JSON-RPC
// treats an explicit null id the same as an absent one.
func isNotification(id json.RawMessage) bool {
	return len(id) == 0 || string(id) == "null"
}

func (s *Server) sendResult(id json.RawMessage, result any) {
	s.write(JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) sendError(id json.RawMessage, code int, message string, data any) {
	s.write(JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &JSONRPCError{Code: code, Message: message, Data: data},
	})
}

func (s *Server) write(resp JSONRPCResponse) {
	buf, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("marshal response failed", "error", err)
		return
	}
	buf = append(buf, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(buf); err != nil {
		s.logger.Error("transport write failed", "error", err)
	}
}

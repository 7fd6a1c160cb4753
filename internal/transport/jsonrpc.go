package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// JSON-RPC 2.0 error codes.
const (
	ErrParseCode      = -32700
	ErrInvalidReq     = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603
	// ErrApplication carries a command error; the API error is in data.
	ErrApplication = -32000
)

// Commands are small; imports go through POST /import.
const maxRPCBytes = 8 << 20

var (
	// ErrParse reports a body that is not JSON.
	ErrParse = errors.New("parse error")
	// ErrInvalidRequest reports JSON that is not a single JSON-RPC 2.0 request.
	ErrInvalidRequest = errors.New("invalid request")
)

// Request is one tracker command in a JSON-RPC 2.0 envelope.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// Response carries either the command result or an error.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id,omitempty"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ParseRequest decodes one request. Malformed JSON wraps ErrParse; batches
// and envelopes without a method or version wrap ErrInvalidRequest.
func ParseRequest(body io.Reader) (Request, error) {
	var req Request
	if err := json.NewDecoder(io.LimitReader(body, maxRPCBytes)).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Request{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return Request{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	switch {
	case req.JSONRPC != "2.0":
		return Request{}, fmt.Errorf("%w: jsonrpc must be \"2.0\"", ErrInvalidRequest)
	case req.Method == "":
		return Request{}, fmt.Errorf("%w: method is required", ErrInvalidRequest)
	}
	return req, nil
}

// WriteResult writes a success response.
func WriteResult(w http.ResponseWriter, id any, result any) {
	writeJSONBody(w, http.StatusOK, Response{JSONRPC: "2.0", Result: result, ID: id})
}

// WriteError writes an error response. JSON-RPC errors travel with status 200.
func WriteError(w http.ResponseWriter, id any, code int, message string, data any) {
	writeJSONBody(w, http.StatusOK, Response{
		JSONRPC: "2.0",
		Error:   &Error{Code: code, Message: message, Data: data},
		ID:      id,
	})
}

// Package dispatch composes every kernel component behind the single
// command surface the UI talks to: each command parses its payload,
// consults the state kernel and path gate as needed, invokes the
// component operation, and wraps the outcome in a uniform envelope.
// The shape mirrors the teacher's JSON-RPC handler (internal/mcp:
// parse params, dispatch by method name, render a typed result or
// error) generalized from one wire protocol to command/payload pairs
// usable over both a REST router and an in-process call.
package dispatch

import (
	"github.com/ternarybob/syntari-kernel/internal/kernelerrors"
)

// Envelope is the `{success, data?, error?}` contract every command
// returns.
type Envelope struct {
	Success bool          `json:"success"`
	Data    any           `json:"data,omitempty"`
	Error   *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload renders a kernelerrors.Error for the wire: stable
// category and code, human message, offending path when known, and a
// recoverability hint for UI/logging purposes only.
type ErrorPayload struct {
	Category    string `json:"category"`
	Code        string `json:"code"`
	Message     string `json:"message"`
	Path        string `json:"path,omitempty"`
	Recoverable bool   `json:"recoverable"`
}

// Ok wraps a successful result.
func Ok(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Fail renders err into an envelope. Non-kernel errors are wrapped as
// Internal/UNKNOWN_ERROR so every failure still carries a category and
// a stable code.
func Fail(err error) Envelope {
	ke, ok := err.(*kernelerrors.Error)
	if !ok {
		ke = kernelerrors.Wrap(kernelerrors.Internal, "UNKNOWN_ERROR", err.Error(), err)
	}
	return Envelope{
		Success: false,
		Error: &ErrorPayload{
			Category:    string(ke.Category),
			Code:        ke.Code,
			Message:     ke.Error(),
			Path:        ke.Ctx.Path,
			Recoverable: ke.Category.Recoverable(),
		},
	}
}

// From renders (data, err) into an envelope in one call, the common
// shape every handler function returns to its command wrapper.
func From(data any, err error) Envelope {
	if err != nil {
		return Fail(err)
	}
	return Ok(data)
}

package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion lets clients detect envelope format changes.
const envelopeVersion = 1

// envelopeError carries error information inside the response envelope.
type envelopeError struct {
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// envelope is the uniform response wrapper. Every JSON response carries
// exactly one of Data or Error.
type envelope struct {
	V       int            `json:"v" doc:"Envelope format version"`
	Success bool           `json:"success" doc:"Whether the request succeeded"`
	Data    any            `json:"data,omitempty" doc:"Response payload"`
	Error   *envelopeError `json:"error,omitempty" doc:"Error information"`
}

// EnvelopeTransformer wraps every response body in the shared envelope.
// Registered as a huma transformer so handlers return plain bodies.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &envelope{
			V:       envelopeVersion,
			Success: false,
			Error: &envelopeError{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			},
		}, nil
	}

	code, err := strconv.Atoi(status)
	if err != nil {
		code = 200
	}

	return &envelope{
		V:       envelopeVersion,
		Success: code < 400,
		Data:    v,
	}, nil
}

package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped when the envelope structure changes so clients
// can detect incompatible servers.
const envelopeVersion = 1

// Envelope is the uniform JSON wrapper around every API response body.
type Envelope struct {
	V       int       `json:"v" doc:"Envelope version"`
	Success bool      `json:"success" doc:"Whether the request succeeded"`
	Data    any       `json:"data,omitempty" doc:"Response payload"`
	Error   *APIError `json:"error,omitempty" doc:"Error details when success is false"`
}

// EnvelopeTransformer wraps all huma response bodies in the shared envelope.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr,
		}, nil
	}

	// Error statuses normally carry an *APIError; anything else only has
	// its message to offer.
	if !strings.HasPrefix(status, "2") {
		if err, ok := v.(error); ok {
			return &Envelope{
				V:       envelopeVersion,
				Success: false,
				Error:   &APIError{Message: err.Error()},
			}, nil
		}
	}

	return &Envelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}

package api

import "github.com/danielgtaylor/huma/v2"

// envelope is the versioned wire wrapper every response body is
// transformed into. Clients key off "v" and "success" before touching
// the payload.
type envelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// EnvelopeTransformer wraps every huma response body in the envelope.
// Error bodies (APIError) keep their code at the top level.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	if apiErr, ok := v.(*APIError); ok {
		return &envelope{
			V:       1,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
		}, nil
	}

	success := len(status) > 0 && status[0] == '2'
	return &envelope{
		V:       1,
		Success: success,
		Data:    v,
	}, nil
}

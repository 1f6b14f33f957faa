package types

import "encoding/json"

// Envelope is the success wrapper every backend endpoint responds with.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

package main

import (
	"github.com/pulsovital/financials/finance"
)

// API Request and Response Models

// ComputeRequest documents the canonical request body for /compute. The
// handler does not bind to it directly: real clients send the document in
// several broken encodings, so the body goes through payload.Decode instead.
type ComputeRequest struct {
	DatosCrudos map[string]any `json:"datos_crudos"`
	Flags       map[string]any `json:"flags,omitempty"`
}

// ComputeResponse is the /compute response envelope.
type ComputeResponse struct {
	Raw       finance.Metrics   `json:"raw"`
	Formatted finance.Formatted `json:"formatted"`
	Notes     []string          `json:"notes"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"`
}

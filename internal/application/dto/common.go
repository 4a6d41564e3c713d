package dto

// ErrorResponse HTTP error body. Errors lists the individual validation
// messages when there are several.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// HealthResponse body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database bool   `json:"database"`
}

package model

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// ThemesResponse lists the available document themes
type ThemesResponse struct {
	Default string   `json:"default"`
	Themes  []string `json:"themes"`
}

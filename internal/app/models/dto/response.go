package dto

import "time"

// APIResponse is the envelope of every JSON response
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message,omitempty" example:"Department created successfully"`
	Count     *int         `json:"count,omitempty" example:"3"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps a single payload
func NewSuccessResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewListResponse wraps a list payload together with its length
func NewListResponse(data interface{}, count int) APIResponse {
	return APIResponse{
		Success:   true,
		Count:     &count,
		Data:      data,
		Timestamp: time.Now(),
	}
}

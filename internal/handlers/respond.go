package handlers

import "github.com/labstack/echo/v4"

// Envelope is the uniform JSON wrapper for all API responses
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// Pagination describes one page of a feed listing
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalPosts  int64 `json:"totalPosts"`
	HasMore     bool  `json:"hasMore"`
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

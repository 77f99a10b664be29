package utils

import "github.com/labstack/echo/v4"

// Envelope is the uniform response wrapper returned by every endpoint.
// Success mirrors the HTTP status (2xx -> true); Errors carries
// field-level validation messages and is omitted when empty.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    any                 `json:"data"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Respond writes the standard envelope with the given status, data and
// message.
func Respond(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, Envelope{
		Success: status >= 200 && status < 300,
		Message: message,
		Data:    data,
	})
}

// ValidationFailed writes a 400 envelope carrying field-level error
// messages, e.g. {"email": ["The email has already been taken."]}.
func ValidationFailed(c echo.Context, errs map[string][]string) error {
	return c.JSON(400, Envelope{
		Success: false,
		Message: "Validation Error",
		Errors:  errs,
	})
}

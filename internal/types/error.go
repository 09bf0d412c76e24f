package types

import "fmt"

// CustomError carries the HTTP status and a machine-readable category
// alongside the message. Middleware and handlers return it instead of
// writing a response; the app-level error handler maps it onto the JSON
// error envelope.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%s (%d, type %s)", e.Message, e.Code, e.Type)
}

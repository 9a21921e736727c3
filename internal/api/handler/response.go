package handler

import (
	"github.com/labstack/echo/v4"
)

// envelope is the {success, message, data} wrapper every endpoint returns.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

// bindAndValidate decodes the request body into req and runs the echo
// validator. Both failures surface as 422 through the error handler.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return invalid("Données invalides.")
	}
	if err := c.Validate(req); err != nil {
		return invalid(err.Error())
	}
	return nil
}

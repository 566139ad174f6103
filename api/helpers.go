package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Error    string `json:"error"`
	Guidance string `json:"guidance,omitempty"`
}

func errorJSON(c echo.Context, status int, message, guidance string) error {
	return c.JSON(status, errorBody{Error: message, Guidance: guidance})
}

func badRequest(c echo.Context, message string) error {
	return errorJSON(c, http.StatusBadRequest, message, "")
}

package contentapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// envelope is the JSON shape every endpoint returns. Blog endpoints report
// failures in Error, contact endpoints in Message; the contact list also
// carries Count. The admin UI and public site both depend on this layout.
type envelope struct {
	Success bool   `json:"success"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondData(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

func respondList(c echo.Context, count int, data any) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Count: &count, Data: data})
}

func respondMessage(c echo.Context, status int, msg string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: msg, Data: data})
}

// respondError writes a blog-style failure, deriving the status code from the
// error taxonomy.
func respondError(c echo.Context, err error) error {
	return c.JSON(httpStatus(err), envelope{Success: false, Error: publicMessage(err)})
}

// respondFail writes a contact-style failure with the text in the message
// field.
func respondFail(c echo.Context, err error) error {
	return c.JSON(httpStatus(err), envelope{Success: false, Message: publicMessage(err)})
}

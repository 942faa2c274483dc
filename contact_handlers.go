package contentapi

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// emailRe is deliberately loose: something, an @, something, a dot,
// something. The contact form is not an address verifier.
var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type contactForm struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Email   string `json:"email" form:"email" validate:"required"`
	Subject string `json:"subject" form:"subject" validate:"required"`
	Message string `json:"message" form:"message" validate:"required"`
}

func (a *App) handleCreateContact(c echo.Context) error {
	var f contactForm
	if err := c.Bind(&f); err != nil {
		return respondFail(c, validationf("All fields are required"))
	}
	if err := a.validate.Struct(&f); err != nil {
		return respondFail(c, validationf("All fields are required"))
	}
	if !emailRe.MatchString(f.Email) {
		return respondFail(c, validationf("Please enter a valid email address"))
	}

	msg := ContactMessage{
		ID:        uuid.NewString(),
		Name:      f.Name,
		Email:     f.Email,
		Subject:   f.Subject,
		Message:   f.Message,
		Status:    ContactStatusNew,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.Store.InsertMessage(c.Request().Context(), msg); err != nil {
		return respondFail(c, err)
	}
	return respondMessage(c, http.StatusCreated, "Message sent successfully", msg)
}

func (a *App) handleListContacts(c echo.Context) error {
	msgs, err := a.Store.ListMessages(c.Request().Context())
	if err != nil {
		return respondFail(c, err)
	}
	if msgs == nil {
		msgs = []ContactMessage{}
	}
	return respondList(c, len(msgs), msgs)
}

func (a *App) handleGetContact(c echo.Context) error {
	msg, err := a.Store.GetMessage(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return respondFail(c, notFound("Message not found"))
		}
		return respondFail(c, err)
	}
	return respondData(c, http.StatusOK, msg)
}

func (a *App) handleUpdateContactStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status" form:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return respondFail(c, validationf("Invalid status value"))
	}
	if !ValidContactStatus(req.Status) {
		return respondFail(c, validationf("Invalid status value"))
	}
	msg, err := a.Store.UpdateMessageStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return respondFail(c, notFound("Message not found"))
		}
		return respondFail(c, err)
	}
	return respondMessage(c, http.StatusOK, "Status updated successfully", msg)
}

func (a *App) handleDeleteContact(c echo.Context) error {
	err := a.Store.DeleteMessage(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return respondFail(c, notFound("Message not found"))
		}
		return respondFail(c, err)
	}
	return respondMessage(c, http.StatusOK, "Message deleted successfully", nil)
}

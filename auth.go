package contentapi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

func (a *App) handleLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, envelope{Success: false, Error: "too many login attempts, try again later"})
	}
	var req struct {
		Password string `json:"password" form:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, validationf("password is required"))
	}
	if !a.checkPassword(req.Password) {
		return c.JSON(http.StatusUnauthorized, envelope{Success: false, Error: "invalid credentials"})
	}
	if err := setAdminSession(c); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Logged in successfully", nil)
}

func (a *App) handleLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Logged out successfully", nil)
}

// checkPassword accepts either a bcrypt hash or a plain secret in the
// configured admin password; plain comparison is constant-time.
func (a *App) checkPassword(pass string) bool {
	cfgPass := a.Config.AdminPassword
	if strings.HasPrefix(cfgPass, "$2a$") || strings.HasPrefix(cfgPass, "$2b$") || strings.HasPrefix(cfgPass, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(cfgPass), []byte(pass)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(pass), []byte(cfgPass)) == 1
}

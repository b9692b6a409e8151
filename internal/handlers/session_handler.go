package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
)

type SessionHandler struct {
	Session *session.Manager
}

type loginRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type loginResponse struct {
	User     models.User `json:"user"`
	Location string      `json:"location"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (h *SessionHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Session.Snapshot())
}

func (h *SessionHandler) Hydrate(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Session.Hydrate(c.Request().Context()))
}

func (h *SessionHandler) Login(c echo.Context) error {
	const name = "session.login"
	var req loginRequest
	if err := bind(c, name, &req); err != nil {
		return err
	}
	u, err := h.Session.Login(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		return fail(c, name, err)
	}
	return c.JSON(http.StatusOK, loginResponse{User: u, Location: guard.Home(u.Role)})
}

func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.Session.Logout(c.Request().Context()); err != nil {
		return fail(c, "session.logout", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) Signup(c echo.Context) error {
	const name = "session.signup"
	var req models.Registration
	if err := bind(c, name, &req); err != nil {
		return err
	}
	if err := h.Session.Signup(c.Request().Context(), req); err != nil {
		return fail(c, name, err)
	}
	return c.NoContent(http.StatusAccepted)
}

func (h *SessionHandler) VerifyActivationOTP(c echo.Context) error {
	const name = "session.activate"
	var req otpRequest
	if err := bind(c, name, &req); err != nil {
		return err
	}
	if err := h.Session.VerifyActivationOTP(c.Request().Context(), req.Email, req.OTP); err != nil {
		return fail(c, name, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) ResendActivationOTP(c echo.Context) error {
	const name = "session.resend_otp"
	var req emailRequest
	if err := bind(c, name, &req); err != nil {
		return err
	}
	if err := h.Session.ResendActivationOTP(c.Request().Context(), req.Email); err != nil {
		return fail(c, name, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) PasswordResetEmail(c echo.Context) error {
	const name = "session.reset_email"
	var req emailRequest
	if err := bind(c, name, &req); err != nil {
		return err
	}
	if err := h.Session.PasswordResetVerifyEmail(c.Request().Context(), req.Email); err != nil {
		return fail(c, name, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) PasswordResetOTP(c echo.Context) error {
	const name = "session.reset_otp"
	var req otpRequest
	if err := bind(c, name, &req); err != nil {
		return err
	}
	if err := h.Session.PasswordResetVerifyOTP(c.Request().Context(), req.Email, req.OTP); err != nil {
		return fail(c, name, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) PasswordResetConfirm(c echo.Context) error {
	const name = "session.reset_confirm"
	var req struct {
		Email        string `json:"email"`
		NewPassword1 string `json:"new_password1"`
		NewPassword2 string `json:"new_password2"`
	}
	if err := bind(c, name, &req); err != nil {
		return err
	}
	if err := h.Session.PasswordResetConfirm(c.Request().Context(), req.Email, req.NewPassword1, req.NewPassword2); err != nil {
		return fail(c, name, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) ChangePassword(c echo.Context) error {
	const name = "session.change_password"
	var req struct {
		OldPassword     string `json:"old_password"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := bind(c, name, &req); err != nil {
		return err
	}
	if err := h.Session.ChangePassword(c.Request().Context(), req.OldPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return fail(c, name, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) UpdateProfile(c echo.Context) error {
	const name = "session.update_profile"
	var patch models.ProfilePatch
	if err := bind(c, name, &patch); err != nil {
		return err
	}
	u, err := h.Session.UpdateProfile(c.Request().Context(), patch)
	if err != nil {
		return fail(c, name, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *SessionHandler) DeleteAccount(c echo.Context) error {
	if err := h.Session.DeleteAccount(c.Request().Context()); err != nil {
		return fail(c, "session.delete_account", err)
	}
	return c.NoContent(http.StatusNoContent)
}

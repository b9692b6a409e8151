package apiclient

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/models"
)

const profilePath = "/auth/me/profile"

type Message struct {
	Message string `json:"message,omitempty"`
}

type emailBody struct {
	Email string `json:"email"`
}

type otpBody struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type loginBody struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type loginResponse struct {
	Access  string `json:"access"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

func (c *Client) Signup(ctx context.Context, r models.Registration) (Message, error) {
	var out Message
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/signup/", body: r}, &out)
	return out, err
}

func (c *Client) VerifyActivationOTP(ctx context.Context, email, otp string) (Message, error) {
	var out Message
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/activate_verify_otp/", body: otpBody{email, otp}}, &out)
	return out, err
}

func (c *Client) ResendActivationOTP(ctx context.Context, email string) (Message, error) {
	var out Message
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/activate_resend_otp/", body: emailBody{email}}, &out)
	return out, err
}

// ExchangeCredentials is the first half of login: it only obtains a token.
// The backend rejects bad credentials with 400, which is reported as invalid credentials.
func (c *Client) ExchangeCredentials(ctx context.Context, email, password string, role models.Role) (string, error) {
	var out loginResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/login/",
		body:   loginBody{Email: email, Password: password, Role: role},
	}, &out)
	if err != nil {
		if e := apperr.Normalize(err); e.Kind == apperr.KindValidation && e.Status == http.StatusBadRequest {
			ic := apperr.InvalidCredentials(e.Message)
			ic.Status = e.Status
			return "", ic
		}
		return "", err
	}
	token := out.Access
	if token == "" {
		token = out.Token
	}
	if token == "" {
		return "", apperr.Failed("login response did not include a token", nil)
	}
	return token, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/auth/logout/", token: token}, nil)
}

func (c *Client) FetchProfile(ctx context.Context, token string) (models.User, error) {
	var u models.User
	err := c.do(ctx, call{method: http.MethodGet, path: profilePath, token: token}, &u)
	return u, err
}

// UpdateProfile accepts both a bare user and the {"status","message","data"} envelope.
func (c *Client) UpdateProfile(ctx context.Context, token string, patch models.ProfilePatch) (models.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodPatch, path: profilePath, token: token, body: patch}, &raw); err != nil {
		return models.User{}, err
	}
	var env struct {
		Data *models.User `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return *env.Data, nil
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return models.User{}, apperr.Failed("unexpected response from server", err)
	}
	return u, nil
}

func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: profilePath, token: token}, nil)
}

func (c *Client) PasswordResetVerifyEmail(ctx context.Context, email string) (Message, error) {
	var out Message
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/password_reset_verify_email/", body: emailBody{email}}, &out)
	return out, err
}

func (c *Client) PasswordResetVerifyOTP(ctx context.Context, email, otp string) (Message, error) {
	var out Message
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/password_reset_verify_otp/", body: otpBody{email, otp}}, &out)
	return out, err
}

func (c *Client) PasswordResetConfirm(ctx context.Context, email, newPassword1, newPassword2 string) (Message, error) {
	var out Message
	body := map[string]string{
		"email":         email,
		"new_password1": newPassword1,
		"new_password2": newPassword2,
	}
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/password_reset_confirm/", body: body}, &out)
	return out, err
}

func (c *Client) ChangePassword(ctx context.Context, token, oldPassword, newPassword, confirmPassword string) (Message, error) {
	var out Message
	body := map[string]string{
		"old_password":     oldPassword,
		"new_password":     newPassword,
		"confirm_password": confirmPassword,
	}
	err := c.do(ctx, call{method: http.MethodPut, path: "/auth/me/change_password/", token: token, body: body}, &out)
	return out, err
}

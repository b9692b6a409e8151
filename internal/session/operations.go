package session

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/internal/validate"
)

// Login exchanges credentials for a token, then fetches the profile with it.
// The profile role must match the requested role, otherwise the login is treated
// as invalid credentials and the token is thrown away. A failed attempt leaves
// the current session, if any, untouched.
func (m *Manager) Login(ctx context.Context, email, password string, role models.Role) (models.User, error) {
	if err := validate.Credentials(email, password, role); err != nil {
		return models.User{}, m.fail(ctx, "login", err)
	}
	done, err := m.guard.begin("login")
	if err != nil {
		return models.User{}, err
	}
	defer done()

	token, err := m.api.ExchangeCredentials(ctx, email, password, role)
	if err != nil {
		return models.User{}, m.fail(ctx, "login", err)
	}

	u, err := m.api.FetchProfile(ctx, token)
	if err != nil {
		return models.User{}, m.fail(ctx, "login", err)
	}

	if u.Role.Tier() != role.Tier() {
		m.logger.Info("login_rejected", "reason", "role mismatch", "requested", role, "actual", u.Role)
		return models.User{}, m.fail(ctx, "login", apperr.InvalidCredentials("invalid credentials for the selected role"))
	}

	m.commit.Lock()
	if m.tokens != nil {
		if err := m.tokens.Save(ctx, token); err != nil {
			m.commit.Unlock()
			return models.User{}, m.fail(ctx, "login", apperr.Failed("could not store session", err))
		}
	}
	m.setAuthenticated(token, u)
	m.commit.Unlock()

	msg := "Welcome back!"
	if u.FirstName != "" {
		msg = fmt.Sprintf("Welcome back, %s!", u.FirstName)
	}
	m.logger.Info("login_succeeded", "user_id", u.ID, "role", u.Role)
	m.notify(ctx, notify.KindSuccess, "session.logged_in", msg, map[string]any{"user_id": u.ID})
	return u, nil
}

// Logout always ends in the anonymous state. The remote call is best effort.
func (m *Manager) Logout(ctx context.Context) error {
	done, err := m.guard.begin("logout")
	if err != nil {
		return err
	}
	defer done()

	token, u, authErr := m.requireToken()
	if authErr == nil {
		if err := m.api.Logout(ctx, token); err != nil {
			m.logger.Warn("logout_remote_failed", "user_id", u.ID, "error", err)
		}
	}
	m.dropSession(ctx, "logout")
	m.notify(ctx, notify.KindSuccess, "session.logged_out", "Logged out successfully", map[string]any{"user_id": u.ID})
	return nil
}

// DeleteAccount clears local state even when the backend call fails; the remote
// error is still returned so the UI can tell the user.
func (m *Manager) DeleteAccount(ctx context.Context) error {
	token, u, err := m.requireToken()
	if err != nil {
		return m.fail(ctx, "delete_account", err)
	}
	done, err := m.guard.begin("delete_account")
	if err != nil {
		return err
	}
	defer done()

	remoteErr := m.api.DeleteAccount(ctx, token)
	m.dropSession(ctx, "delete_account")
	if remoteErr != nil {
		return m.fail(ctx, "delete_account", remoteErr)
	}
	m.logger.Info("account_deleted", "user_id", u.ID)
	m.notify(ctx, notify.KindSuccess, "session.account_deleted", "Account deleted successfully", map[string]any{"user_id": u.ID})
	return nil
}

// UpdateProfile keeps id, email and role from the current session and takes
// everything else from the backend's answer, falling back to the patch.
func (m *Manager) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (models.User, error) {
	token, cur, err := m.requireToken()
	if err != nil {
		return models.User{}, m.fail(ctx, "update_profile", err)
	}
	if err := validate.ProfilePatch(patch); err != nil {
		return models.User{}, m.fail(ctx, "update_profile", err)
	}
	done, err := m.guard.begin("update_profile")
	if err != nil {
		return models.User{}, err
	}
	defer done()

	resp, err := m.api.UpdateProfile(ctx, token, patch)
	if err != nil {
		return models.User{}, m.fail(ctx, "update_profile", err)
	}

	next := mergeProfile(cur, patch, resp)
	m.mu.Lock()
	if m.state == StateAuthenticated && m.token == token {
		m.user = &next
	}
	m.mu.Unlock()

	m.notify(ctx, notify.KindSuccess, "session.profile_updated", "Profile updated successfully!", map[string]any{"user_id": cur.ID})
	return next, nil
}

func pick(resp string, patch *string, cur string) string {
	switch {
	case resp != "":
		return resp
	case patch != nil:
		return *patch
	}
	return cur
}

func mergeProfile(cur models.User, patch models.ProfilePatch, resp models.User) models.User {
	next := cur
	next.FirstName = pick(resp.FirstName, patch.FirstName, cur.FirstName)
	next.LastName = pick(resp.LastName, patch.LastName, cur.LastName)
	next.Gender = pick(resp.Gender, patch.Gender, cur.Gender)
	switch {
	case resp.Profile != nil:
		p := *resp.Profile
		next.Profile = &p
	case patch.Profile != nil:
		p := *patch.Profile
		next.Profile = &p
	}
	return next
}

func (m *Manager) Signup(ctx context.Context, r models.Registration) error {
	if err := validate.Registration(r); err != nil {
		return m.fail(ctx, "signup", err)
	}
	done, err := m.guard.begin("signup")
	if err != nil {
		return err
	}
	defer done()

	if _, err := m.api.Signup(ctx, r); err != nil {
		return m.fail(ctx, "signup", err)
	}
	m.notify(ctx, notify.KindSuccess, "session.signed_up",
		"Signup successful! Please check your email for OTP verification.", map[string]any{"email": r.Email})
	return nil
}

func (m *Manager) VerifyActivationOTP(ctx context.Context, email, otp string) error {
	if err := validate.First(validate.Email("email", email), validate.OTP("otp", otp)); err != nil {
		return m.fail(ctx, "activate", err)
	}
	done, err := m.guard.begin("activate")
	if err != nil {
		return err
	}
	defer done()

	if _, err := m.api.VerifyActivationOTP(ctx, email, otp); err != nil {
		return m.fail(ctx, "activate", err)
	}
	m.notify(ctx, notify.KindSuccess, "session.activated", "Account activated successfully! You can now login.", nil)
	return nil
}

func (m *Manager) ResendActivationOTP(ctx context.Context, email string) error {
	if err := validate.Email("email", email); err != nil {
		return m.fail(ctx, "resend_otp", err)
	}
	done, err := m.guard.begin("resend_otp")
	if err != nil {
		return err
	}
	defer done()

	if _, err := m.api.ResendActivationOTP(ctx, email); err != nil {
		return m.fail(ctx, "resend_otp", err)
	}
	m.notify(ctx, notify.KindSuccess, "session.otp_resent", "OTP has been resent to your email.", nil)
	return nil
}

// The password reset steps are independent: the caller carries the email between them.

func (m *Manager) PasswordResetVerifyEmail(ctx context.Context, email string) error {
	if err := validate.Email("email", email); err != nil {
		return m.fail(ctx, "reset_email", err)
	}
	done, err := m.guard.begin("reset_email")
	if err != nil {
		return err
	}
	defer done()

	if _, err := m.api.PasswordResetVerifyEmail(ctx, email); err != nil {
		return m.fail(ctx, "reset_email", err)
	}
	m.notify(ctx, notify.KindSuccess, "session.reset_otp_sent", "OTP has been sent to your email.", nil)
	return nil
}

func (m *Manager) PasswordResetVerifyOTP(ctx context.Context, email, otp string) error {
	if err := validate.First(validate.Email("email", email), validate.OTP("otp", otp)); err != nil {
		return m.fail(ctx, "reset_otp", err)
	}
	done, err := m.guard.begin("reset_otp")
	if err != nil {
		return err
	}
	defer done()

	if _, err := m.api.PasswordResetVerifyOTP(ctx, email, otp); err != nil {
		return m.fail(ctx, "reset_otp", err)
	}
	m.notify(ctx, notify.KindSuccess, "session.reset_otp_verified", "OTP verified. Please set your new password.", nil)
	return nil
}

func (m *Manager) PasswordResetConfirm(ctx context.Context, email, newPassword1, newPassword2 string) error {
	err := validate.First(
		validate.Email("email", email),
		validate.Password("new_password1", newPassword1),
		validate.Match("new_password2", newPassword1, newPassword2),
	)
	if err != nil {
		return m.fail(ctx, "reset_confirm", err)
	}
	done, err := m.guard.begin("reset_confirm")
	if err != nil {
		return err
	}
	defer done()

	if _, err := m.api.PasswordResetConfirm(ctx, email, newPassword1, newPassword2); err != nil {
		return m.fail(ctx, "reset_confirm", err)
	}
	m.notify(ctx, notify.KindSuccess, "session.password_reset",
		"Password reset successful! You can now login with your new password.", nil)
	return nil
}

func (m *Manager) ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) error {
	token, u, err := m.requireToken()
	if err != nil {
		return m.fail(ctx, "change_password", err)
	}
	err = validate.First(
		validate.Required("old_password", oldPassword),
		validate.Password("new_password", newPassword),
		validate.Match("confirm_password", newPassword, confirmPassword),
	)
	if err != nil {
		return m.fail(ctx, "change_password", err)
	}
	done, err := m.guard.begin("change_password")
	if err != nil {
		return err
	}
	defer done()

	if _, err := m.api.ChangePassword(ctx, token, oldPassword, newPassword, confirmPassword); err != nil {
		return m.fail(ctx, "change_password", err)
	}
	m.notify(ctx, notify.KindSuccess, "session.password_changed", "Password changed successfully!", map[string]any{"user_id": u.ID})
	return nil
}

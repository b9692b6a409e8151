// Package validate checks user input before anything is sent to the backend.
package validate

import (
	"net/mail"
	"strings"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/models"
)

const (
	MinPasswordLen = 8
	OTPLen         = 6
)

func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.Validation(field, field+" is required")
	}
	return nil
}

func Email(field, value string) error {
	if err := Required(field, value); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != strings.TrimSpace(value) {
		return apperr.Validation(field, "enter a valid email address")
	}
	return nil
}

func Password(field, value string) error {
	if value == "" {
		return apperr.Validation(field, field+" is required")
	}
	if len([]rune(value)) < MinPasswordLen {
		return apperr.Validation(field, "password must be at least 8 characters")
	}
	return nil
}

func Match(field, value, confirmation string) error {
	if value != confirmation {
		return apperr.Validation(field, "passwords do not match")
	}
	return nil
}

// OTP accepts exactly six ASCII digits.
func OTP(field, value string) error {
	if len(value) != OTPLen {
		return apperr.Validation(field, "code must be 6 digits")
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return apperr.Validation(field, "code must be 6 digits")
		}
	}
	return nil
}

func Role(field string, r models.Role) error {
	switch r {
	case models.RoleCustomer, models.RoleShopOwner, models.RoleSeller, models.RoleStoreManager:
		return nil
	case "":
		return apperr.Validation(field, field+" is required")
	}
	return apperr.Validation(field, "unknown role")
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func Credentials(email, password string, role models.Role) error {
	return First(
		Email("email", email),
		Required("password", password),
		Role("role", role),
	)
}

func Registration(r models.Registration) error {
	return First(
		Email("email", r.Email),
		Required("first_name", r.FirstName),
		Required("last_name", r.LastName),
		Role("role", r.Role),
		Password("password", r.Password),
		Match("confirm_password", r.Password, r.ConfirmPassword),
	)
}

func ProfilePatch(p models.ProfilePatch) error {
	if p.FirstName != nil {
		if err := Required("first_name", *p.FirstName); err != nil {
			return err
		}
	}
	if p.LastName != nil {
		if err := Required("last_name", *p.LastName); err != nil {
			return err
		}
	}
	if p.FirstName == nil && p.LastName == nil && p.Gender == nil && p.Profile == nil {
		return apperr.Validation("", "nothing to update")
	}
	return nil
}

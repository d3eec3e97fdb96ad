package users

import (
	errors "github.com/frahmantamala/user-backoffice/internal"
	"github.com/frahmantamala/user-backoffice/internal/core/common/validation"
)

// CreateUserDTO carries the mandatory account fields. IsActive defaults to
// true when omitted.
type CreateUserDTO struct {
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	RoleID   int64  `json:"role_id"`
	MajorID  int64  `json:"major_id"`
	IsActive *bool  `json:"is_active"`
}

func (d *CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MinLength(3).MaxLength(64)
	v.Field("fullname", d.Fullname).Required().MaxLength(255)
	v.Field("email", d.Email).Required().Email()
	v.Field("role_id", d.RoleID).Required()
	v.Field("major_id", d.MajorID).Required()
	return v.Validate()
}

func (d *CreateUserDTO) Active() bool {
	if d.IsActive == nil {
		return true
	}
	return *d.IsActive
}

// UpdateUserDTO is a full replacement set. Mandatory fields are validated the
// same as on create, so an omitted field is rejected instead of silently
// persisting a zero value; an omitted is_active keeps the stored flag.
type UpdateUserDTO struct {
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	RoleID   int64  `json:"role_id"`
	MajorID  int64  `json:"major_id"`
	IsActive *bool  `json:"is_active"`
}

func (d *UpdateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MinLength(3).MaxLength(64)
	v.Field("fullname", d.Fullname).Required().MaxLength(255)
	v.Field("email", d.Email).Required().Email()
	v.Field("role_id", d.RoleID).Required()
	v.Field("major_id", d.MajorID).Required()
	return v.Validate()
}

// ResetPasswordForm is the self-service redemption input.
type ResetPasswordForm struct {
	Token           string
	Password        string
	ConfirmPassword string
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserEnvelope struct {
	Message string   `json:"message"`
	User    *Summary `json:"user"`
}

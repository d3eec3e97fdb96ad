package users

import (
	"errors"

	userDatamodel "github.com/frahmantamala/user-backoffice/internal/core/datamodel/user"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("username or email already in use")
)

// ReferenceItem is the fixed projection for role and major references.
type ReferenceItem struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// ListItem is the fixed projection returned by the listing endpoint.
type ListItem struct {
	ID       int64          `json:"id"`
	Username string         `json:"username"`
	Fullname string         `json:"fullname"`
	Email    string         `json:"email"`
	IsActive bool           `json:"is_active"`
	Role     *ReferenceItem `json:"role"`
	Major    *ReferenceItem `json:"major"`
}

// Summary is the projection returned by create and update. The generated
// password and the issued token never appear here.
type Summary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

func toListItem(u *userDatamodel.User) ListItem {
	item := ListItem{
		ID:       u.ID,
		Username: u.Username,
		Fullname: u.Fullname,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
	if u.Role != nil {
		item.Role = &ReferenceItem{ID: u.Role.ID, Code: u.Role.Code, Name: u.Role.Name}
	}
	if u.Major != nil {
		item.Major = &ReferenceItem{ID: u.Major.ID, Code: u.Major.Code, Name: u.Major.Name}
	}
	return item
}

func toSummary(u *userDatamodel.User) *Summary {
	return &Summary{
		ID:       u.ID,
		Username: u.Username,
		Fullname: u.Fullname,
		Email:    u.Email,
	}
}

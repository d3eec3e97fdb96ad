// Package audit appends immutable records of who did what.
package audit

import (
	auditDatamodel "github.com/frahmantamala/user-backoffice/internal/core/datamodel/audit"
)

const (
	ActionCreateUser        = "create-user"
	ActionUpdateUser        = "update-user"
	ActionDeleteUser        = "delete-user"
	ActionSendResetPassword = "send-reset-password-user"
	ActionResetPassword     = "reset-password"
)

// Repository persists audit rows. Append-only; there is no update or delete.
type Repository interface {
	Append(log *auditDatamodel.Log) error
	ListByAction(action string) ([]*auditDatamodel.Log, error)
}

package postgres

import (
	"database/sql"
	"fmt"

	"github.com/frahmantamala/user-backoffice/internal"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetActorByID(userID int64) (*internal.Actor, error) {
	var actor internal.Actor
	query := `SELECT id, username, email FROM users WHERE id = ? AND is_active = true`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&actor.ID, &actor.Username, &actor.Email); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("actor not found")
		}
		return nil, err
	}
	return &actor, nil
}

// Package identity adapts the marketplace's user and content services for
// case enrichment.
package identity

import (
	"github.com/castlinked/castlinked-backend/internal/dto"
	"github.com/castlinked/castlinked-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Directory resolves user ids to display data from the users table.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) Resolve(id uuid.UUID) (*dto.PartyView, error) {
	var user models.User
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dto.PartyView{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}, nil
}

// IsAdmin reports whether the user carries the admin role.
func (d *Directory) IsAdmin(id uuid.UUID) bool {
	var user models.User
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		return false
	}
	return user.Role == "admin"
}

package users

import (
	"context"

	"github.com/dmitrijs2005/userhub/internal/server/models"
)

// Repository is the persistence contract for user entities. Absent rows are
// reported as common.ErrorNotFound; unique-constraint violations as
// common.ErrorDuplicateEmail / common.ErrorDuplicateUsername /
// common.ErrorDuplicateField.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// List returns one page of users plus the total count of the filtered
	// set. search matches case-insensitively against username, email,
	// first_name, and last_name; isActive, when non-nil, filters exactly.
	// Results are ordered newest first.
	List(ctx context.Context, offset, limit int, search string, isActive *bool) ([]*models.User, int64, error)

	// Update applies only the fields set in upd and refreshes updated_at.
	Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)

	// SetActive toggles the activation flag. SetActive(id, false) is the
	// soft delete: the row and its uniqueness slots are retained.
	SetActive(ctx context.Context, id int64, active bool) error

	// HardDelete removes the row permanently, freeing its uniqueness slots.
	HardDelete(ctx context.Context, id int64) error

	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
	TouchLastLogin(ctx context.Context, id int64) error
}

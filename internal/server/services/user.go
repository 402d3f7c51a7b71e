// This file implements UserService: registration, profile CRUD, paginated
// listing/search, activation toggles, and password changes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/dbx"
	"github.com/dmitrijs2005/userhub/internal/logging"
	"github.com/dmitrijs2005/userhub/internal/server/config"
	"github.com/dmitrijs2005/userhub/internal/server/events"
	"github.com/dmitrijs2005/userhub/internal/server/models"
	"github.com/dmitrijs2005/userhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/userhub/internal/server/security"
)

// CreateUserInput carries a validated registration request. The password is
// still plaintext here; it is hashed exactly once, before persisting.
type CreateUserInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
	Phone     *string
	Bio       *string
	AvatarURL *string
}

// UserPage is one page of a filtered user listing.
type UserPage struct {
	Users []*models.User
	Total int64
	Page  int
	Size  int
	Pages int
}

// UserService provides user management business logic on top of the
// repository layer.
type UserService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	logger          logging.Logger
	producer        *events.Producer
	bcryptCost      int
	defaultPageSize int
	maxPageSize     int
}

// NewUserService constructs a UserService. producer may be nil, which
// disables event publishing.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger, producer *events.Producer) *UserService {
	return &UserService{
		db:              db,
		repomanager:     m,
		logger:          logger,
		producer:        producer,
		bcryptCost:      cfg.BcryptCost,
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
	}
}

func checkPassword(plain, hash string) bool {
	return security.CheckPassword(plain, hash)
}

// CreateUser registers a new user. The duplicate pre-checks are a fast path
// for friendlier errors; the database unique constraints remain the source
// of truth under concurrent registrations.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	email := strings.ToLower(in.Email)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorDuplicateEmail
	} else if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "email pre-check failed", "error", err)
		return nil, common.ErrorInternal
	}

	if _, err := repo.GetByUsername(ctx, in.Username); err == nil {
		return nil, common.ErrorDuplicateUsername
	} else if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "username pre-check failed", "error", err)
		return nil, common.ErrorInternal
	}

	hash, err := security.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	user, err := repo.Create(ctx, &models.User{
		Email:          email,
		Username:       in.Username,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Phone:          in.Phone,
		Bio:            in.Bio,
		AvatarURL:      in.AvatarURL,
		HashedPassword: hash,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	s.producer.Publish(ctx, events.TypeUserCreated, user.ID, user.Email)

	return user, nil
}

// GetUser returns the user with the given id or common.ErrorNotFound.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// ListUsers returns a paginated, optionally filtered user listing.
// page is 1-based; size falls back to the default and is clamped to the
// configured maximum.
func (s *UserService) ListUsers(ctx context.Context, page, size int, search string, isActive *bool) (*UserPage, error) {
	if page < 1 {
		return nil, common.ErrorValidation
	}
	if size <= 0 {
		size = s.defaultPageSize
	} else if size > s.maxPageSize {
		size = s.maxPageSize
	}

	offset := (page - 1) * size

	users, total, err := s.repomanager.Users(s.db).List(ctx, offset, size, search, isActive)
	if err != nil {
		s.logger.Error(ctx, "user listing failed", "error", err)
		return nil, common.ErrorInternal
	}

	pages := int((total + int64(size) - 1) / int64(size))

	return &UserPage{Users: users, Total: total, Page: page, Size: size, Pages: pages}, nil
}

// UpdateUser applies a partial profile update.
func (s *UserService) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	if upd.Email != nil {
		email := strings.ToLower(*upd.Email)
		upd.Email = &email
	}

	user, err := s.repomanager.Users(s.db).Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user updated", "user_id", user.ID)
	return user, nil
}

// DeactivateUser soft-deletes the user: the row is retained and its email
// and username stay reserved.
func (s *UserService) DeactivateUser(ctx context.Context, id int64) error {
	if err := s.repomanager.Users(s.db).SetActive(ctx, id, false); err != nil {
		return err
	}

	s.logger.Info(ctx, "user deactivated", "user_id", id)
	s.producer.Publish(ctx, events.TypeUserDeactivated, id, "")
	return nil
}

// ActivateUser re-enables a soft-deleted user and returns the fresh row.
// The toggle and the re-read run in one transaction so the returned row
// cannot reflect a concurrent mutation in between.
func (s *UserService) ActivateUser(ctx context.Context, id int64) (*models.User, error) {
	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		if err := repo.SetActive(ctx, id, true); err != nil {
			return err
		}

		u, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user activated", "user_id", id)
	return user, nil
}

// HardDeleteUser removes the row permanently, freeing the email and
// username for re-registration.
func (s *UserService) HardDeleteUser(ctx context.Context, id int64) error {
	if err := s.repomanager.Users(s.db).HardDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info(ctx, "user hard-deleted", "user_id", id)
	return nil
}

// ChangePassword verifies the current password and replaces the stored
// hash. The check happens strictly before any mutation, and both run in a
// single transaction so the verified hash is the one being replaced.
func (s *UserService) ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	var email string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if !checkPassword(currentPassword, user.HashedPassword) {
			return common.ErrorInvalidCredentials
		}

		hash, err := security.HashPassword(newPassword, s.bcryptCost)
		if err != nil {
			s.logger.Error(ctx, "password hashing failed", "error", err)
			return common.ErrorInternal
		}

		email = user.Email
		return repo.UpdatePassword(ctx, id, hash)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "password changed", "user_id", id)
	s.producer.Publish(ctx, events.TypePasswordChanged, id, email)
	return nil
}
